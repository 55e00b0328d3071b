// Package profile classifies a founder's likely background from free-text
// signals. The classifier is pure: it never consults the network and always
// returns a value.
package profile

import (
	"strings"

	"github.com/vcinsight/dealpipe/internal/model"
)

// rule pairs a keyword predicate with the profile it assigns. Rules are
// evaluated in order and the first match wins; ordering is part of the
// contract (a background matching both "serial" and "technical" cues must
// classify as serial_founder).
type rule struct {
	profile  model.FounderProfile
	keywords []string
}

var rules = []rule{
	{
		profile: model.ProfileSerialFounder,
		keywords: []string{
			"exited", "exit", "sold my", "sold our", "sold a company",
			"acquired by", "co-founded", "cofounded", "second startup",
			"serial", "previous startup", "previously founded",
		},
	},
	{
		profile: model.ProfileTechnicalFounder,
		keywords: []string{
			"engineer", "engineering", "developer", "cto", "phd",
			"researcher", "scientist", "technical", "built the product",
			"machine learning", "software",
		},
	},
	{
		profile: model.ProfileBusinessFounder,
		keywords: []string{
			"mba", "consulting", "consultant", "mckinsey", "banking",
			"investment bank", "strategy", "business development",
			"sales leader", "cfo",
		},
	},
	{
		profile: model.ProfileDomainExpert,
		keywords: []string{
			"years in", "years of experience", "industry expert",
			"industry veteran", "led ", "managed ", "headed ", "ran the",
		},
	},
}

// toneDirectives map each profile to the short guidance string that
// conditions generation tone. Guidance only; never structure.
var toneDirectives = map[model.FounderProfile]string{
	model.ProfileSerialFounder:    "Speak peer-to-peer. This founder has been through the game before; skip the basics and pressure-test the thesis directly.",
	model.ProfileTechnicalFounder: "Respect the technical depth but push hard on distribution, pricing, and sales motion, where this founder is likely weakest.",
	model.ProfileBusinessFounder:  "Engage on strategy and numbers, but probe whether the product insight is real or borrowed and who actually builds it.",
	model.ProfileDomainExpert:     "Acknowledge the insider knowledge, then challenge whether industry familiarity translates into startup speed.",
	model.ProfileFirstTimeFounder: "Be direct but constructive. Explain the reasoning behind each objection instead of assuming shared context.",
}

// Classify evaluates the ordered rules against the lower-cased founder
// background, falling back to first_time_founder when nothing matches.
// Traction, stage, and category are accepted for signature stability with
// the calling flow; the current rule set keys off background text only.
func Classify(background, traction, stage, category string) model.FounderProfile {
	_ = traction
	_ = stage
	_ = category

	text := strings.ToLower(background)
	if text == "" {
		return model.ProfileFirstTimeFounder
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.profile
			}
		}
	}
	return model.ProfileFirstTimeFounder
}

// ToneDirective returns the generation guidance for a profile. Unknown tags
// degrade to the first-time founder directive.
func ToneDirective(p model.FounderProfile) string {
	if d, ok := toneDirectives[p]; ok {
		return d
	}
	return toneDirectives[model.ProfileFirstTimeFounder]
}
