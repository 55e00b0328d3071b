// Package fallback holds the static, category-keyed verdict skeletons used
// when generation output is missing or invalid. The table is defined at
// build time, parsed once, and read-only afterwards.
package fallback

import (
	_ "embed"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/vcinsight/dealpipe/internal/model"
)

//go:embed templates.yaml
var templatesYAML []byte

// template is the YAML shape of one pre-authored verdict skeleton.
type template struct {
	Verdict            string `yaml:"verdict"`
	ReadinessLevel     string `yaml:"readinessLevel"`
	ReadinessRationale string `yaml:"readinessRationale"`
	RulingStatement    string `yaml:"rulingStatement"`
	KillerQuestion     string `yaml:"killerQuestion"`
	FrameworkScore     int    `yaml:"frameworkScore"`
	CriteriaCleared    int    `yaml:"criteriaCleared"`
	ICStoppingPoint    string `yaml:"icStoppingPoint"`
	Concerns           []struct {
		Text       string `yaml:"text"`
		Category   string `yaml:"category"`
		VCQuote    string `yaml:"vcQuote"`
		TeaserLine string `yaml:"teaserLine"`
	} `yaml:"concerns"`
	Strengths []struct {
		Text     string `yaml:"text"`
		Category string `yaml:"category"`
	} `yaml:"strengths"`
	MarketInsight           string `yaml:"marketInsight"`
	VCFrameworkCheck        string `yaml:"vcFrameworkCheck"`
	InevitabilityStatement  string `yaml:"inevitabilityStatement"`
	NarrativeTransformation struct {
		CurrentNarrative     string `yaml:"currentNarrative"`
		TransformedNarrative string `yaml:"transformedNarrative"`
	} `yaml:"narrativeTransformation"`
	HiddenIssuesCount int `yaml:"hiddenIssuesCount"`
}

var templates map[string]template

func init() {
	if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
		panic("fallback: parse templates.yaml: " + err.Error())
	}
	if _, ok := templates["default"]; !ok {
		panic("fallback: templates.yaml missing mandatory default entry")
	}
}

// Categories returns the declared template keys, default included.
func Categories() []string {
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	return keys
}

// Lookup returns the fully-populated verdict skeleton for a category,
// parameterized with the company name, stage, and already-computed founder
// profile. Unknown categories fall back to the default entry. The function
// is pure: identical inputs always yield identical output.
func Lookup(category, companyName, stage string, founderProfile model.FounderProfile) model.VerdictResult {
	tpl, ok := templates[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		tpl = templates["default"]
	}

	name := strings.TrimSpace(companyName)
	if name == "" {
		name = "This company"
	} else {
		// A cases.Caser carries transform state and is not safe for
		// concurrent use, so build one per call.
		name = cases.Title(language.English, cases.NoLower).String(name)
	}

	st := strings.TrimSpace(stage)
	if st == "" {
		st = "an early-stage"
	}

	sub := func(s string) string {
		s = strings.ReplaceAll(s, "{company}", name)
		return strings.ReplaceAll(s, "{stage}", st)
	}

	concerns := make([]model.Concern, 0, len(tpl.Concerns))
	for _, c := range tpl.Concerns {
		concerns = append(concerns, model.Concern{
			Text:       sub(c.Text),
			Category:   c.Category,
			VCQuote:    sub(c.VCQuote),
			TeaserLine: sub(c.TeaserLine),
		})
	}
	strengths := make([]model.Strength, 0, len(tpl.Strengths))
	for _, s := range tpl.Strengths {
		strengths = append(strengths, model.Strength{
			Text:     sub(s.Text),
			Category: s.Category,
		})
	}

	return model.VerdictResult{
		Verdict:            sub(tpl.Verdict),
		ReadinessLevel:     tpl.ReadinessLevel,
		ReadinessRationale: sub(tpl.ReadinessRationale),
		RulingStatement:    sub(tpl.RulingStatement),
		KillerQuestion:     sub(tpl.KillerQuestion),
		FrameworkScore:     tpl.FrameworkScore,
		CriteriaCleared:    tpl.CriteriaCleared,
		ICStoppingPoint:    tpl.ICStoppingPoint,
		Concerns:           concerns,
		Strengths:          strengths,
		MarketInsight:      sub(tpl.MarketInsight),
		VCFrameworkCheck:   sub(tpl.VCFrameworkCheck),
		InevitabilityStatement: sub(tpl.InevitabilityStatement),
		NarrativeTransformation: model.NarrativeTransformation{
			CurrentNarrative:     sub(tpl.NarrativeTransformation.CurrentNarrative),
			TransformedNarrative: sub(tpl.NarrativeTransformation.TransformedNarrative),
		},
		FounderProfile:    founderProfile,
		HiddenIssuesCount: tpl.HiddenIssuesCount,
	}
}
