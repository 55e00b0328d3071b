package pipeline

import (
	"strings"

	"github.com/vcinsight/dealpipe/internal/model"
)

// SnapshotRequest is the inbound body of the snapshot flow. Exactly one of
// FileBase64 / ImageURLs must resolve to non-empty evidence.
type SnapshotRequest struct {
	FileBase64 string   `json:"fileBase64,omitempty"`
	FileName   string   `json:"fileName,omitempty"`
	ImageURLs  []string `json:"imageUrls,omitempty"`
}

// QuestionResponse is one free-text answer in a verdict request.
type QuestionResponse struct {
	QuestionKey string `json:"question_key"`
	Answer      string `json:"answer"`
}

// VerdictRequest is the inbound body of the verdict flow.
type VerdictRequest struct {
	CompanyID            string             `json:"companyId,omitempty"`
	CompanyName          string             `json:"companyName,omitempty"`
	CompanyDescription   string             `json:"companyDescription,omitempty"`
	Stage                string             `json:"stage,omitempty"`
	Category             string             `json:"category,omitempty"`
	Responses            []QuestionResponse `json:"responses,omitempty"`
	DeckParsed           string             `json:"deckParsed,omitempty"`
	ForcedFounderProfile string             `json:"forcedFounderProfile,omitempty"`
}

// NormalizeEvidence validates and canonicalizes a snapshot request into an
// ordered evidence list. It guarantees non-emptiness and ordering only;
// per-stage caps are the caller's responsibility.
func NormalizeEvidence(req SnapshotRequest) (model.EvidenceList, error) {
	if strings.TrimSpace(req.FileBase64) != "" {
		return model.EvidenceList{{
			Kind: model.EvidenceDocument,
			Data: strings.TrimSpace(req.FileBase64),
			Name: req.FileName,
		}}, nil
	}

	var evidence model.EvidenceList
	for _, u := range req.ImageURLs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		evidence = append(evidence, model.Evidence{
			Kind: model.EvidenceImageURL,
			URL:  u,
		})
	}
	if len(evidence) == 0 {
		return nil, NewValidationError("File or image URLs are required")
	}
	return evidence, nil
}

// questionKeyFields maps verdict question keys onto CompanyContext fields.
var questionKeyFields = map[string]func(*model.CompanyContext, string){
	"description":           func(c *model.CompanyContext, v string) { c.Description = v },
	"problem":               func(c *model.CompanyContext, v string) { c.Problem = v },
	"target_customer":       func(c *model.CompanyContext, v string) { c.TargetCustomer = v },
	"market_size":           func(c *model.CompanyContext, v string) { c.MarketSize = v },
	"traction":              func(c *model.CompanyContext, v string) { c.Traction = v },
	"competitive_advantage": func(c *model.CompanyContext, v string) { c.CompetitiveAdvantage = v },
	"revenue_model":         func(c *model.CompanyContext, v string) { c.RevenueModel = v },
	"go_to_market":          func(c *model.CompanyContext, v string) { c.GoToMarket = v },
	"founder_background":    func(c *model.CompanyContext, v string) { c.FounderBackground = v },
	"why_now":               func(c *model.CompanyContext, v string) { c.WhyNow = v },
}

// NormalizeContext canonicalizes a verdict request into a CompanyContext.
// Unrecognized question keys are dropped; empty answers are never defaulted.
func NormalizeContext(req VerdictRequest) model.CompanyContext {
	cc := model.CompanyContext{
		CompanyID:   strings.TrimSpace(req.CompanyID),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Description: strings.TrimSpace(req.CompanyDescription),
		Stage:       strings.TrimSpace(req.Stage),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		DeckText:    strings.TrimSpace(req.DeckParsed),
	}

	for _, r := range req.Responses {
		answer := strings.TrimSpace(r.Answer)
		if answer == "" {
			continue
		}
		if set, ok := questionKeyFields[strings.ToLower(strings.TrimSpace(r.QuestionKey))]; ok {
			set(&cc, answer)
		}
	}
	return cc
}
