package pipeline

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// toolPayload extracts the structured payload from a response envelope. The
// primary channel is the forced tool-use block; a raw JSON text block is
// tolerated for backends that answered structurally but outside the tool.
func toolPayload(resp *anthropic.MessageResponse, toolName string) (json.RawMessage, bool) {
	for _, b := range resp.Content {
		if b.Type == "tool_use" && b.ToolName == toolName && len(b.ToolInput) > 0 {
			return b.ToolInput, true
		}
	}
	for _, b := range resp.Content {
		if b.Type != "text" {
			continue
		}
		text := strings.TrimSpace(b.Text)
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
		if strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
			return json.RawMessage(text), true
		}
	}
	return nil, false
}

// requiredKeysPresent checks top-level key presence on the raw payload.
// A result missing a required key is invalid, identically to a parse failure.
func requiredKeysPresent(payload json.RawMessage, keys []string) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return false
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

var snapshotRequiredKeys = []string{"company_name", "tagline", "deal_quality", "debrief", "tags"}

// ValidateSnapshot parses and normalizes a snapshot payload. Returns
// (nil, false) for anything unparseable, shape-broken, or carrying an
// invented enum value — all of which route to the flow's failure policy.
func ValidateSnapshot(payload json.RawMessage) (*model.SnapshotResult, bool) {
	if !requiredKeysPresent(payload, snapshotRequiredKeys) {
		return nil, false
	}

	var result model.SnapshotResult
	if err := json.Unmarshal(payload, &result); err != nil {
		zap.L().Warn("validate: snapshot payload rejected", zap.Error(err))
		return nil, false
	}

	if !contains(model.DealVerdicts, result.DealQuality.Verdict) {
		return nil, false
	}
	result.DealQuality.Score = clamp(result.DealQuality.Score, 0, 100)

	// Tag enums have an explicit unknown member, so invented values degrade
	// instead of invalidating the whole result.
	if !contains(model.Stages, result.Tags.Stage) {
		result.Tags.Stage = model.SignalUnknown
	}
	if !contains(model.Sectors, result.Tags.Sector) {
		result.Tags.Sector = model.SignalUnknown
	}

	// Every array field is present as an array after normalization.
	if result.Tags.TractionTags == nil {
		result.Tags.TractionTags = []string{}
	}
	if result.KeyStrengths == nil {
		result.KeyStrengths = []string{}
	}
	if result.KeyRisks == nil {
		result.KeyRisks = []string{}
	}

	return &result, true
}

var verdictRequiredKeys = []string{
	"verdict", "readinessLevel", "readinessRationale", "rulingStatement",
	"killerQuestion", "frameworkScore", "criteriaCleared", "icStoppingPoint",
	"concerns", "strengths", "marketInsight", "vcFrameworkCheck",
	"inevitabilityStatement", "narrativeTransformation", "hiddenIssuesCount",
}

// ValidateVerdict parses and normalizes a verdict payload. The founder
// profile is stamped by the caller from the local classifier; any profile
// the generator invented is discarded.
func ValidateVerdict(payload json.RawMessage) (*model.VerdictResult, bool) {
	if !requiredKeysPresent(payload, verdictRequiredKeys) {
		return nil, false
	}

	var result model.VerdictResult
	if err := json.Unmarshal(payload, &result); err != nil {
		zap.L().Warn("validate: verdict payload rejected", zap.Error(err))
		return nil, false
	}

	if !contains(model.ReadinessLevels, result.ReadinessLevel) {
		return nil, false
	}
	if result.Verdict == "" || result.RulingStatement == "" {
		return nil, false
	}
	if !contains(model.ICStoppingPoints, result.ICStoppingPoint) {
		result.ICStoppingPoint = "other"
	}

	result.FrameworkScore = clamp(result.FrameworkScore, 0, 10)
	result.CriteriaCleared = clamp(result.CriteriaCleared, 0, 7)
	if result.HiddenIssuesCount < 0 {
		result.HiddenIssuesCount = 0
	}

	concerns := make([]model.Concern, 0, len(result.Concerns))
	for _, c := range result.Concerns {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		if !contains(model.ConcernCategories, c.Category) {
			c.Category = "other"
		}
		concerns = append(concerns, c)
	}
	result.Concerns = concerns

	strengths := make([]model.Strength, 0, len(result.Strengths))
	for _, s := range result.Strengths {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		if !contains(model.ConcernCategories, s.Category) {
			s.Category = "other"
		}
		strengths = append(strengths, s)
	}
	result.Strengths = strengths

	// Never trust a generated founder profile.
	result.FounderProfile = ""

	return &result, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
