package pipeline

import (
	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// Tool names the backend is forced to answer through. The free-text channel
// is never trusted for structured output.
const (
	classifyToolName = "record_classification"
	snapshotToolName = "record_snapshot_analysis"
	verdictToolName  = "record_verdict_analysis"
)

// classifyTool constrains the advisory classification call to exactly
// {stage, sector}.
func classifyTool() anthropic.ToolDef {
	return anthropic.ToolDef{
		Name:        classifyToolName,
		Description: "Record the company's funding stage and sector classification.",
		Properties: map[string]any{
			"stage": map[string]any{
				"type": "string",
				"enum": model.Stages,
			},
			"sector": map[string]any{
				"type": "string",
				"enum": model.Sectors,
			},
		},
		Required: []string{"stage", "sector"},
	}
}

// snapshotTool is the closed contract of the fast analysis flow.
func snapshotTool() anthropic.ToolDef {
	return anthropic.ToolDef{
		Name:        snapshotToolName,
		Description: "Record the structured deal snapshot extracted from the pitch materials.",
		Properties: map[string]any{
			"company_name": map[string]any{"type": "string"},
			"tagline":      map[string]any{"type": "string"},
			"deal_quality": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"score_0_100": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
					"verdict":     map[string]any{"type": "string", "enum": model.DealVerdicts},
				},
				"required":             []string{"score_0_100", "verdict"},
				"additionalProperties": false,
			},
			"debrief": map[string]any{"type": "string"},
			"tags": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"stage":     map[string]any{"type": "string", "enum": model.Stages},
					"sector":    map[string]any{"type": "string", "enum": model.Sectors},
					"geography": map[string]any{"type": "string"},
					"revenue": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"known":    map[string]any{"type": "boolean"},
							"amount":   map[string]any{"type": "string"},
							"currency": map[string]any{"type": "string"},
							"period":   map[string]any{"type": "string"},
						},
						"required":             []string{"known"},
						"additionalProperties": false,
					},
					"ask": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"known":    map[string]any{"type": "boolean"},
							"amount":   map[string]any{"type": "string"},
							"currency": map[string]any{"type": "string"},
						},
						"required":             []string{"known"},
						"additionalProperties": false,
					},
					"traction_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []string{"stage", "sector", "geography", "revenue", "ask", "traction_tags"},
				"additionalProperties": false,
			},
			"key_strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"key_risks": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		Required: []string{"company_name", "tagline", "deal_quality", "debrief", "tags"},
	}
}

// verdictTool is the closed contract of the deep analysis flow. founderProfile
// is intentionally absent: it is classified locally and stamped onto the
// result afterwards, never generated.
func verdictTool() anthropic.ToolDef {
	concernItem := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"category":   map[string]any{"type": "string", "enum": model.ConcernCategories},
			"vcQuote":    map[string]any{"type": "string"},
			"teaserLine": map[string]any{"type": "string"},
		},
		"required":             []string{"text", "category", "teaserLine"},
		"additionalProperties": false,
	}
	strengthItem := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":     map[string]any{"type": "string"},
			"category": map[string]any{"type": "string", "enum": model.ConcernCategories},
		},
		"required":             []string{"text", "category"},
		"additionalProperties": false,
	}

	return anthropic.ToolDef{
		Name:        verdictToolName,
		Description: "Record the investment-committee style verdict for this deal.",
		Properties: map[string]any{
			"verdict":            map[string]any{"type": "string"},
			"readinessLevel":     map[string]any{"type": "string", "enum": model.ReadinessLevels},
			"readinessRationale": map[string]any{"type": "string"},
			"rulingStatement":    map[string]any{"type": "string"},
			"killerQuestion":     map[string]any{"type": "string"},
			"frameworkScore":     map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
			"criteriaCleared":    map[string]any{"type": "integer", "minimum": 0, "maximum": 7},
			"icStoppingPoint":    map[string]any{"type": "string", "enum": model.ICStoppingPoints},
			"concerns":           map[string]any{"type": "array", "items": concernItem},
			"strengths":          map[string]any{"type": "array", "items": strengthItem},
			"marketInsight":      map[string]any{"type": "string"},
			"vcFrameworkCheck":   map[string]any{"type": "string"},
			"inevitabilityStatement": map[string]any{
				"type": "string",
			},
			"narrativeTransformation": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"currentNarrative":     map[string]any{"type": "string"},
					"transformedNarrative": map[string]any{"type": "string"},
				},
				"required":             []string{"currentNarrative", "transformedNarrative"},
				"additionalProperties": false,
			},
			"hiddenIssuesCount": map[string]any{"type": "integer", "minimum": 0},
		},
		Required: []string{
			"verdict", "readinessLevel", "readinessRationale", "rulingStatement",
			"killerQuestion", "frameworkScore", "criteriaCleared", "icStoppingPoint",
			"concerns", "strengths", "marketInsight", "vcFrameworkCheck",
			"inevitabilityStatement", "narrativeTransformation", "hiddenIssuesCount",
		},
	}
}
