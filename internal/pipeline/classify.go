package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

const classifySystemPrompt = "You are a venture analyst. Classify the company in the provided materials by funding stage and sector. Answer only through the provided tool."

const classifyInstruction = "Classify this company's funding stage and sector from the materials above. Use \"unknown\" when the materials do not support a confident call."

// classify runs the cheap, best-effort classification call over an already
// capped content set. It is advisory only: every failure path degrades to
// unknown signals and is never surfaced. No retry is performed.
func (p *Pipeline) classify(ctx context.Context, content []anthropic.Content) model.ClassificationSignals {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.pipeCfg.ClassifyTimeoutSecs)*time.Second)
	defer cancel()

	content = append(content, anthropic.TextContent(classifyInstruction))

	resp, err := p.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.aiCfg.ClassifyModel,
		MaxTokens: 256,
		System:    []anthropic.SystemBlock{{Text: classifySystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: content},
		},
		Tools:     []anthropic.ToolDef{classifyTool()},
		ForceTool: classifyToolName,
	})
	if err != nil {
		zap.L().Warn("classify: advisory call failed, degrading to unknown", zap.Error(err))
		return model.UnknownSignals()
	}
	resp.Usage.LogCost(p.aiCfg.ClassifyModel, "classify")

	payload, ok := toolPayload(resp, classifyToolName)
	if !ok {
		zap.L().Warn("classify: no tool payload in response, degrading to unknown")
		return model.UnknownSignals()
	}

	var raw struct {
		Stage  string `json:"stage"`
		Sector string `json:"sector"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		zap.L().Warn("classify: malformed tool payload, degrading to unknown", zap.Error(err))
		return model.UnknownSignals()
	}

	signals := model.UnknownSignals()
	if contains(model.Stages, raw.Stage) {
		signals.Stage = raw.Stage
	}
	if contains(model.Sectors, raw.Sector) {
		signals.Sector = raw.Sector
	}
	return signals
}

// evidenceContent converts evidence items into request content blocks.
func evidenceContent(evidence model.EvidenceList) []anthropic.Content {
	out := make([]anthropic.Content, 0, len(evidence))
	for _, ev := range evidence {
		switch ev.Kind {
		case model.EvidenceDocument:
			out = append(out, anthropic.DocumentContent(ev.Data))
		case model.EvidenceImageURL:
			out = append(out, anthropic.ImageURLContent(ev.URL))
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
