package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

const snapshotSystemPrompt = "You are a sharp, experienced venture analyst producing a first-pass deal snapshot from pitch materials. Be specific and evidence-bound: never invent numbers the materials do not state. Answer only through the provided tool."

const snapshotInstructionFmt = `Analyze the pitch materials above and record a deal snapshot.

Classification hints (advisory, from a coarse first pass — override them when the materials clearly disagree): stage=%s, sector=%s.

Ground every field in the materials. Mark revenue and ask as known only when explicitly stated.`

// Snapshot runs the fast analysis flow: normalize → classify (best-effort) →
// generate (deadline-bounded) → validate. There is no deterministic fallback
// for this flow; invalid generation output surfaces as an error.
func (p *Pipeline) Snapshot(ctx context.Context, req SnapshotRequest) (*model.SnapshotResult, model.AnalysisMeta, error) {
	meta := model.AnalysisMeta{Flow: model.FlowSnapshot, Model: p.aiCfg.GenerateModel}

	evidence, err := NormalizeEvidence(req)
	if err != nil {
		return nil, meta, err
	}

	signals := p.classify(ctx, evidenceContent(evidence.Cap(p.pipeCfg.ClassifyEvidenceCap)))
	meta.Signals = signals

	content := evidenceContent(evidence.Cap(p.pipeCfg.GenerateEvidenceCap))
	content = append(content, anthropic.TextContent(
		fmt.Sprintf(snapshotInstructionFmt, signals.Stage, signals.Sector),
	))

	resp, perr := p.generate(ctx, anthropic.MessageRequest{
		Model:     p.aiCfg.GenerateModel,
		MaxTokens: 2048,
		System:    anthropic.BuildCachedSystemBlocks(snapshotSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: content},
		},
		Tools:     []anthropic.ToolDef{snapshotTool()},
		ForceTool: snapshotToolName,
	}, "snapshot")
	if perr != nil {
		return nil, meta, perr
	}

	payload, ok := toolPayload(resp, snapshotToolName)
	if !ok {
		zap.L().Warn("snapshot: response carried no structured payload")
		return nil, meta, errInvalidResponse
	}

	result, ok := ValidateSnapshot(payload)
	if !ok {
		zap.L().Warn("snapshot: generation output failed validation")
		return nil, meta, errInvalidResponse
	}

	return result, meta, nil
}
