package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vcinsight/dealpipe/internal/fallback"
	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/internal/profile"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

const verdictSystemPrompt = "You are a seasoned VC partner delivering an investment-committee style verdict on a deal. You are rigorous and candid: name the real objection, not the polite one. Answer only through the provided tool."

// deckTextLimit caps how much pre-parsed deck text is forwarded to the
// generation call.
const deckTextLimit = 12000

// Verdict runs the deep analysis flow. Generation output that fails parse or
// shape validation falls back to the static template table instead of
// surfacing an error; rate-limit, billing, timeout, and other upstream
// failures surface verbatim and never fall back.
func (p *Pipeline) Verdict(ctx context.Context, req VerdictRequest) (*model.VerdictResult, model.AnalysisMeta, error) {
	meta := model.AnalysisMeta{Flow: model.FlowVerdict, Model: p.aiCfg.GenerateModel}

	cc := NormalizeContext(req)

	founderProfile := model.FounderProfile(req.ForcedFounderProfile)
	if !founderProfile.Valid() {
		founderProfile = profile.Classify(cc.FounderBackground, cc.Traction, cc.Stage, cc.Category)
	}
	meta.Profile = founderProfile

	// Classification and the prior-analysis lookup are independent; run them
	// concurrently. Both are best-effort.
	var signals model.ClassificationSignals
	priorSections := map[string]string{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		signals = p.verdictSignals(gctx, cc)
		return nil
	})
	if cc.CompanyID != "" {
		g.Go(func() error {
			sections, err := p.priors.GetSections(gctx, cc.CompanyID)
			if err != nil {
				zap.L().Warn("verdict: prior analysis lookup failed",
					zap.String("company_id", cc.CompanyID),
					zap.Error(err),
				)
				return nil
			}
			priorSections = sections
			return nil
		})
	}
	_ = g.Wait()
	meta.Signals = signals

	prompt := buildVerdictPrompt(cc, signals, founderProfile, priorSections)

	resp, perr := p.generate(ctx, anthropic.MessageRequest{
		Model:     p.aiCfg.GenerateModel,
		MaxTokens: 4096,
		System:    anthropic.BuildCachedSystemBlocks(verdictSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: []anthropic.Content{anthropic.TextContent(prompt)}},
		},
		Tools:     []anthropic.ToolDef{verdictTool()},
		ForceTool: verdictToolName,
	}, "verdict")
	if perr != nil {
		return nil, meta, perr
	}

	payload, ok := toolPayload(resp, verdictToolName)
	if ok {
		if result, valid := ValidateVerdict(payload); valid {
			result.FounderProfile = founderProfile
			return result, meta, nil
		}
	}

	// The verdict shape is bounded enough for a pre-authored skeleton to
	// credibly stand in; the snapshot flow has no such option.
	zap.L().Warn("verdict: generation output invalid, serving fallback template",
		zap.String("category", cc.Category),
	)
	meta.Fallback = true
	result := fallback.Lookup(cc.Category, cc.CompanyName, cc.Stage, founderProfile)
	return &result, meta, nil
}

// verdictSignals resolves classification signals for the verdict flow.
// Caller-provided stage/category take precedence; the advisory call only
// runs when something is missing and there is material to classify.
func (p *Pipeline) verdictSignals(ctx context.Context, cc model.CompanyContext) model.ClassificationSignals {
	signals := model.UnknownSignals()
	if contains(model.Stages, cc.Stage) {
		signals.Stage = cc.Stage
	}
	if contains(model.Sectors, cc.Category) {
		signals.Sector = cc.Category
	}
	if signals.Stage != model.SignalUnknown && signals.Sector != model.SignalUnknown {
		return signals
	}

	material := cc.DeckText
	if material == "" {
		material = cc.Description
	}
	if material == "" {
		return signals
	}
	material = truncateRunes(material, 4000)

	classified := p.classify(ctx, []anthropic.Content{anthropic.TextContent(material)})
	if signals.Stage == model.SignalUnknown {
		signals.Stage = classified.Stage
	}
	if signals.Sector == model.SignalUnknown {
		signals.Sector = classified.Sector
	}
	return signals
}

// contextFields pairs prompt labels with CompanyContext accessors, in the
// order they appear in the prompt.
var contextFields = []struct {
	label string
	value func(model.CompanyContext) string
}{
	{"Company", func(c model.CompanyContext) string { return c.CompanyName }},
	{"Stage", func(c model.CompanyContext) string { return c.Stage }},
	{"Category", func(c model.CompanyContext) string { return c.Category }},
	{"Description", func(c model.CompanyContext) string { return c.Description }},
	{"Problem", func(c model.CompanyContext) string { return c.Problem }},
	{"Target customer", func(c model.CompanyContext) string { return c.TargetCustomer }},
	{"Market size", func(c model.CompanyContext) string { return c.MarketSize }},
	{"Traction", func(c model.CompanyContext) string { return c.Traction }},
	{"Competitive advantage", func(c model.CompanyContext) string { return c.CompetitiveAdvantage }},
	{"Revenue model", func(c model.CompanyContext) string { return c.RevenueModel }},
	{"Go-to-market", func(c model.CompanyContext) string { return c.GoToMarket }},
	{"Founder background", func(c model.CompanyContext) string { return c.FounderBackground }},
	{"Why now", func(c model.CompanyContext) string { return c.WhyNow }},
}

// buildVerdictPrompt assembles the generation prompt from company context,
// classification signals, founder-profile tone guidance, and any prior
// analysis sections. Absent fields are omitted, never placeholder-filled.
func buildVerdictPrompt(cc model.CompanyContext, signals model.ClassificationSignals, fp model.FounderProfile, priorSections map[string]string) string {
	var b strings.Builder

	b.WriteString("Deliver your verdict on the following deal.\n\n--- Company materials ---\n")
	for _, f := range contextFields {
		if v := f.value(cc); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.label, v)
		}
	}

	if cc.DeckText != "" {
		deck := truncateRunes(cc.DeckText, deckTextLimit)
		b.WriteString("\n--- Pitch deck (parsed) ---\n")
		b.WriteString(deck)
		b.WriteString("\n")
	}

	if len(priorSections) > 0 {
		b.WriteString("\n--- Prior analysis context ---\n")
		keys := make([]string, 0, len(priorSections))
		for k := range priorSections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "[%s] %s\n", k, priorSections[k])
		}
	}

	fmt.Fprintf(&b, "\nClassification signals (advisory): stage=%s, sector=%s.\n", signals.Stage, signals.Sector)
	fmt.Fprintf(&b, "Founder profile: %s. Tone guidance: %s\n", fp, profile.ToneDirective(fp))

	return b.String()
}

// truncateRunes cuts s to at most n bytes without splitting a rune at the
// cut point.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
