package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vcinsight/dealpipe/internal/fallback"
	"github.com/vcinsight/dealpipe/internal/model"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// fintechRequest provides stage and category, so no classification call runs.
func fintechRequest() VerdictRequest {
	return VerdictRequest{
		CompanyName: "Acme",
		Stage:       "seed",
		Category:    "fintech",
		Responses: []QuestionResponse{
			{QuestionKey: "founder_background", Answer: "Former engineer, previously exited a startup"},
		},
	}
}

func TestVerdict_HappyPath(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(toolResponse(verdictToolName, string(validVerdictPayload(t))), nil).Once()

	result, meta, err := newTestPipeline(ai).Verdict(context.Background(), fintechRequest())

	require.NoError(t, err)
	assert.Equal(t, model.ReadinessMedium, result.ReadinessLevel)
	// The founder profile comes from the local classifier, never generation.
	assert.Equal(t, model.ProfileSerialFounder, result.FounderProfile)
	assert.Equal(t, model.FlowVerdict, meta.Flow)
	assert.Equal(t, "seed", meta.Signals.Stage)
	assert.Equal(t, "fintech", meta.Signals.Sector)
	assert.False(t, meta.Fallback)
	// Stage and category were provided, so only the generation call ran.
	ai.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestVerdict_InvalidOutputFallsBackToFintechTemplate(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(textResponse("Let me think about this one..."), nil).Once()

	result, meta, err := newTestPipeline(ai).Verdict(context.Background(), fintechRequest())

	require.NoError(t, err)
	assert.True(t, meta.Fallback)

	expected := fallback.Lookup("fintech", "Acme", "seed", model.ProfileSerialFounder)
	assert.Equal(t, expected.MarketInsight, result.MarketInsight)
	assert.Equal(t, expected.VCFrameworkCheck, result.VCFrameworkCheck)
	assert.Equal(t, model.ProfileSerialFounder, result.FounderProfile)
}

func TestVerdict_FallbackIsDeterministic(t *testing.T) {
	a := fallback.Lookup("fintech", "Acme", "seed", model.ProfileSerialFounder)
	b := fallback.Lookup("fintech", "Acme", "seed", model.ProfileSerialFounder)

	aJSON, err := json.Marshal(a)
	require.NoError(t, err)
	bJSON, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(aJSON), string(bJSON))
}

func TestVerdict_UnknownCategoryFallsBackToDefaultTemplate(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(textResponse("prose"), nil).Once()

	req := fintechRequest()
	req.Category = "unknown-xyz"

	result, meta, err := newTestPipeline(ai).Verdict(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, meta.Fallback)
	expected := fallback.Lookup("default", "Acme", "seed", model.ProfileSerialFounder)
	assert.Equal(t, expected.MarketInsight, result.MarketInsight)
}

func TestVerdict_RateLimitedDoesNotFallBack(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(nil, apiError(429)).Once()

	result, meta, err := newTestPipeline(ai).Verdict(context.Background(), fintechRequest())

	// Rate-limit is distinct from invalid-response: surface, never template.
	assert.Nil(t, result)
	assert.False(t, meta.Fallback)
	pe, ok := AsPipelineError(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, pe.Kind)
	ai.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestVerdict_ForcedFounderProfileWins(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(toolResponse(verdictToolName, string(validVerdictPayload(t))), nil).Once()

	req := fintechRequest()
	req.ForcedFounderProfile = "domain_expert"

	result, _, err := newTestPipeline(ai).Verdict(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, model.ProfileDomainExpert, result.FounderProfile)
}

func TestVerdict_InvalidForcedProfileFallsBackToClassifier(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(toolResponse(verdictToolName, string(validVerdictPayload(t))), nil).Once()

	req := fintechRequest()
	req.ForcedFounderProfile = "unicorn_whisperer"

	result, _, err := newTestPipeline(ai).Verdict(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, model.ProfileSerialFounder, result.FounderProfile)
}

func TestVerdict_MissingSignalsTriggerClassification(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(toolResponse(classifyToolName, `{"stage": "pre_seed", "sector": "ai"}`), nil).Once()
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(toolResponse(verdictToolName, string(validVerdictPayload(t))), nil).Once()

	req := VerdictRequest{
		CompanyName: "Acme",
		DeckParsed:  "We build agentic ML infrastructure for banks.",
	}

	_, meta, err := newTestPipeline(ai).Verdict(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "pre_seed", meta.Signals.Stage)
	assert.Equal(t, "ai", meta.Signals.Sector)
	ai.AssertNumberOfCalls(t, "CreateMessage", 2)
}

func TestVerdict_PriorSectionsEnrichPrompt(t *testing.T) {
	ai := &mockAnthropicClient{}
	var prompt string
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(anthropic.MessageRequest)
			prompt = req.Messages[0].Content[0].Text
		}).
		Return(toolResponse(verdictToolName, string(validVerdictPayload(t))), nil).Once()

	store := &mockPriorsStore{}
	store.On("GetSections", mock.Anything, "co_42").
		Return(map[string]string{"market": "TAM previously sized at $4B"}, nil).Once()

	pipe := New(ai, testAICfg(), testPipeCfg(), store)

	req := fintechRequest()
	req.CompanyID = "co_42"

	_, _, err := pipe.Verdict(context.Background(), req)

	require.NoError(t, err)
	assert.Contains(t, prompt, "TAM previously sized at $4B")
	assert.Contains(t, prompt, "[market]")
	store.AssertExpectations(t)
}

func TestTruncateRunesKeepsBoundaries(t *testing.T) {
	// 3-byte runes; a byte-index cut at 7 would land mid-rune.
	s := strings.Repeat("→", 4)
	for n := 0; n <= len(s)+1; n++ {
		got := truncateRunes(s, n)
		assert.True(t, utf8.ValidString(got), "n=%d", n)
		assert.LessOrEqual(t, len(got), n)
	}
	assert.Equal(t, s, truncateRunes(s, len(s)))
	assert.Equal(t, "short", truncateRunes("short", 4000))
}

func TestBuildVerdictPromptTruncatesDeckOnRuneBoundary(t *testing.T) {
	cc := model.CompanyContext{
		CompanyName: "Acme",
		DeckText:    strings.Repeat("é", deckTextLimit), // 2 bytes per rune
	}

	prompt := buildVerdictPrompt(cc, model.UnknownSignals(), model.ProfileFirstTimeFounder, nil)

	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, "Pitch deck (parsed)")
}

func TestVerdict_PriorStoreFailureIsSwallowed(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(toolResponse(verdictToolName, string(validVerdictPayload(t))), nil).Once()

	store := &mockPriorsStore{}
	store.On("GetSections", mock.Anything, "co_42").Return(nil, assert.AnError).Once()

	pipe := New(ai, testAICfg(), testPipeCfg(), store)

	req := fintechRequest()
	req.CompanyID = "co_42"

	_, _, err := pipe.Verdict(context.Background(), req)

	require.NoError(t, err)
}
