package pipeline

import (
	"context"
	"net/http"
	"net/url"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/mock"

	"github.com/vcinsight/dealpipe/internal/config"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// --- Anthropic mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// hangingClient blocks until the call context is cancelled, simulating a hung
// upstream call. Honoring ctx here mirrors the SDK transport behavior.
type hangingClient struct{}

func (hangingClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// --- Priors mock ---

type mockPriorsStore struct {
	mock.Mock
}

func (m *mockPriorsStore) GetSections(ctx context.Context, companyID string) (map[string]string, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockPriorsStore) Close() error {
	return nil
}

// --- Fixtures ---

func testAICfg() config.AnthropicConfig {
	return config.AnthropicConfig{
		ClassifyModel: "claude-haiku-4-5-20251001",
		GenerateModel: "claude-sonnet-4-5-20250929",
	}
}

func testPipeCfg() config.PipelineConfig {
	return config.PipelineConfig{
		ClassifyTimeoutSecs: 5,
		GenerateTimeoutSecs: 5,
		ClassifyEvidenceCap: 4,
		GenerateEvidenceCap: 6,
	}
}

// toolResponse builds a message response carrying a single tool-use block.
func toolResponse(toolName, payload string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{
			{Type: "tool_use", ToolName: toolName, ToolInput: []byte(payload)},
		},
		StopReason: "tool_use",
		Usage:      anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

// textResponse builds a message response carrying only a free-text block.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
	}
}

// apiError builds an SDK error with the given upstream status.
func apiError(status int) *sdk.Error {
	return &sdk.Error{
		StatusCode: status,
		Request:    &http.Request{Method: http.MethodPost, URL: &url.URL{Path: "/v1/messages"}},
		Response:   &http.Response{StatusCode: status},
	}
}
