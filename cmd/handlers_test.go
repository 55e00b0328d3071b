package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcinsight/dealpipe/internal/auth"
	"github.com/vcinsight/dealpipe/internal/config"
	"github.com/vcinsight/dealpipe/internal/pipeline"
	"github.com/vcinsight/dealpipe/internal/priors"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// stubClient returns a fixed response or error for every generation call.
type stubClient struct {
	resp *anthropic.MessageResponse
	err  error
}

func (s *stubClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return s.resp, s.err
}

const verdictToolPayload = `{
	"verdict": "Promising but unproven.",
	"readinessLevel": "MEDIUM",
	"readinessRationale": "r",
	"rulingStatement": "The committee would wait.",
	"killerQuestion": "What is NRR?",
	"frameworkScore": 6,
	"criteriaCleared": 4,
	"icStoppingPoint": "traction",
	"concerns": [{"text": "Thin cohort data", "category": "traction", "teaserLine": "t"}],
	"strengths": [{"text": "Sharp wedge", "category": "product"}],
	"marketInsight": "m",
	"vcFrameworkCheck": "v",
	"inevitabilityStatement": "i",
	"narrativeTransformation": {"currentNarrative": "a", "transformedNarrative": "b"},
	"hiddenIssuesCount": 2
}`

func verdictStub() *stubClient {
	return &stubClient{resp: &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{
			Type:      "tool_use",
			ToolName:  "record_verdict_analysis",
			ToolInput: []byte(verdictToolPayload),
		}},
		StopReason: "tool_use",
	}}
}

func newTestServer(t *testing.T, ai anthropic.Client, requireAuthOnVerdict bool) *httptest.Server {
	t.Helper()
	pipe := pipeline.New(ai,
		config.AnthropicConfig{ClassifyModel: "m1", GenerateModel: "m2"},
		config.PipelineConfig{
			ClassifyTimeoutSecs: 5,
			GenerateTimeoutSecs: 5,
			ClassifyEvidenceCap: 4,
			GenerateEvidenceCap: 6,
		},
		priors.Nop{},
	)
	authn := auth.NewStaticTokens([]string{"tok-test"})
	srv := httptest.NewServer(newRouter(pipe, authn, []string{"*"}, requireAuthOnVerdict))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestSnapshotRequiresAuth(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp := postJSON(t, srv.URL+"/api/analyze/snapshot", "", `{"imageUrls": ["https://x/1.png"]}`)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestSnapshotRejectsBadBody(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp := postJSON(t, srv.URL+"/api/analyze/snapshot", "tok-test", `{not json`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSnapshotRejectsMissingEvidence(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp := postJSON(t, srv.URL+"/api/analyze/snapshot", "tok-test", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "image URLs")
}

func TestVerdictSuccessEnvelope(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp := postJSON(t, srv.URL+"/api/analyze/verdict", "tok-test",
		`{"companyName": "Acme", "stage": "seed", "category": "fintech"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool            `json:"success"`
		Result  json.RawMessage `json:"result"`
		Meta    struct {
			Flow     string `json:"flow"`
			Fallback bool   `json:"fallback"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "verdict", body.Meta.Flow)
	assert.False(t, body.Meta.Fallback)

	var result map[string]any
	require.NoError(t, json.Unmarshal(body.Result, &result))
	assert.Equal(t, "MEDIUM", result["readinessLevel"])
	// The profile is stamped locally from founder background, never generated.
	assert.Equal(t, "first_time_founder", result["founderProfile"])
}

func TestVerdictAuthOptional(t *testing.T) {
	srv := newTestServer(t, verdictStub(), false)

	resp := postJSON(t, srv.URL+"/api/analyze/verdict", "",
		`{"companyName": "Acme", "stage": "seed", "category": "fintech"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVerdictAuthRequiredByDefault(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp := postJSON(t, srv.URL+"/api/analyze/verdict", "",
		`{"companyName": "Acme"}`)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rate limited", &pipeline.Error{Kind: pipeline.KindRateLimited, Message: "m"}, http.StatusTooManyRequests},
		{"payment required", &pipeline.Error{Kind: pipeline.KindPaymentRequired, Message: "m"}, http.StatusPaymentRequired},
		{"timeout", &pipeline.Error{Kind: pipeline.KindTimeout, Message: "m"}, http.StatusGatewayTimeout},
		{"upstream", &pipeline.Error{Kind: pipeline.KindUpstream, Message: "m"}, http.StatusInternalServerError},
		{"invalid response", &pipeline.Error{Kind: pipeline.KindInvalidResponse, Message: "m"}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeAnalysisError(rec, tc.err)
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "m", body["error"])
		})
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}

func TestRequestIDGenerated(t *testing.T) {
	srv := newTestServer(t, verdictStub(), true)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
