package pipeline

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// Kind is the closed error taxonomy of the analysis pipeline.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindRateLimited     Kind = "rate_limited"
	KindPaymentRequired Kind = "payment_required"
	KindTimeout         Kind = "timeout"
	KindUpstream        Kind = "upstream"
	KindInvalidResponse Kind = "invalid_response"
)

// Error is a pipeline failure with a stable kind and a short caller-facing
// message. Raw upstream diagnostics are never carried here; they go to the
// server-side log only.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to the response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError builds a fatal pre-upstream validation failure.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewUnauthenticated builds a fatal authentication failure.
func NewUnauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "Authentication required"}
}

// errInvalidResponse is returned when generation output cannot be parsed or
// fails shape validation. The two cases are deliberately indistinguishable:
// both route to the flow's failure policy.
var errInvalidResponse = &Error{
	Kind:    KindInvalidResponse,
	Message: "Analysis could not be completed",
}

// AsPipelineError extracts an *Error from a chain, if present.
func AsPipelineError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// MapUpstream translates a generation-call failure into the closed taxonomy.
// 429 and billing failures surface verbatim kinds with no retry; a deadline
// or cancellation becomes Timeout; everything else is a generic upstream
// error whose detail is logged but not echoed to the caller.
func MapUpstream(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, Message: "Analysis timed out"}
	}

	if status, ok := anthropic.StatusCode(err); ok {
		switch {
		case status == http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited, Message: "Rate limit exceeded, please try again shortly"}
		case status == http.StatusPaymentRequired || isBillingError(err):
			return &Error{Kind: KindPaymentRequired, Message: "Upstream billing required"}
		}
	} else if isBillingError(err) {
		return &Error{Kind: KindPaymentRequired, Message: "Upstream billing required"}
	}

	zap.L().Error("pipeline: upstream call failed", zap.Error(err))
	return &Error{Kind: KindUpstream, Message: "Analysis service unavailable"}
}

// isBillingError catches billing failures that arrive as 4xx bodies rather
// than a clean 402 status.
func isBillingError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "billing") || strings.Contains(msg, "credit balance")
}
