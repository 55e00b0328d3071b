package pipeline

import (
	"context"
	"time"

	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// generate issues the primary schema-constrained generation call. The call
// is attempted exactly once and wrapped in a hard deadline; cancellation
// propagates through the SDK to the transport, so a timed-out call stops
// consuming upstream resources. Retry policy, if any, belongs to the caller.
func (p *Pipeline) generate(ctx context.Context, req anthropic.MessageRequest, phase string) (*anthropic.MessageResponse, *Error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.pipeCfg.GenerateTimeoutSecs)*time.Second)
	defer cancel()

	resp, err := p.ai.CreateMessage(ctx, req)
	if err != nil {
		return nil, MapUpstream(err)
	}
	resp.Usage.LogCost(req.Model, phase)
	return resp, nil
}
