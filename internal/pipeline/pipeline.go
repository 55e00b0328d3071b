// Package pipeline turns raw deal evidence into a strictly-typed analytical
// verdict, treating the generative backend as an untrusted, fallible
// collaborator: its output only reaches callers after schema validation,
// and each flow applies its own failure policy when it does not.
package pipeline

import (
	"github.com/vcinsight/dealpipe/internal/config"
	"github.com/vcinsight/dealpipe/internal/priors"
	"github.com/vcinsight/dealpipe/pkg/anthropic"
)

// Pipeline composes the analysis stages. All state is per-request; the
// receiver only carries injected collaborators and startup configuration,
// so a single Pipeline is safe for concurrent use.
type Pipeline struct {
	ai      anthropic.Client
	aiCfg   config.AnthropicConfig
	pipeCfg config.PipelineConfig
	priors  priors.Store
}

// New wires a Pipeline. The priors store may be priors.Nop{} when no
// prior-analysis backend is configured.
func New(ai anthropic.Client, aiCfg config.AnthropicConfig, pipeCfg config.PipelineConfig, pr priors.Store) *Pipeline {
	return &Pipeline{
		ai:      ai,
		aiCfg:   aiCfg,
		pipeCfg: pipeCfg,
		priors:  pr,
	}
}
