// Package priors provides read-only access to previously computed per-section
// analysis context, keyed by company identifier. The pipeline only ever reads
// from it; writes happen elsewhere in the product.
package priors

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/vcinsight/dealpipe/internal/config"
)

// Store is the read-only prior-analysis lookup consumed by the verdict flow.
// A company with no prior analysis yields an empty map, not an error.
type Store interface {
	GetSections(ctx context.Context, companyID string) (map[string]string, error)
	Close() error
}

// Open constructs a store from configuration.
func Open(ctx context.Context, cfg config.PriorsConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "", "none":
		return Nop{}, nil
	default:
		return nil, eris.Errorf("priors: unknown driver %q", cfg.Driver)
	}
}

// Nop is the store used when no prior-analysis backend is configured.
type Nop struct{}

func (Nop) GetSections(ctx context.Context, companyID string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (Nop) Close() error { return nil }
