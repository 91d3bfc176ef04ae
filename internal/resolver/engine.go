package resolver

import (
	"context"
	"fmt"
)

// Engine is the generation engine a resolved configuration is handed to.
type Engine interface {
	// Scan expands content patterns and returns the class-name candidates
	// found in the matched files.
	Scan(ctx context.Context, patterns []string) ([]string, error)
	// Generate produces a stylesheet for the candidates.
	Generate(ctx context.Context, cfg *ResolvedConfig, candidates []string) ([]byte, error)
}

// Build resolves raw against defaults, then scans and generates with engine.
func Build(ctx context.Context, engine Engine, r *Resolver, raw RawConfig, defaults ResolvedConfig) ([]byte, error) {
	if r == nil {
		r = New()
	}

	cfg, err := r.Resolve(raw, defaults)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := engine.Scan(ctx, cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}

	out, err := engine.Generate(ctx, cfg, candidates)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return out, nil
}
