package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/sitelit/internal/logger"
)

var (
	// ErrUnavailable marks a tier that has nothing to offer for this page.
	ErrUnavailable = errors.New("source unavailable")
	// ErrExhausted is returned when every tier of a chain failed.
	ErrExhausted = errors.New("all sources failed")
)

// Strategy is one named tier of a fallback chain.
type Strategy[T any] struct {
	Name    string
	Resolve func(ctx context.Context) (T, error)
}

// Chain tries its strategies in order; the first success wins.
type Chain[T any] struct {
	// Label prefixes warnings, e.g. "progress" or "calendar".
	Label      string
	strategies []Strategy[T]
}

// NewChain builds a chain from strategies in precedence order.
func NewChain[T any](label string, strategies ...Strategy[T]) *Chain[T] {
	return &Chain[T]{Label: label, strategies: strategies}
}

// Names lists the tiers in precedence order.
func (c *Chain[T]) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name
	}
	return names
}

// Resolve returns the first successful result and the name of the tier that produced it.
// Each tier runs only after the previous one has settled; failures are logged as warnings.
func (c *Chain[T]) Resolve(ctx context.Context) (T, string, error) {
	var zero T
	var errs []error

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := s.Resolve(ctx)
		if err == nil {
			logger.Debug("Source resolved", "chain", c.Label, "source", s.Name)
			return result, s.Name, nil
		}

		if errors.Is(err, ErrUnavailable) {
			logger.Debug("Source not applicable", "chain", c.Label, "source", s.Name, "reason", err)
		} else {
			logger.Warn("Source failed, trying next", "chain", c.Label, "source", s.Name, "error", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
	}

	return zero, "", errors.Join(append([]error{ErrExhausted}, errs...)...)
}
