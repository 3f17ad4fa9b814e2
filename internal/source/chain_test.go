package source

import (
	"context"
	"errors"
	"testing"
)

func tier(name string, val int, err error, calls *[]string) Strategy[int] {
	return Strategy[int]{
		Name: name,
		Resolve: func(ctx context.Context) (int, error) {
			*calls = append(*calls, name)
			return val, err
		},
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	var calls []string
	chain := NewChain("test",
		tier("primary", 0, errors.New("boom"), &calls),
		tier("secondary", 2, nil, &calls),
		tier("tertiary", 3, nil, &calls),
	)

	got, name, err := chain.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != 2 || name != "secondary" {
		t.Errorf("Resolve() = (%d, %q), want (2, secondary)", got, name)
	}
	if len(calls) != 2 {
		t.Errorf("tiers called = %v, want primary then secondary only", calls)
	}
}

func TestChain_Exhausted(t *testing.T) {
	var calls []string
	chain := NewChain("test",
		tier("a", 0, ErrUnavailable, &calls),
		tier("b", 0, errors.New("down"), &calls),
	)

	_, name, err := chain.Resolve(context.Background())
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("error = %v, want ErrExhausted", err)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, should wrap tier errors", err)
	}
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
	if got := chain.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names() = %v", got)
	}
}

func TestChain_StopsOnCancelledContext(t *testing.T) {
	var calls []string
	chain := NewChain("test", tier("a", 1, nil, &calls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := chain.Resolve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(calls) != 0 {
		t.Errorf("tiers called = %v, want none", calls)
	}
}
