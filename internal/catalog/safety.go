package catalog

import (
	"context"
	"fmt"

	"github.com/styletune/styletune/internal/style"
)

// EffectiveResolver returns the formatter's fully resolved view of a
// configuration: every default filled in and interdependent options
// normalized, exactly as clang-format's --dump-config reports it.
type EffectiveResolver interface {
	EffectiveConfig(ctx context.Context, baseline *style.Settings) (*style.Settings, error)
}

// SafeValues returns the domain of key filtered down to values that are safe
// to try against baseline. The static domain is enough for most options, but
// a few pairs interact once the formatter normalizes the configuration:
// InsertTrailingCommas=Wrapped is rejected by clang-format whenever
// BinPackParameters resolves to true, and vice versa. For those keys the
// effective configuration is consulted and the conflicting value dropped.
//
// The returned values are never guaranteed invalid, but individual values
// may still fail at evaluation time; callers recover per candidate.
func SafeValues(ctx context.Context, key string, baseline *style.Settings, resolver EffectiveResolver) ([]string, error) {
	values := Values(key)
	if values == nil {
		return nil, fmt.Errorf("unknown option %q", key)
	}

	switch key {
	case "BinPackParameters", "InsertTrailingCommas":
	default:
		return values, nil
	}
	if resolver == nil {
		return values, nil
	}

	effective, err := resolver.EffectiveConfig(ctx, baseline)
	if err != nil {
		return nil, fmt.Errorf("resolving effective configuration for %s: %w", key, err)
	}

	switch {
	case key == "InsertTrailingCommas" && effective.Get("BinPackParameters") == "true":
		values = remove(values, "Wrapped")
	case key == "BinPackParameters" && effective.Get("InsertTrailingCommas") == "Wrapped":
		values = remove(values, "true")
	}
	return values, nil
}

func remove(values []string, drop string) []string {
	out := values[:0]
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}
