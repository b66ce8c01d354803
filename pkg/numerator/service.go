// Package numerator provides document auto-numbering.
//
// Numbers are date-scoped: PREFIX-YYYYMMDD-NNNN (e.g. PO-20260829-0001).
// The next sequence is re-derived from the highest number already issued for
// that date, so the generator stays correct even after manual inserts or
// restores. Callers must invoke it inside the same transaction that creates
// the numbered document; a unique index on the number column backstops races.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source yields the highest existing document number starting with prefix,
// or empty string when none exists. Implementations should read under the
// caller's transaction so concurrent generators serialize on the insert.
type Source interface {
	HighestNumber(ctx context.Context, prefix string) (string, error)
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "PO", "REQ")
	Prefix string

	// PadWidth is the minimum sequence width (default 4)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 4,
	}
}

// Service generates document numbers from a Source.
type Service struct {
	source Source
}

// New creates a numerator backed by the given source.
func New(source Source) *Service {
	return &Service{source: source}
}

// NextNumber generates the next number for the given business date.
func (s *Service) NextNumber(ctx context.Context, cfg Config, date time.Time) (string, error) {
	if s == nil || s.source == nil {
		return "", fmt.Errorf("numerator source is not initialized")
	}

	prefix := DatePrefix(cfg.Prefix, date)

	highest, err := s.source.HighestNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("highest number for %s: %w", prefix, err)
	}

	seq := int64(1)
	if highest != "" {
		last := ParseSequence(highest)
		if last < 0 {
			return "", fmt.Errorf("malformed document number %q", highest)
		}
		seq = last + 1
	}

	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	return fmt.Sprintf("%s%0*d", prefix, padWidth, seq), nil
}

// DatePrefix builds the date-scoped prefix, e.g. "PO-20260829-".
func DatePrefix(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, date.Format("20060102"))
}

// ParseSequence extracts the trailing sequence from a formatted number.
// Returns -1 if parsing fails.
func ParseSequence(number string) int64 {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return -1
	}
	seq, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return seq
}
