package numerator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource returns a canned highest number per prefix.
type mockSource struct {
	numbers map[string]string
	err     error
}

func (m *mockSource) HighestNumber(ctx context.Context, prefix string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.numbers[prefix], nil
}

func TestNextNumber_FirstOfDay(t *testing.T) {
	svc := New(&mockSource{numbers: map[string]string{}})
	date := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(context.Background(), DefaultConfig("PO"), date)
	require.NoError(t, err)
	assert.Equal(t, "PO-20260829-0001", num)
}

func TestNextNumber_DerivesFromHighest(t *testing.T) {
	svc := New(&mockSource{numbers: map[string]string{
		"PO-20260829-": "PO-20260829-0041",
	}})
	date := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)

	num, err := svc.NextNumber(context.Background(), DefaultConfig("PO"), date)
	require.NoError(t, err)
	assert.Equal(t, "PO-20260829-0042", num)
}

func TestNextNumber_SequenceResetsPerDay(t *testing.T) {
	svc := New(&mockSource{numbers: map[string]string{
		"PO-20260829-": "PO-20260829-0099",
	}})
	nextDay := time.Date(2026, 8, 30, 0, 1, 0, 0, time.UTC)

	num, err := svc.NextNumber(context.Background(), DefaultConfig("PO"), nextDay)
	require.NoError(t, err)
	assert.Equal(t, "PO-20260830-0001", num)
}

func TestNextNumber_GrowsPastPadWidth(t *testing.T) {
	svc := New(&mockSource{numbers: map[string]string{
		"PO-20260829-": "PO-20260829-9999",
	}})
	date := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	num, err := svc.NextNumber(context.Background(), DefaultConfig("PO"), date)
	require.NoError(t, err)
	assert.Equal(t, "PO-20260829-10000", num)
}

func TestNextNumber_SourceError(t *testing.T) {
	svc := New(&mockSource{err: errors.New("connection lost")})

	_, err := svc.NextNumber(context.Background(), DefaultConfig("PO"), time.Now())
	require.Error(t, err)
}

func TestNextNumber_MalformedHighest(t *testing.T) {
	svc := New(&mockSource{numbers: map[string]string{
		"PO-20260829-": "PO-20260829-XXXX",
	}})
	date := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	_, err := svc.NextNumber(context.Background(), DefaultConfig("PO"), date)
	require.Error(t, err)
}

func TestParseSequence(t *testing.T) {
	assert.Equal(t, int64(7), ParseSequence("PO-20260829-0007"))
	assert.Equal(t, int64(10000), ParseSequence("PO-20260829-10000"))
	assert.Equal(t, int64(-1), ParseSequence("garbage"))
	assert.Equal(t, int64(-1), ParseSequence("PO-20260829-"))
}
