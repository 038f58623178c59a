package ident

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShape(t *testing.T) {
	id := New(PrefixReservation)

	require.True(t, strings.HasPrefix(id, PrefixReservation))

	rest := strings.TrimPrefix(id, PrefixReservation)
	parts := strings.Split(rest, "_")
	require.Len(t, parts, 2, "expected timestamp_suffix, got %q", rest)

	ts, err := strconv.ParseInt(parts[0], 36, 64)
	require.NoError(t, err, "timestamp segment must be base36")
	now := time.Now().UnixMilli()
	assert.InDelta(t, now, ts, float64(5*time.Second/time.Millisecond))

	require.Len(t, parts[1], 5)
	for _, c := range parts[1] {
		assert.Contains(t, base36, string(c))
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New(PrefixTransaction)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}
