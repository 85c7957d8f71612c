package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	utc := time.UTC

	assert.Equal(t, utc, Resolve("", utc))
	assert.Equal(t, utc, Resolve("Not/AZone", utc))
	assert.Equal(t, "America/Sao_Paulo", Resolve("America/Sao_Paulo", utc).String())
}

func TestSameDayUsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	// 01:00 UTC on the 10th is still the 9th in BRT.
	a := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 9, 12, 0, 0, 0, loc)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b, time.UTC))
}

func TestParseAndFormatDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	d, err := ParseDate("2026-03-09", loc)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, "2026-03-09", FormatDate(d))
	assert.Equal(t, d, StartOfDay(d.Add(13*time.Hour), loc))
}
