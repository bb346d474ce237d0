package importer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-08-26", "08/26/2024", "8/26/2024", "08/26/24", "26-Aug-2024", "Aug 26, 2024", " 2024-08-26 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}
}

func TestParseDate_PassesThroughTime(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, 1, 15, 13, 30, 0, 0, time.FixedZone("CST", -6*3600))
	got, err := ParseDate(in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []any{"", "soon", "2024-13-40", nil} {
		_, err := ParseDate(in)
		require.ErrorIs(t, err, ErrInvalidDate, "%v", in)
	}
}

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", NormalizeTime(nil))
	assert.Equal(t, "", NormalizeTime("   "))
	assert.Equal(t, "09:30 AM", NormalizeTime("09:30 AM"))
	assert.Equal(t, "930", NormalizeTime(930))
}

func TestAsInt(t *testing.T) {
	t.Parallel()

	for in, want := range map[any]int{"2024": 2024, "2024.0": 2024, "1,200": 1200, 45.0: 45, int64(7): 7} {
		got, err := asInt(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, want, got)
	}
	_, err := asInt("12.5")
	require.ErrorIs(t, err, ErrInvalidNumber)
	_, err = asInt("abc")
	require.ErrorIs(t, err, ErrInvalidNumber)
}

func TestAsInt_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, in := range []any{"1e20", "9999999999999999999999", "-1e19", "Inf", "NaN", 1e20, 9.3e18} {
		_, err := asInt(in)
		require.ErrorIs(t, err, ErrInvalidNumber, "%v", in)
	}
	got, err := asInt("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, math.MinInt, got)
}
