package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micahreeves/what-time/internal/domain"
)

func TestNormalize_CanonicalAndFolded(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	for _, in := range []string{
		"America/New_York",
		"america/new_york",
		"AMERICA/NEW_YORK",
		"America/New York",
		" America/New_York ",
	} {
		got, err := c.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, "America/New_York", got, in)
	}
}

func TestNormalize_Aliases(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	cases := map[string]string{
		"EST":  "America/New_York",
		"est":  "America/New_York",
		"PST":  "America/Los_Angeles",
		"GMT":  "Europe/London",
		"JST":  "Asia/Tokyo",
		"AEDT": "Australia/Sydney",
	}
	for in, want := range cases {
		got, err := c.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	for _, in := range []string{"est", "europe/berlin", "UTC", "Asia/Kolkata"} {
		once, err := c.Normalize(in)
		require.NoError(t, err)
		twice, err := c.Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_UnknownWithSuggestions(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Normalize("Europe/Ber")
	var invalid *domain.InvalidTimezoneError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Europe/Ber", invalid.Raw)
	assert.Contains(t, invalid.Suggestions, "Europe/Berlin")

	_, err = c.Normalize("Nonexistent/Place")
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, invalid.Suggestions)
}

func TestCandidates(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	got := c.Candidates("Europe/A", 10)
	require.NotEmpty(t, got)
	assert.True(t, sort.StringsAreSorted(got))
	assert.Contains(t, got, "Europe/Amsterdam")

	// City-segment match, underscores as spaces.
	assert.Contains(t, c.Candidates("new y", 5), "America/New_York")
	assert.Contains(t, c.Candidates("kolk", 5), "Asia/Kolkata")

	assert.Len(t, c.Candidates("A", 3), 3)
	assert.Empty(t, c.Candidates("", 5))
	assert.Empty(t, c.Candidates("zzzz", 5))
}

func TestContains(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.True(t, c.Contains("UTC"))
	assert.True(t, c.Contains("America/New_York"))
	assert.False(t, c.Contains("america/new_york")) // canonical form only
	assert.False(t, c.Contains("EST"))              // alias, not a member
}
