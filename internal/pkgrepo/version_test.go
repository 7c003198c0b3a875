package pkgrepo

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionRejectsEmptyTokens(t *testing.T) {
	for _, bad := range []string{"", ".", "1.", ".1", "1..2"} {
		if _, err := ParseVersion(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	raw := []string{"2018", "1.1.2", "1.1.2.beta", "1.12.0", "1.2.0", "10.0", "1.1.2.alpha"}
	versions := make([]Version, 0, len(raw))
	for _, s := range raw {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Compare(versions[j]) < 0 })

	got := make([]string, 0, len(versions))
	for _, v := range versions {
		got = append(got, v.String())
	}
	want := []string{"1.1.2", "1.1.2.alpha", "1.1.2.beta", "1.2.0", "1.12.0", "10.0", "2018"}
	assert.Equal(t, want, got)
}

func TestVersionCompareMixedTokens(t *testing.T) {
	numeric, err := ParseVersion("1.2")
	require.NoError(t, err)
	lexical, err := ParseVersion("1.beta")
	require.NoError(t, err)

	assert.Equal(t, -1, numeric.Compare(lexical))
	assert.Equal(t, 1, lexical.Compare(numeric))
	assert.Equal(t, 0, numeric.Compare(numeric))
}

func TestRangeMatches(t *testing.T) {
	cases := []struct {
		rng     string
		version string
		want    bool
	}{
		{"", "1.0.0", true},
		{"1", "1.12.0", true},
		{"1", "11.0", false},
		{"1.12", "1.12.3", true},
		{"1.12", "1.2.3", false},
		{"2018", "2018", true},
		{"1.0.0", "1.0", false},
	}
	for _, tc := range cases {
		rng, err := ParseRange(tc.rng)
		require.NoError(t, err, tc.rng)
		v, err := ParseVersion(tc.version)
		require.NoError(t, err, tc.version)
		assert.Equal(t, tc.want, rng.Matches(v), "range %q vs %q", tc.rng, tc.version)
	}
}

func TestRangeIsAny(t *testing.T) {
	rng, err := ParseRange("")
	require.NoError(t, err)
	assert.True(t, rng.IsAny())

	rng, err = ParseRange("1")
	require.NoError(t, err)
	assert.False(t, rng.IsAny())
}
