package pkgrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackageDir(t *testing.T, root, name, version string, def Definition) string {
	t.Helper()
	dir := filepath.Join(root, name, version)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, WriteDefinition(dir, def))
	return dir
}

func TestRepositoryVersionsSorted(t *testing.T) {
	root := t.TempDir()
	for _, v := range []string{"1.12.0", "1.2.0", "2.0.0"} {
		writePackageDir(t, root, "six", v, Definition{Name: "six", Version: v})
	}
	// Foreign entries are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "six", ".hidden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "six", "notes.txt"), []byte("x"), 0o644))

	repo, err := NewRepository(root, nil)
	require.NoError(t, err)

	versions, err := repo.Versions("six")
	require.NoError(t, err)

	got := make([]string, 0, len(versions))
	for _, v := range versions {
		got = append(got, v.String())
	}
	assert.Equal(t, []string{"1.2.0", "1.12.0", "2.0.0"}, got)
}

func TestRepositoryMissingFamily(t *testing.T) {
	repo, err := NewRepository(t.TempDir(), nil)
	require.NoError(t, err)

	versions, err := repo.Versions("nope")
	require.NoError(t, err)
	assert.Empty(t, versions)

	pkg, err := repo.Latest("nope", Range{})
	require.NoError(t, err)
	assert.Nil(t, pkg)
}

func TestRepositoryLatestHonorsRange(t *testing.T) {
	root := t.TempDir()
	for _, v := range []string{"1.2.0", "1.12.0", "2.0.0"} {
		writePackageDir(t, root, "six", v, Definition{Name: "six", Version: v})
	}
	repo, err := NewRepository(root, nil)
	require.NoError(t, err)

	rng, err := ParseRange("1")
	require.NoError(t, err)
	pkg, err := repo.Latest("six", rng)
	require.NoError(t, err)
	require.NotNil(t, pkg)
	assert.Equal(t, "1.12.0", pkg.Version.String())

	pkg, err = repo.Latest("six", Range{})
	require.NoError(t, err)
	require.NotNil(t, pkg)
	assert.Equal(t, "2.0.0", pkg.Version.String())
}

func TestRepositorySkipsVersionDirsWithoutDefinition(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, "six", "1.0.0", Definition{Name: "six", Version: "1.0.0"})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "six", "2.0.0"), 0o755))

	repo, err := NewRepository(root, nil)
	require.NoError(t, err)

	pkg, err := repo.Latest("six", Range{})
	require.NoError(t, err)
	require.NotNil(t, pkg)
	assert.Equal(t, "1.0.0", pkg.Version.String())
}

func TestLoadPackageValidatesLayoutAgreement(t *testing.T) {
	root := t.TempDir()
	dir := writePackageDir(t, root, "six", "1.0.0", Definition{Name: "other", Version: "1.0.0"})

	v, err := ParseVersion("1.0.0")
	require.NoError(t, err)
	_, err = LoadPackage(dir, "six", v)
	require.Error(t, err)
}

func TestPackageVariants(t *testing.T) {
	root := t.TempDir()
	def := Definition{
		Name:     "maya",
		Version:  "2018.0",
		Variants: [][]string{{"python-2.7"}, {"python-3.7"}},
	}
	dir := writePackageDir(t, root, "maya", "2018.0", def)

	v, err := ParseVersion("2018.0")
	require.NoError(t, err)
	pkg, err := LoadPackage(dir, "maya", v)
	require.NoError(t, err)

	variants := pkg.Variants()
	require.Len(t, variants, 2)
	assert.Equal(t, 0, variants[0].Index)
	assert.Equal(t, filepath.Join(dir, "0"), variants[0].Root)
	assert.Equal(t, dir, variants[0].PackagePath)
	assert.Equal(t, []string{"python-3.7"}, variants[1].Requires)

	_, err = pkg.Variant(2)
	require.Error(t, err)
}

func TestPackageImplicitVariant(t *testing.T) {
	root := t.TempDir()
	dir := writePackageDir(t, root, "six", "1.0.0", Definition{Name: "six", Version: "1.0.0"})

	v, err := ParseVersion("1.0.0")
	require.NoError(t, err)
	pkg, err := LoadPackage(dir, "six", v)
	require.NoError(t, err)

	variants := pkg.Variants()
	require.Len(t, variants, 1)
	assert.Equal(t, ImplicitIndex, variants[0].Index)
	assert.Equal(t, dir, variants[0].Root)

	byIndex, err := pkg.Variant(ImplicitIndex)
	require.NoError(t, err)
	assert.Equal(t, variants[0], byIndex)
}

func TestRelocatableTriState(t *testing.T) {
	root := t.TempDir()
	yes, no := true, false
	cases := []struct {
		version string
		reloc   *bool
		want    Relocatable
	}{
		{"1.0.0", nil, RelocatableUnset},
		{"2.0.0", &yes, RelocatableTrue},
		{"3.0.0", &no, RelocatableFalse},
	}
	for _, tc := range cases {
		dir := writePackageDir(t, root, "pkg", tc.version, Definition{
			Name: "pkg", Version: tc.version, Relocatable: tc.reloc,
		})
		v, err := ParseVersion(tc.version)
		require.NoError(t, err)
		pkg, err := LoadPackage(dir, "pkg", v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, pkg.Relocatable, tc.version)
	}

	assert.True(t, RelocatableUnset.Bool(true))
	assert.False(t, RelocatableUnset.Bool(false))
	assert.True(t, RelocatableTrue.Bool(false))
	assert.False(t, RelocatableFalse.Bool(true))
}

func TestFindCacheServesStaleResults(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, "six", "1.0.0", Definition{Name: "six", Version: "1.0.0"})

	cache := NewFindCache(time.Hour)
	repo, err := NewRepository(root, cache)
	require.NoError(t, err)
	assert.True(t, repo.Cached())

	pkg, err := repo.Latest("six", Range{})
	require.NoError(t, err)
	require.NotNil(t, pkg)

	// Out-of-band deletion: the cache keeps answering positively until the
	// TTL rolls over. Existence checks must therefore re-stat the disk.
	require.NoError(t, os.RemoveAll(filepath.Join(root, "six")))

	stale, err := repo.Latest("six", Range{})
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.Equal(t, pkg.Path, stale.Path)
}

func TestFindCacheExpires(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, "six", "1.0.0", Definition{Name: "six", Version: "1.0.0"})

	cache := NewFindCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	repo, err := NewRepository(root, cache)
	require.NoError(t, err)

	pkg, err := repo.Latest("six", Range{})
	require.NoError(t, err)
	require.NotNil(t, pkg)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "six")))
	now = now.Add(2 * time.Minute)

	gone, err := repo.Latest("six", Range{})
	require.NoError(t, err)
	assert.Nil(t, gone)
}
