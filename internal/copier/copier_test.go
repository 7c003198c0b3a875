package copier

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localstash/localstash/internal/pkgrepo"
	"github.com/localstash/localstash/internal/testutil"
)

func loadPackage(t *testing.T, root, name, version string) *pkgrepo.Package {
	t.Helper()
	repo, err := pkgrepo.NewRepository(root, nil)
	require.NoError(t, err)
	v, err := pkgrepo.ParseVersion(version)
	require.NoError(t, err)
	pkg, err := repo.Package(name, v)
	require.NoError(t, err)
	require.NotNil(t, pkg)
	return pkg
}

func TestCopyPackageSingleVariant(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:     "app",
		Version:  "1.0",
		Variants: [][]string{{"python-2"}, {"python-3"}},
		Files:    map[string]string{"bin/app": "#!app"},
	})
	pkg := loadPackage(t, src, "app", "1.0")

	result, err := CopyPackage(context.Background(), pkg, dest, Options{
		Variants:       []int{1},
		FollowSymlinks: true,
		KeepTimestamp:  true,
	})
	require.NoError(t, err)
	require.Len(t, result.Copied, 1)
	assert.Empty(t, result.Skipped)

	dst := result.Copied[0].Dst
	assert.Equal(t, "app", dst.Name)
	assert.Equal(t, 1, dst.Index, "variant index survives the copy")
	assert.Equal(t, filepath.Join(dest, "app", "1.0", "1"), dst.Root)

	data, err := os.ReadFile(filepath.Join(dst.Root, "bin", "app"))
	require.NoError(t, err)
	assert.Equal(t, "#!app", string(data))

	// The destination definition still declares both variants so the
	// copied index keeps its position.
	destPkg := loadPackage(t, dest, "app", "1.0")
	assert.Equal(t, 2, destPkg.NumVariants())

	// The sibling payload was not copied.
	_, err = os.Stat(filepath.Join(dest, "app", "1.0", "0"))
	assert.True(t, os.IsNotExist(err))
}

func TestCopyPackageAllVariants(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:     "app",
		Version:  "1.0",
		Variants: [][]string{{"python-2"}, {"python-3"}},
		Files:    map[string]string{"app.txt": "payload"},
	})
	pkg := loadPackage(t, src, "app", "1.0")

	result, err := CopyPackage(context.Background(), pkg, dest, Options{FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, result.Copied, 2)

	for i := 0; i < 2; i++ {
		_, err := os.Stat(filepath.Join(dest, "app", "1.0", strconv.Itoa(i), "app.txt"))
		assert.NoError(t, err)
	}
}

func TestCopyPackageImplicitVariant(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:    "six",
		Version: "1.12.0",
		Files:   map[string]string{"six.py": "# six"},
	})
	pkg := loadPackage(t, src, "six", "1.12.0")

	result, err := CopyPackage(context.Background(), pkg, dest, Options{FollowSymlinks: true})
	require.NoError(t, err)
	require.Len(t, result.Copied, 1)
	assert.Equal(t, pkgrepo.ImplicitIndex, result.Copied[0].Dst.Index)
	assert.Equal(t, filepath.Join(dest, "six", "1.12.0"), result.Copied[0].Dst.Root)

	_, err = os.Stat(filepath.Join(dest, "six", "1.12.0", "six.py"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "six", "1.12.0", pkgrepo.DefinitionFile))
	assert.NoError(t, err)
}

func TestCopyPackageSkipsExisting(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:    "six",
		Version: "1.0",
		Files:   map[string]string{"six.py": "# six"},
	})
	pkg := loadPackage(t, src, "six", "1.0")

	_, err := CopyPackage(context.Background(), pkg, dest, Options{})
	require.NoError(t, err)

	result, err := CopyPackage(context.Background(), pkg, dest, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Copied)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, pkgrepo.ImplicitIndex, result.Skipped[0].Index)

	// Force overwrites instead of skipping.
	result, err = CopyPackage(context.Background(), pkg, dest, Options{Force: true})
	require.NoError(t, err)
	assert.Len(t, result.Copied, 1)
	assert.Empty(t, result.Skipped)
}

func TestCopyMergesSiblingIndex(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:     "app",
		Version:  "1.0",
		Variants: [][]string{{"python-2"}, {"python-3"}},
		Files:    map[string]string{"app.txt": "payload"},
	})
	pkg := loadPackage(t, src, "app", "1.0")

	_, err := CopyPackage(context.Background(), pkg, dest, Options{Variants: []int{0}})
	require.NoError(t, err)

	result, err := CopyPackage(context.Background(), pkg, dest, Options{Variants: []int{1}})
	require.NoError(t, err)
	require.Len(t, result.Copied, 1)
	assert.Empty(t, result.Skipped, "a sibling index is not a duplicate")

	destPkg := loadPackage(t, dest, "app", "1.0")
	assert.Equal(t, 2, destPkg.NumVariants())
	for i := 0; i < 2; i++ {
		_, err := os.Stat(filepath.Join(dest, "app", "1.0", strconv.Itoa(i), "app.txt"))
		assert.NoError(t, err)
	}
}

func TestCopyKeepsTimestamps(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:    "six",
		Version: "1.0",
		Files:   map[string]string{"six.py": "# six"},
	})
	past := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(src, "six", "1.0", "six.py"), past, past))
	pkg := loadPackage(t, src, "six", "1.0")

	_, err := CopyPackage(context.Background(), pkg, dest, Options{KeepTimestamp: true})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dest, "six", "1.0", "six.py"))
	require.NoError(t, err)
	assert.WithinDuration(t, past, info.ModTime(), time.Second)
}

func TestCopyFollowsSymlinks(t *testing.T) {
	src := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:    "six",
		Version: "1.0",
		Files:   map[string]string{"real.txt": "payload"},
	})
	versionDir := filepath.Join(src, "six", "1.0")
	require.NoError(t, os.Symlink(filepath.Join(versionDir, "real.txt"), filepath.Join(versionDir, "link.txt")))
	pkg := loadPackage(t, src, "six", "1.0")

	followed := t.TempDir()
	_, err := CopyPackage(context.Background(), pkg, followed, Options{FollowSymlinks: true})
	require.NoError(t, err)

	info, err := os.Lstat(filepath.Join(followed, "six", "1.0", "link.txt"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "followed links become real files")
	data, err := os.ReadFile(filepath.Join(followed, "six", "1.0", "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	kept := t.TempDir()
	_, err = CopyPackage(context.Background(), pkg, kept, Options{})
	require.NoError(t, err)

	info, err = os.Lstat(filepath.Join(kept, "six", "1.0", "link.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode()&os.ModeSymlink, "unfollowed links stay links")
}

func TestCopyVerboseTrace(t *testing.T) {
	src := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{
		Name:    "six",
		Version: "1.0",
		Files:   map[string]string{"six.py": "# six"},
	})
	pkg := loadPackage(t, src, "six", "1.0")

	var out bytes.Buffer
	_, err := CopyPackage(context.Background(), pkg, t.TempDir(), Options{Verbose: true, Out: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "six.py")
	assert.Contains(t, out.String(), "->")
}

func TestCopyPackageValidation(t *testing.T) {
	src := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{Name: "six", Version: "1.0"})
	pkg := loadPackage(t, src, "six", "1.0")

	_, err := CopyPackage(context.Background(), nil, t.TempDir(), Options{})
	require.Error(t, err)

	_, err = CopyPackage(context.Background(), pkg, "", Options{})
	require.Error(t, err)

	_, err = CopyPackage(context.Background(), pkg, t.TempDir(), Options{Shallow: true})
	require.Error(t, err)

	_, err = CopyPackage(context.Background(), pkg, t.TempDir(), Options{Variants: []int{5}})
	require.Error(t, err)
}

func TestCopyCancelled(t *testing.T) {
	src := t.TempDir()
	testutil.WritePackage(t, src, testutil.PackageSpec{Name: "six", Version: "1.0"})
	pkg := loadPackage(t, src, "six", "1.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CopyPackage(ctx, pkg, t.TempDir(), Options{})
	require.ErrorIs(t, err, context.Canceled)
}
