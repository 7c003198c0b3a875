// Package copier performs deep copies of package variants between
// filesystem repositories.
//
// A copy preserves file modes and, when requested, modification times,
// and follows symlinks so the destination holds real payloads rather
// than links into the source repository. Variants already present at
// the destination are skipped, not overwritten, unless forced; the
// package definition merges missing variant indexes into any definition
// already on disk instead of replacing it.
package copier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
)

// Options controls a package copy.
type Options struct {
	// Variants selects variant indexes to copy; nil copies every variant.
	Variants []int
	// Shallow is reserved; shallow copies are rejected.
	Shallow bool
	// FollowSymlinks copies link targets instead of links.
	FollowSymlinks bool
	// KeepTimestamp preserves modification times on copied entries.
	KeepTimestamp bool
	// Force overwrites variants already present at the destination.
	Force bool
	// Verbose traces each copied file to Out.
	Verbose bool
	// Out receives the verbose trace; nil silences it.
	Out io.Writer
}

// CopiedVariant pairs a source variant with its destination form.
type CopiedVariant struct {
	Src pkgrepo.Variant
	Dst pkgrepo.Variant
}

// Result reports what one CopyPackage call did.
type Result struct {
	Copied  []CopiedVariant
	Skipped []pkgrepo.Variant
}

// CopyPackage copies the selected variants of pkg into the repository
// rooted at dest, laid out name/version/index. Variants whose payload
// already exists at the destination are reported in Skipped unless
// opts.Force is set.
func CopyPackage(ctx context.Context, pkg *pkgrepo.Package, dest string, opts Options) (*Result, error) {
	if pkg == nil {
		return nil, errors.New(messages.CopierPackageRequired)
	}
	if dest == "" {
		return nil, errors.New(messages.CopierDestRequired)
	}
	if opts.Shallow {
		return nil, errors.New(messages.CopierShallowUnsupported)
	}

	variants, err := selectVariants(pkg, opts.Variants)
	if err != nil {
		return nil, err
	}

	destDir := filepath.Join(dest, pkg.Name, pkg.Version.String())
	result := &Result{}
	copiedAny := false
	for _, src := range variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !opts.Force && variantExists(destDir, src.Index) {
			result.Skipped = append(result.Skipped, src)
			continue
		}
		dstRoot := variantDestRoot(destDir, src.Index)
		if err := copyTree(ctx, src.Root, dstRoot, opts); err != nil {
			return nil, err
		}
		dst := src
		dst.Root = dstRoot
		dst.PackagePath = destDir
		dst.RepoType = pkgrepo.RepoFilesystem
		result.Copied = append(result.Copied, CopiedVariant{Src: src, Dst: dst})
		copiedAny = true
	}

	if copiedAny {
		if err := mergeDefinition(pkg, destDir); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// selectVariants materializes the requested variant indexes, or every
// variant when indexes is nil.
func selectVariants(pkg *pkgrepo.Package, indexes []int) ([]pkgrepo.Variant, error) {
	if indexes == nil {
		return pkg.Variants(), nil
	}
	out := make([]pkgrepo.Variant, 0, len(indexes))
	for _, i := range indexes {
		v, err := pkg.Variant(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// variantExists reports whether the variant's payload is already on disk
// at the destination. The implicit variant shares the version directory
// with the definition, so the definition file stands in for it.
func variantExists(destDir string, index int) bool {
	if index == pkgrepo.ImplicitIndex {
		_, err := os.Stat(filepath.Join(destDir, pkgrepo.DefinitionFile))
		return err == nil
	}
	_, err := os.Stat(filepath.Join(destDir, strconv.Itoa(index)))
	return err == nil
}

func variantDestRoot(destDir string, index int) string {
	if index == pkgrepo.ImplicitIndex {
		return destDir
	}
	return filepath.Join(destDir, strconv.Itoa(index))
}

// mergeDefinition writes the package definition at the destination,
// folding pkg's variant list into any definition already there so
// sibling indexes copied by earlier runs stay declared.
func mergeDefinition(pkg *pkgrepo.Package, destDir string) error {
	def := pkg.Definition()
	existing, err := pkgrepo.LoadPackage(destDir, pkg.Name, pkg.Version)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(messages.CopierWriteDefinitionFmt, pkg.Name, pkg.Version, err)
	}
	if existing != nil {
		merged := existing.Definition()
		for i := len(merged.Variants); i < len(def.Variants); i++ {
			merged.Variants = append(merged.Variants, def.Variants[i])
		}
		def = merged
	}
	if err := pkgrepo.WriteDefinition(destDir, def); err != nil {
		return fmt.Errorf(messages.CopierWriteDefinitionFmt, pkg.Name, pkg.Version, err)
	}
	return nil
}

// copyTree copies the directory tree at src into dst. Directory
// timestamps are restored after their contents so child writes do not
// disturb them.
func copyTree(ctx context.Context, src, dst string, opts Options) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf(messages.CopierStatFmt, src, err)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf(messages.CopierCreateDirFmt, dst, err)
	}
	if err := copyEntries(ctx, src, dst, opts); err != nil {
		return err
	}
	if opts.KeepTimestamp {
		if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
			return fmt.Errorf(messages.CopierChtimesFmt, dst, err)
		}
	}
	return nil
}

func copyEntries(ctx context.Context, src, dst string, opts Options) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf(messages.CopierReadDirFmt, src, err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := copyEntry(ctx, srcPath, dstPath, opts); err != nil {
			return err
		}
	}
	return nil
}

func copyEntry(ctx context.Context, srcPath, dstPath string, opts Options) error {
	info, err := os.Lstat(srcPath)
	if err != nil {
		return fmt.Errorf(messages.CopierStatFmt, srcPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			return copySymlink(srcPath, dstPath)
		}
		resolved, err := os.Stat(srcPath)
		if err != nil {
			return fmt.Errorf(messages.CopierResolveSymlinkFmt, srcPath, err)
		}
		info = resolved
	}

	if info.IsDir() {
		return copyTree(ctx, srcPath, dstPath, opts)
	}
	return copyFile(srcPath, dstPath, info, opts)
}

func copySymlink(srcPath, dstPath string) error {
	target, err := os.Readlink(srcPath)
	if err != nil {
		return fmt.Errorf(messages.CopierResolveSymlinkFmt, srcPath, err)
	}
	if err := os.Symlink(target, dstPath); err != nil {
		return fmt.Errorf(messages.CopierCreateFileFmt, dstPath, err)
	}
	return nil
}

func copyFile(srcPath, dstPath string, info os.FileInfo, opts Options) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf(messages.CopierOpenFmt, srcPath, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf(messages.CopierCreateFileFmt, dstPath, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf(messages.CopierCopyFileFmt, srcPath, dstPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf(messages.CopierCopyFileFmt, srcPath, dstPath, err)
	}
	if opts.KeepTimestamp {
		if err := os.Chtimes(dstPath, info.ModTime(), info.ModTime()); err != nil {
			return fmt.Errorf(messages.CopierChtimesFmt, dstPath, err)
		}
	}
	if opts.Verbose && opts.Out != nil {
		_, _ = fmt.Fprintf(opts.Out, messages.CopierVerboseFileFmt, srcPath, dstPath)
	}
	return nil
}
