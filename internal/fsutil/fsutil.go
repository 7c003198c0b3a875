// Package fsutil provides filesystem helpers shared across the codebase.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/localstash/localstash/internal/messages"
)

// WriteFileAtomic writes data to filename by writing a temp file in the same
// directory and renaming it into place. The rename is atomic on POSIX
// filesystems, so readers never observe a partially written file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFileFmt, filename, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// Best-effort removal when the rename never happened.
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSetPermissionsFmt, filename, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilWriteTempFileFmt, filename, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSyncTempFileFmt, filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FsutilCloseTempFileFmt, filename, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf(messages.FsutilRenameTempFileFmt, filename, err)
	}
	return nil
}

// DirSize returns the total size in bytes of all regular files under root,
// recursively. Symlinks are counted at their link size, not followed, so a
// link cycle cannot loop the walk.
func DirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf(messages.FsutilDirSizeFmt, root, err)
	}
	return total, nil
}

// NormalizePath expands, absolutizes, and cleans path. Relative segments and
// repeated separators are collapsed, which defends destination paths against
// traversal sequences like "../../".
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf(messages.FsutilResolvePathFmt, path, err)
	}
	return filepath.Clean(abs), nil
}
