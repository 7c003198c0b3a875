package messages

// System messages for filesystem helpers and the staging workspace.
const (
	// FsutilCreateTempFileFmt formats temp file creation errors.
	FsutilCreateTempFileFmt = "create temp file for %s: %w"
	FsutilSetPermissionsFmt = "set permissions for %s: %w"
	FsutilWriteTempFileFmt  = "write temp file for %s: %w"
	FsutilSyncTempFileFmt   = "sync temp file for %s: %w"
	FsutilCloseTempFileFmt  = "close temp file for %s: %w"
	FsutilRenameTempFileFmt = "rename temp file for %s: %w"
	FsutilDirSizeFmt        = "measure %s: %w"
	FsutilResolvePathFmt    = "resolve path %s: %w"

	// WorkspaceCreateFailedFmt formats staging workspace creation errors.
	WorkspaceCreateFailedFmt = "create staging workspace under %q: %w"
	// WorkspaceCleanupFailedFmt reports a non-fatal cleanup failure.
	WorkspaceCleanupFailedFmt = "failed to remove staging workspace %s: %v\n"
)
