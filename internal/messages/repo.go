package messages

// Repository, resolver, copier, and store messages.
const (
	// RepoRootRequired guards repository construction.
	RepoRootRequired = "repository root is required"

	RepoReadFamilyFmt        = "read package family %s: %w"
	RepoReadDefinitionFmt    = "read package definition %s: %w"
	RepoInvalidDefinitionFmt = "invalid package definition %s: %w"
	RepoNameMismatchFmt      = "package definition %s declares name %q but lives under %q"
	RepoVersionMismatchFmt   = "package definition %s declares version %q but lives under %q"
	RepoVariantIndexFmt      = "variant index %d out of range for %s-%s"

	// RepoInvalidVersionFmt formats version parse failures.
	RepoInvalidVersionFmt = "invalid version %q: %s"
	RepoEmptyVersionToken = "empty token"
	RepoEmptyRequest      = "empty package request"

	// ResolverNotFoundPrefix is the stable prefix of resolution failures.
	// The pipeline falls back to parsing it when the typed error is lost
	// behind wrapping, so the format must stay stable.
	ResolverNotFoundPrefix = "package family not found: "
	ResolverNotFoundFmt    = "package family not found: %s (searched: %s)"
	ResolverNoSearchPaths  = "no package search paths configured; pass --paths or set search_paths in the config"
	// ResolverUserMessageFmt is the user-facing resolution failure line.
	ResolverUserMessageFmt = "Package '%s' wasn't found in any of your search paths"

	// CopierPackageRequired guards copy calls.
	CopierPackageRequired    = "copy: package is required"
	CopierDestRequired       = "copy: destination repository root is required"
	CopierShallowUnsupported = "copy: shallow copies are not supported"
	CopierCreateDirFmt       = "copy: create %s: %w"
	CopierStatFmt            = "copy: stat %s: %w"
	CopierReadDirFmt         = "copy: read dir %s: %w"
	CopierOpenFmt            = "copy: open %s: %w"
	CopierCreateFileFmt      = "copy: create %s: %w"
	CopierCopyFileFmt        = "copy: copy %s to %s: %w"
	CopierResolveSymlinkFmt  = "copy: resolve symlink %s: %w"
	CopierChtimesFmt         = "copy: preserve timestamps on %s: %w"
	CopierWriteDefinitionFmt = "copy: write package definition for %s-%s: %w"
	CopierVerboseFileFmt     = "    %s -> %s\n"

	// StoreDestRequired guards store construction.
	StoreDestRequired     = "local store path is required"
	StoreExistsCheckFmt   = "check local store for %s-%s: %w"
	StoreRemoveOutsideFmt = "refusing to remove %s: outside the local store %s"
	StoreRemoveFmt        = "remove %s: %w"
)
