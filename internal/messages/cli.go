package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "lstash"
	// RootShort is the short description for the root command.
	RootShort = "Localize packages from shared repositories into a local store"
	RootLong  = "lstash copies resolved package variants from shared package\n" +
		"repositories into a local store, to speed up repeated access or to\n" +
		"support working disconnected from the network."

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// LocalizeUse is the localize command usage.
	LocalizeUse   = "localize PKG..."
	LocalizeShort = "Copy resolved package variants into the local store"
	LocalizeLong  = "Resolve the requested packages against the configured search\n" +
		"paths and copy the resolved variants into the local package store.\n" +
		"Packages already present locally are skipped."
	LocalizeExample = "  # Latest available version of maya\n" +
		"  lstash localize maya\n\n" +
		"  # Version of maya required alongside alita\n" +
		"  lstash localize maya --requires alita\n\n" +
		"  # Series of requests, all compatible with each other\n" +
		"  lstash localize six-1 maya-2018 python-3.7"

	LocalizeFlagRequires    = "Resolve the request fulfilling these additional requirements"
	LocalizeFlagAllVariants = "Copy not just the resolved variant, but all of them"
	LocalizeFlagFull        = "Also localize resolved transitive requirements"
	LocalizeFlagDest        = "Destination package store (defaults to $" + EnvPackagesPath + ")"
	LocalizeFlagPaths       = "Package search paths (overrides configured search paths)"
	LocalizeFlagForce       = "Copy packages even if they aren't relocatable (use at your own risk)"
	LocalizeFlagYes         = "Answer yes to the confirmation prompt without asking"
	FlagVerbose             = "Increase output verbosity (repeatable)"

	LocalizeRequestRequired = "at least one package request is required"

	// DelocalizeUse is the delocalize command usage.
	DelocalizeUse   = "delocalize PKG..."
	DelocalizeShort = "Remove localized package variants from the local store"
	DelocalizeLong  = "Resolve the requested packages against the local store only and\n" +
		"remove the matching localized variants from disk."

	DelocalizeNothing    = "No matching localized packages were found"
	DelocalizeHeader     = "The following localized packages will be REMOVED:"
	DelocalizeConfirm    = "Do you want to continue?"
	DelocalizeRemovedFmt = "Removed %d variant(s) from %s\n"
	DelocalizeRemoveFmt  = "delocalize %s: %w"

	// TrackUse is the track command usage.
	TrackUse   = "track"
	TrackShort = "Record package resolve events from the message queue"
	TrackLong  = "Consume resolve events from the configured message queue and\n" +
		"maintain a periodically flushed usage history, keyed by host, user,\n" +
		"and package."

	TrackFlagFile     = "History file to persist usage records to"
	TrackFlagInterval = "Interval between history flushes"
	TrackFlagURL      = "AMQP broker URL to consume from"
	TrackFlagQueue    = "Queue holding context resolve events"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt      = "%s [Y/n] "
	PromptNoDefaultFmt       = "%s [y/N] "
	PromptInvalidResponseFmt = "invalid response %q"
	PromptRetryYesNo         = "Please enter y or n."
)

// Environment variable names.
const (
	// EnvPackagesPath designates the default destination store path.
	EnvPackagesPath = "LSTASH_PACKAGES_PATH"
	// EnvSearchPaths overrides the configured package search paths.
	EnvSearchPaths = "LSTASH_SEARCH_PATHS"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "LSTASH_CONFIG_PATH"
)
