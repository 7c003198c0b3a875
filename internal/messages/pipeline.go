package messages

// Pipeline messages for the localization run.
const (
	// StageResolving labels the resolve stage.
	StageResolving = "Resolving requested packages.. "
	StagePreparing = "Preparing packages.. "
	StageGating    = "Determining relocatability.. "
	StageDeduping  = "Determining existing packages.. "

	// StageOK reports a finished stage without timing.
	StageOK        = "ok"
	StageOKTimeFmt = "ok - %.2fs"
	StageFail      = "fail"

	SearchPathsHeader = "Packages are discovered from these paths:"
	PathLineFmt       = "  %s\n"
	ProgressFmt       = "  (%d/%d) %s\n"

	BlockedHeader   = "Some packages are unable to be relocated"
	BlockedGuidance = "Use --force to forcibly relocate these, note that they may not function as expected."
	VariantLineFmt  = "  %s-%s\n"

	NothingToDo           = "All requested packages were already localized"
	NewPackagesHeader     = "The following NEW packages will be localized:"
	SkippedPackagesHeader = "The following packages will be SKIPPED:"
	DestinationFmt        = "Packages will be localized to %s\n"
	SizeFmt               = "After this operation, %.2f mb will be used\n"
	ConfirmContinue       = "Do you want to continue?"
	Cancelled             = "Cancelled"

	LocalizingHeader = "Localizing.."
	CommitRaceFmt    = "  %s was already localized by a concurrent run\n"
	Success          = "Success"
	CleaningUp       = "Cleaning up temporary files.."

	// RunVerboseHint is appended to terse failure output.
	RunVerboseHint = "re-run with -v for detail"

	// PipelineResolverRequired guards pipeline construction.
	PipelineResolverRequired  = "pipeline: resolver is required"
	PipelineCopierRequired    = "pipeline: copier is required"
	PipelineStoreRequired     = "pipeline: local store is required"
	PipelineWorkspaceRequired = "pipeline: workspace is required"

	// StagingViolationFmt reports skipped variants from a fresh staging copy.
	// Staging copies into an empty private directory, so a skip can only mean
	// an internal contract violation, never a user error.
	StagingViolationFmt = "staging copy into fresh workspace %s reported skipped variants: %s"

	// BlockedErrorFmt summarizes a relocatability block for the error value.
	BlockedErrorFmt = "%d package(s) cannot be relocated without --force"

	// StateTransitionFmt traces state machine transitions at high verbosity.
	StateTransitionFmt = "state: %s -> %s\n"
)
