package messages

// Config messages for configuration loading and validation.
const (
	// ConfigReadFileFmt formats config file read errors. A missing file is
	// not an error; loading falls back to the embedded template instead.
	ConfigReadFileFmt           = "read config %s: %w"
	ConfigInvalidConfigFmt      = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt   = "%s contains unrecognized keys: %v;"
	ConfigValidationGuidance    = "fix the reported keys and retry"
	ConfigFailedReadTemplateFmt = "failed to read embedded default config: %w"
	ConfigResolveHomeFmt        = "resolve home directory: %w"

	ConfigSearchPathEmptyFmt     = "%s: search_paths entries must not be empty"
	ConfigCacheTTLInvalidFmt     = "%s: cache.ttl must not be negative, got %q"
	ConfigCacheTTLParseFmt       = "%s: cache.ttl: %v"
	ConfigSaveIntervalInvalidFmt = "%s: tracking.save_interval must be a positive duration, got %q"
	ConfigSaveIntervalParseFmt   = "%s: tracking.save_interval: %v"
)
