package anchorlink

import "github.com/goliatone/go-anchorlink/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrSearchLayoutRequired    = runtimeconfig.ErrSearchLayoutRequired
	ErrSearchWindowInvalid     = runtimeconfig.ErrSearchWindowInvalid
	ErrSearchPostTypesRequired = runtimeconfig.ErrSearchPostTypesRequired
	ErrSearchTimezoneInvalid   = runtimeconfig.ErrSearchTimezoneInvalid
	ErrMetaKeyRequired         = runtimeconfig.ErrMetaKeyRequired
	ErrMetaValueRequired       = runtimeconfig.ErrMetaValueRequired
	ErrBlockNameRequired       = runtimeconfig.ErrBlockNameRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	SearchConfig  = runtimeconfig.SearchConfig
	MetaConfig    = runtimeconfig.MetaConfig
	PostsConfig   = runtimeconfig.PostsConfig
	ImportConfig  = runtimeconfig.ImportConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads an optional TOML file, dotenv files and ANCHORLINK_*
// environment overrides on top of DefaultConfig.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	return runtimeconfig.Load(path, envFiles...)
}
