package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry fully
	// prefixed names so this stays empty.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)
