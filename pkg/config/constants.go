package config

// EnvPrefix namespaces every environment variable consumed by envconfig.
const EnvPrefix = "POSCLOUD"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "POSCLOUD_DB_DSN"
	EnvDBHost = "POSCLOUD_DB_HOST"
	EnvDBUser = "POSCLOUD_DB_USER"
	EnvDBName = "POSCLOUD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
