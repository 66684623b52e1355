package config

const EnvPrefix = "FLEETDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FLEETDESK_DB_DSN"
	EnvDBHost = "FLEETDESK_DB_HOST"
	EnvDBUser = "FLEETDESK_DB_USER"
	EnvDBName = "FLEETDESK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
