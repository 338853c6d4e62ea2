package config

const EnvPrefix = "MARKETPLACE"

const (
	AppEnvDev   = "dev"
	AppEnvLocal = "local"
	AppEnvProd  = "prod"
)

const (
	EnvAppEnv             = "MARKETPLACE_APP_ENV"
	EnvPort               = "MARKETPLACE_APP_PORT"
	EnvDBDSN              = "MARKETPLACE_DB_DSN"
	EnvDBHost             = "MARKETPLACE_DB_HOST"
	EnvDBUser             = "MARKETPLACE_DB_USER"
	EnvDBName             = "MARKETPLACE_DB_NAME"
	EnvRedisURL           = "MARKETPLACE_REDIS_URL"
	EnvJWTSecret          = "MARKETPLACE_JWT_SECRET"
	EnvJWTIssuer          = "MARKETPLACE_JWT_ISSUER"
	EnvPasswordSecret     = "MARKETPLACE_PASSWORD_SECRET"
	EnvCustomerHashScheme = "MARKETPLACE_CUSTOMER_HASH_SCHEME"
	EnvSessionLifetime    = "MARKETPLACE_SESSION_LIFETIME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
