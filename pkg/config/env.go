package config

// EnvPrefix is the envconfig prefix; individual fields pin their full names
// via struct tags so the prefix mostly matters for documentation.
const EnvPrefix = "PRICEBOOK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, kept as constants so tests and error messages
// stay in sync with the struct tags.
const (
	EnvAppEnv   = "PRICEBOOK_APP_ENV"
	EnvPort     = "PRICEBOOK_APP_PORT"
	EnvLogLevel = "PRICEBOOK_LOG_LEVEL"

	EnvDBDSN  = "PRICEBOOK_DB_DSN"
	EnvDBHost = "PRICEBOOK_DB_HOST"
	EnvDBUser = "PRICEBOOK_DB_USER"
	EnvDBName = "PRICEBOOK_DB_NAME"

	EnvRedisURL = "PRICEBOOK_REDIS_URL"

	EnvJWTSecret  = "PRICEBOOK_JWT_SECRET"
	EnvJWTIssuer  = "PRICEBOOK_JWT_ISSUER"
	EnvJWTExpMins = "PRICEBOOK_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "PRICEBOOK_GCP_PROJECT_ID"

	EnvPubSubPriceTopic = "PRICEBOOK_PUBSUB_PRICE_TOPIC"
	EnvPubSubPriceSub   = "PRICEBOOK_PUBSUB_PRICE_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
