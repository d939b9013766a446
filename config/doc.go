// Package config loads service configuration with Viper.
//
// LoadConfig looks for config.yml and .env files in the conventional
// locations (./cmd/<service>/, ./config/, the working directory), reads the
// YAML first, loads the .env file with godotenv and finally lets environment
// variables override file values. Environment keys map to nested config
// keys by underscores, so PROVIDERS_PLATFORM sets providers.platform and
// PROVIDERS_READINESS_TIMEOUT sets providers.readiness_timeout.
//
//	var cfg MyConfig
//	err := config.LoadConfig("analytics-demo", &cfg)
package config
