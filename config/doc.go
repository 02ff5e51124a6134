// Package config loads studentstats configuration.
//
// It uses Viper to read a YAML file and environment variables, and godotenv
// to pull a .env file into the environment first. Environment variables use
// the upper-cased service name as prefix with underscore-separated paths
// (e.g., STUDENTSTATS_REST_BASE_URL overrides rest.base_url).
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("studentstats", &cfg, config.WithConfigFile(path))
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
package config
