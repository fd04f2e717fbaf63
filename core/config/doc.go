// Package config provides configuration management for itsictl.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Splunk: ITSI connection details (base URL, credentials, TLS, timeout)
//   - Log: Logging level and format
//
// Environment variables map to nested keys with underscores, e.g.
// SPLUNK_BASE_URL -> splunk.base_url and LOG_LEVEL -> log.level.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Splunk.BaseURL)
package config
