// Package config provides configuration management for Interactivebook.
//
// # Overview
//
// The config package uses Viper to load configuration from YAML files and
// environment variables. Missing files are created with defaults on first
// use, and Validate rejects unknown enum values.
//
// # Environment Variables
//
// Every value can be overridden with an IBOOK_ variable. Nested fields are
// separated by underscores.
//
// Examples:
//   - IBOOK_PREVIEW_STYLE=light
//   - IBOOK_EDITOR_ID_MODE=ordinal
//   - IBOOK_LOGGING_LEVEL=debug
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Preview.Style)
package config
