// Package config loads and validates the ingestion run configuration.
//
// Configuration comes from a YAML file with ${VAR} environment expansion;
// a local .env file is honored for credentials during development. Missing
// required values (database connection, enabled-pipeline credentials) fail
// validation before any fetch is attempted.
package config
