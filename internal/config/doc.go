// Package config loads the restaurante configuration file (restaurante.yaml).
//
// Load(path, required) reads the YAML file, applies defaults (csv source in
// ".", output in results_story_restaurante, info logging) and validates the
// source type and log level. A missing file is only an error when required is
// true, so the CLI runs with defaults out of the box.
//
// Secrets are never stored in the file: Source.DSNEnv names the environment
// variable holding the PostgreSQL URL. LoadEnv reads an optional .env file
// first so that variable can live next to the data.
package config
