// Package config loads and validates the whisperbox configuration.
//
// It uses Viper to merge a config.yml file, an optional .env file and the
// process environment, lowest to highest precedence. Environment variables
// map onto nested keys by underscore splitting, so WHISPER_DOCKER_IMAGE
// overrides whisper.docker.image.
package config
