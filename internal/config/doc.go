// Package config loads dualsub settings from TOML.
//
// Load starts from Default, overlays the first config file found
// (~/.config/dualsub/config.toml, then ./dualsub.toml), fills API keys from
// the environment and validates the result.
package config
