// Package config defines the application configuration structures and
// the loader that populates them from environment variables and an
// optional config file. Configuration is validated on load; the rest
// of the application can assume a well-formed Config.
package config
