// Package config defines the application configuration structure and
// loading logic. Configuration comes from environment variables and an
// optional config file, with environment variables taking precedence.
package config
