// Package config handles configuration loading, parsing, and validation
// from environment variables (YOMAN_ prefix), an optional config.yaml and, in
// development, a .env file. It provides type-safe access to application
// settings while keeping configuration details separate from business logic.
package config
