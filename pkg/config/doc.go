// Package config loads environment-driven configuration structs via
// caarlos0/env tags, with .env support through godotenv. Each struct type is
// parsed once per process and cached, so the pg, redis, usage, and
// entitlement packages can each declare their own Config and load it
// independently without re-reading the environment.
package config
