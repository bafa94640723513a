// Package logger builds the process-wide slog.Logger from environment
// configuration. The handler is decorated with context extractors so
// request-scoped values, most importantly the tenant ID, land on every
// record emitted through that context.
package logger
