// Package redis provides connection plumbing for the Redis Streams usage
// telemetry sink: a retrying Connect driven by environment configuration and
// a readiness probe. The stream writer itself lives in the usage package.
package redis
