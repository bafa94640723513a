package usage

import "time"

// Config tunes the telemetry recorder and its Redis stream from the
// environment.
type Config struct {
	BufferSize     int           `env:"USAGE_BUFFER_SIZE" envDefault:"1000"`
	StorageTimeout time.Duration `env:"USAGE_STORAGE_TIMEOUT" envDefault:"5s"`
	StreamName     string        `env:"USAGE_STREAM_NAME" envDefault:"usage:events"`
	StreamMaxLen   int64         `env:"USAGE_STREAM_MAX_LEN" envDefault:"1000000"`
}

// RecorderOptions expands the config into recorder constructor options.
func (c Config) RecorderOptions() []RecorderOption {
	return []RecorderOption{
		WithBufferSize(c.BufferSize),
		WithStorageTimeout(c.StorageTimeout),
	}
}

// StorageOptions expands the config into Redis storage constructor options.
func (c Config) StorageOptions() []RedisStorageOption {
	return []RedisStorageOption{
		WithStreamName(c.StreamName),
		WithMaxLen(c.StreamMaxLen),
	}
}
