package config

import "errors"

var (
	ErrParsingConfig = errors.New("config.errors.failed_to_parse_env")
	ErrNilPointer    = errors.New("config.errors.nil_pointer")
)
