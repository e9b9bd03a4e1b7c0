package geo

import "fmt"

// ConfigError reports an invalid caller-supplied spatial parameter, such
// as a non-positive cell size or resolution. It is a programming error on
// the caller's side and is never retried.
type ConfigError struct {
	Param string
	Value float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Param, e.Value)
}
