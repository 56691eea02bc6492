package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// Clock supplies trade and order timestamps in unix nanoseconds.
	Clock func() int64
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		Clock: func() int64 {
			return time.Now().UnixNano()
		},
	}
}
