package logger

import "io"

type initConfig struct {
	out  io.Writer
	json bool
}

// InitOption applies a configuration option to Init.
type InitOption func(*initConfig)

// WithJSON switches the handler to JSON output.
func WithJSON() InitOption {
	return func(c *initConfig) { c.json = true }
}

// WithOutput redirects log output. Used by tests.
func WithOutput(w io.Writer) InitOption {
	return func(c *initConfig) {
		if w != nil {
			c.out = w
		}
	}
}
