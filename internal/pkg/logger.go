package pkg

import "go.uber.org/zap"

// NewLogger builds the process logger. debug switches to the development
// config with console encoding.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
