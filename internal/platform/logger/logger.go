// internal/platform/logger/logger.go
package logger

import "go.uber.org/zap"

// New returns the process logger: JSON in production, console otherwise.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
