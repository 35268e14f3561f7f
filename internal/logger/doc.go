// Package logger configures the zap logger used by the restaurante CLI and
// carries it through a context.Context.
package logger
