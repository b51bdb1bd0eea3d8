// Package logger provides structured logging for demo-assets using zerolog.
//
// It supports console and JSON output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "info"}, "demo-assets")
//	log.WithComponent("manifest").Info("✔ manifest written", logger.Fields("assets", 12))
package logger
