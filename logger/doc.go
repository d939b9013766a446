// Package logger provides structured logging for providerkit using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers. Fields are passed as maps so call sites stay
// free of zerolog types:
//
//	log := logger.Get("provider")
//	log.Info("provider retained", logger.Fields(logger.FieldProvider, p.Name()))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
