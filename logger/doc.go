// Package logger provides structured logging for apikit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with map fields. The request pipeline logs its
// diagnostics at debug level, so a logger configured at info or above
// (or Nop) silences them without changing behavior.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "billing").WithComponent("apiclient")
//	log.Debug("request sent", logger.Fields("method", "GET"))
package logger
