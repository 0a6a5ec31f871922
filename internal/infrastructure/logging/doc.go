// Package logging provides structured logging for Gray Logic Sim.
//
// This package wraps Go's standard log/slog package. Console output goes
// to stderr by default so it never interleaves with a simulation transcript
// written to stdout.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr, file
//	  file:
//	    path: "./logs/graylogic-sim.log"
//	    max_size: 10     # megabytes
//	    max_backups: 5
//	    max_age: 28      # days
//	    compress: true
//
// File output is rotated by lumberjack.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	defer logger.Close()
//	logger.Info("script finished", "commands", 42)
package logging
