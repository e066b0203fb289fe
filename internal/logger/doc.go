// Package logger wraps a zap sugared logger behind context-first helpers.
// A single atomic level controls every logger built with a nil level, and a
// logger carried in a context.Context wins over the process-wide one, so
// components can name their logger and attach fields once per operation.
package logger
