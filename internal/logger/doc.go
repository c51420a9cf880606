// Package logger configures the global zerolog logger: console and rolling file
// writers split by level, a prometheus hook counting log statements and optional
// shipping of warnings and errors to datadog.
package logger
