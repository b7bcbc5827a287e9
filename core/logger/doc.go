// Package logger is a standardized event logging framework for the shell.
//
// Events are stored one JSON object per line so logs can be appended to by
// many sessions and read back with ReadJSONLinesLog.
package logger
