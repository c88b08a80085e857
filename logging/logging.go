/*
Copyright 2026, The ptpd Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging contains log formatters (plaintext and JSON) used by ptpd components and helpers that configure
// logrus verbosity. Logging mode and verbosity can be set in yaml config or passed as CLI parameter.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Log modes
const (
	LogDebug = iota
	LogVerbose
	LogDiscard
)

// Supported log formats
const (
	PlaintextFormatString = "plaintext"
	JSONFormatString      = "json"
)

// FormatterHook provides post-processing customization to log formatters,
// allowing you to execute additional code before or after an entry is completed.
type FormatterHook interface {
	// PreFormat is called before the entry is serialized by the formatter.
	// You may inspect as well as add or remove fields of the log entry.
	// If the error is not nil, formatting fails with returned error.
	PreFormat(entry *log.Entry) error
	// PostFormat is called after the entry has been serialized by the formatter.
	// You may modify the resulting buffer with serialized entry.
	// If the error is not nil, formatting fails with returned error.
	PostFormat(entry *log.Entry, formatted *bytes.Buffer) error
}

type loggerKey struct{}

// IsDebugLevel return true if logger configured to log debug messages
func IsDebugLevel(logger *log.Entry) bool {
	return logger.Logger.IsLevelEnabled(log.DebugLevel)
}

// FormatterWrapper wraps log.Formatter interface and adds functions for customizations
type FormatterWrapper interface {
	log.Formatter
	SetServiceName(serviceName string)
	SetHooks(hooks []FormatterHook)
}

// SetLogLevel sets logging level
func SetLogLevel(level int) {
	switch level {
	case LogDebug:
		log.SetLevel(log.DebugLevel)
	case LogVerbose:
		log.SetLevel(log.InfoLevel)
	case LogDiscard:
		log.SetLevel(log.WarnLevel)
	default:
		panic(fmt.Sprintf("Incorrect log level - %v", level))
	}
}

// CreateFormatter creates formatter object and sets it to standard logger
func CreateFormatter(format string) FormatterWrapper {
	var formatter FormatterWrapper
	switch strings.ToLower(format) {
	case JSONFormatString:
		formatter = JSONFormatter()
	default:
		formatter = TextFormatter()
	}
	log.SetFormatter(formatter)
	return formatter
}

// SetServiceName adds service-name label to log entries
// (plaintext formatter ignores it)
func SetServiceName(formatter FormatterWrapper, serviceName string) {
	formatter.SetServiceName(serviceName)
}

// SetLoggerToContext sets logger to corresponded context
func SetLoggerToContext(ctx context.Context, logger *log.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLoggerFromContext gets logger from context, returns standard logger entry if context has no logger
func GetLoggerFromContext(ctx context.Context) *log.Entry {
	if entry, ok := GetLoggerFromContextOk(ctx); ok {
		return entry
	}
	return log.NewEntry(log.StandardLogger())
}

// GetLoggerFromContextOk gets logger from context, returns logger and success code.
func GetLoggerFromContextOk(ctx context.Context) (*log.Entry, bool) {
	entry, ok := ctx.Value(loggerKey{}).(*log.Entry)
	return entry, ok
}
