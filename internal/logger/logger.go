// Copyright 2024 The gcsclient Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the leveled logger shared by the whole library.
// Output goes to stderr by default; InitLogFile redirects it to a rotated
// log file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace logs every request and retry attempt. slog has no trace level,
// so severity -8 keeps it below LevelDebug.
const LevelTrace = slog.Level(-8)

var (
	programLevel  = new(slog.LevelVar)
	defaultLogger = newLogger(os.Stderr, "text")
)

// InitLogFile redirects the default logger to the given file, rotated at
// maxSizeMB. Format is "text" or "json".
func InitLogFile(filename string, format string, maxSizeMB int) {
	if maxSizeMB <= 0 {
		maxSizeMB = 100
	}
	w := &lumberjack.Logger{
		Filename: filename,
		MaxSize:  maxSizeMB,
	}
	defaultLogger = newLogger(w, format)
}

// SetLogFormat switches the default logger's output format while keeping
// stderr as the destination.
func SetLogFormat(format string) {
	defaultLogger = newLogger(os.Stderr, format)
}

func newLogger(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: programLevel}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLogSeverity sets the minimum severity that gets logged. Accepted values
// are TRACE, DEBUG, INFO, WARNING, ERROR and OFF.
func SetLogSeverity(severity string) {
	switch severity {
	case "TRACE":
		programLevel.Set(LevelTrace)
	case "DEBUG":
		programLevel.Set(slog.LevelDebug)
	case "INFO":
		programLevel.Set(slog.LevelInfo)
	case "WARNING":
		programLevel.Set(slog.LevelWarn)
	case "ERROR":
		programLevel.Set(slog.LevelError)
	case "OFF":
		// Above every level in use, so nothing is logged.
		programLevel.Set(slog.Level(12))
	}
}

// Tracef prints the message with TRACE severity.
func Tracef(format string, v ...any) {
	defaultLogger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
}

// Debugf prints the message with DEBUG severity.
func Debugf(format string, v ...any) {
	defaultLogger.Debug(fmt.Sprintf(format, v...))
}

// Infof prints the message with INFO severity.
func Infof(format string, v ...any) {
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

// Warnf prints the message with WARNING severity.
func Warnf(format string, v ...any) {
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}

// Errorf prints the message with ERROR severity.
func Errorf(format string, v ...any) {
	defaultLogger.Error(fmt.Sprintf(format, v...))
}
