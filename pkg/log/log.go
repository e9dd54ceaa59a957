// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the structured logging facade used throughout the client.
// It wraps zerolog (ECS field shape, via ecszerolog) over a rotating
// lumberjack file sink. A package-level logrus logger is kept alongside it
// for the narrow case of fatal configuration errors encountered before a
// Logger can be constructed (e.g. while parsing ConsumerConfig), which is
// the one place this codebase has always used logrus directly.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.elastic.co/ecszerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is a set of structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// Logger is a structured, leveled logger. The zero value is not usable;
// construct one with New or derive one with SubLogger/WithFields.
type Logger struct {
	z zerolog.Logger
}

// Config controls where and how a Logger writes.
type Config struct {
	// FilePath, if set, routes output through a rotating lumberjack sink.
	// When empty, output goes to stderr.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      zerolog.Level
}

func (c Config) withDefaults() Config {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 100
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 28
	}
	return c
}

// New builds a Logger per cfg. Output is ECS-shaped JSON (via ecszerolog),
// which is what downstream log aggregation in this fleet expects.
func New(cfg Config) Logger {
	cfg = cfg.withDefaults()

	var w io.Writer = os.Stderr
	if cfg.FilePath != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
	}

	z := ecszerolog.New(w, ecszerolog.Level(cfg.Level)).With().Timestamp().Logger()
	return Logger{z: z}
}

// Nop returns a Logger that discards everything; useful as a zero-config
// default and in tests.
func Nop() Logger {
	return Logger{z: zerolog.Nop()}
}

// SubLogger returns a derived Logger with fields permanently attached, e.g.
// the consumer(id, name, partition) prefix every consumer-scoped log line
// carries per this client's logging convention.
func (l Logger) SubLogger(f Fields) Logger {
	ctx := l.z.With()
	for k, v := range f {
		ctx = ctx.Interface(k, v)
	}
	return Logger{z: ctx.Logger()}
}

// WithFields is an alias of SubLogger kept for call-site readability where
// the fields are one-off rather than a durable scope.
func (l Logger) WithFields(f Fields) Logger { return l.SubLogger(f) }

func (l Logger) WithError(err error) Logger {
	return Logger{z: l.z.With().Err(err).Logger()}
}

func (l Logger) Debugf(format string, args ...interface{}) { l.z.Debug().Msgf(format, args...) }
func (l Logger) Infof(format string, args ...interface{})  { l.z.Info().Msgf(format, args...) }
func (l Logger) Warnf(format string, args ...interface{})  { l.z.Warn().Msgf(format, args...) }
func (l Logger) Errorf(format string, args ...interface{}) { l.z.Error().Msgf(format, args...) }

func (l Logger) Debug(args ...interface{}) { l.z.Debug().Msg(sprint(args)) }
func (l Logger) Info(args ...interface{})  { l.z.Info().Msg(sprint(args)) }
func (l Logger) Warn(args ...interface{})  { l.z.Warn().Msg(sprint(args)) }
func (l Logger) Error(args ...interface{}) { l.z.Error().Msg(sprint(args)) }

func sprint(args []interface{}) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(args...)
}

// Fallback is a package-level logrus logger for use before construction-time
// configuration (ConsumerConfig/ClientConfig parsing) has produced a Logger.
var Fallback = logrus.New()

// std is the package-level Logger used by the Debugf/Infof/... functions
// below, for call sites (core/conn) that log without carrying
// their own Logger value around. SetDefault replaces it; until then it
// discards everything.
var std = Nop()

// SetDefault replaces the package-level Logger used by Debugf/Infof/Warnf/
// Errorf and friends. Call it once during client construction with the
// Logger built from the caller's Config.
func SetDefault(l Logger) { std = l }

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

func Debug(args ...interface{}) { std.Debug(args...) }
func Info(args ...interface{})  { std.Info(args...) }
func Warn(args ...interface{})  { std.Warn(args...) }
func Error(args ...interface{}) { std.Error(args...) }
