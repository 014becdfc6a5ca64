// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogContext supplies identifying information attached to every log event
// emitted on behalf of an operation.
type LogContext interface {
	AppName() string
	SessionID() string
}

// BasicLogContext is a minimal LogContext for operations without their own
// client context.
type BasicLogContext struct {
	sessionID string
}

// AppName returns an empty string
func (c *BasicLogContext) AppName() string {
	return ""
}

// SessionID returns a Session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID = NewSessionID()
	}
	return c.sessionID
}

// NewSessionID returns a fresh identifier for correlating the log events of
// one operation.
func NewSessionID() string {
	return uuid.NewString()
}

// SetupLogging configures the global zerolog level from a level name.
// Unrecognized names leave the level at info.
func SetupLogging(level string) {
	switch strings.ToLower(level) {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warning", "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// LogInfo logs an informational message
func LogInfo(context LogContext, message string) {
	event(context, log.Info()).Msg(message)
}

// LogAlert logs a message that needs operator attention but is not an
// operation failure
func LogAlert(context LogContext, message string) {
	event(context, log.Warn()).Msg(message)
}

// LogSimpleErr logs a message and its underlying error, returning a wrapped
// error suitable for returning up the call stack.
func LogSimpleErr(context LogContext, message string, err error) error {
	event(context, log.Error()).Err(err).Msg(message)
	return fmt.Errorf("%s: %w", strings.TrimRight(message, " "), err)
}

func event(context LogContext, e *zerolog.Event) *zerolog.Event {
	if context == nil {
		return e
	}
	if app := context.AppName(); app != "" {
		e = e.Str("app", app)
	}
	return e.Str("session", context.SessionID())
}
