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
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// HTTPErr is an error paired with the remote HTTP status that produced it.
// Statuses in the 4xx range indicate a non-retryable request-construction or
// authorization failure; 5xx statuses indicate a remote fault.
type HTTPErr struct {
	Status  int
	Message string
}

func (err HTTPErr) Error() string {
	return err.Message
}

// IsClientErr reports whether the error is a non-retryable 4xx failure
func IsClientErr(err error) bool {
	if httpErr, ok := err.(HTTPErr); ok {
		return httpErr.Status >= 400 && httpErr.Status < 500
	}
	return false
}

// Error carries the full context of a failed remote interaction: what to log,
// what to tell the caller, and the request/response that misbehaved.
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Log writes the detailed form of the error and returns an error holding the
// caller-facing message.
func (err Error) Log(context LogContext, message string) error {
	e := event(context, log.Error()).
		Str("url", err.URL).
		Int("status", err.HTTPStatus)
	if err.Response != "" {
		e = e.Str("response", err.Response)
	}
	if message != "" {
		e.Msg(message + " " + err.LogMsg)
	} else {
		e.Msg(err.LogMsg)
	}
	if err.SimpleMsg != "" {
		return fmt.Errorf("%s", err.SimpleMsg)
	}
	return fmt.Errorf("%s", err.LogMsg)
}

// HTTPError writes a JSON error body with the given status
func HTTPError(r *http.Request, w http.ResponseWriter, context LogContext, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body, _ := json.Marshal(map[string]string{"error": message})
	w.Write(body)
}
