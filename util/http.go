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
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// SubscriptionKeyHeader carries the optional subscription key on every
// request to the hosted APIs.
const SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// HTTPClient returns the shared HTTP client used for all remote calls
func HTTPClient() *http.Client {
	return httpClient
}

// ReqInput describes one remote JSON request.
type ReqInput struct {
	Method          string
	URL             string
	Body            interface{} // marshaled to JSON when non-nil
	SubscriptionKey string
}

// ReqByObjJSON issues a JSON request and unmarshals a successful response
// body into output. Remote 4xx and 5xx statuses are returned as HTTPErr; the
// caller decides whether the failure is terminal. No retries are attempted.
func ReqByObjJSON(ctx context.Context, input ReqInput, output interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if input.Body != nil {
		raw, err := json.Marshal(input.Body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, input.Method, input.URL, bodyReader)
	if err != nil {
		return nil, err
	}
	if input.Body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if input.SubscriptionKey != "" {
		request.Header.Set(SubscriptionKeyHeader, input.SubscriptionKey)
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if response.StatusCode >= 400 {
		return response, HTTPErr{Status: response.StatusCode, Message: response.Status + ": " + string(raw)}
	}
	if output != nil {
		if err = json.Unmarshal(raw, output); err != nil {
			return response, err
		}
	}
	return response, nil
}
