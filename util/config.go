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
	"os"
)

// Environment variables
const (
	STAC_API_URL        = "STAC_API_URL"
	SAS_API_URL         = "SAS_API_URL"
	MOSAIC_API_URL      = "MOSAIC_API_URL"
	PC_SUBSCRIPTION_KEY = "PC_SUBSCRIPTION_KEY"
	LOG_LEVEL           = "LOG_LEVEL"
)

const defaultStacAPIURL = "https://planetarycomputer.microsoft.com/api/stac/v1"
const defaultSasAPIURL = "https://planetarycomputer.microsoft.com/api/sas/v1"
const defaultMosaicAPIURL = "https://planetarycomputer.microsoft.com/api/data/v1"

// GetStacAPIURL returns a string for the STAC_API_URL environment variable
func GetStacAPIURL() string {
	stacURL, ok := os.LookupEnv(STAC_API_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get catalog API URL from the environment. Using default URL: "+defaultStacAPIURL)
		return defaultStacAPIURL
	}
	return stacURL
}

// GetSasAPIURL returns a string for the SAS_API_URL environment variable
func GetSasAPIURL() string {
	sasURL, ok := os.LookupEnv(SAS_API_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get signing API URL from the environment. Using default URL: "+defaultSasAPIURL)
		return defaultSasAPIURL
	}
	return sasURL
}

// GetMosaicAPIURL returns a string for the MOSAIC_API_URL environment variable
func GetMosaicAPIURL() string {
	mosaicURL, ok := os.LookupEnv(MOSAIC_API_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get mosaic API URL from the environment. Using default URL: "+defaultMosaicAPIURL)
		return defaultMosaicAPIURL
	}
	return mosaicURL
}

// GetSubscriptionKey returns a string for the PC_SUBSCRIPTION_KEY environment
// variable. An empty key is valid; public assets remain reachable with
// reduced entitlements.
func GetSubscriptionKey() string {
	key, ok := os.LookupEnv(PC_SUBSCRIPTION_KEY)
	if !ok {
		LogInfo(&BasicLogContext{}, "No subscription key in environment. Requests will be made anonymously.")
	}
	return key
}
