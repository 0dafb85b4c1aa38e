/*
 * Copyright 2026 Quartzlane Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package directory

import (
	"fmt"
	"os"
)

const (
	defaultEndpoint          = "https://graph.microsoft.com"
	defaultRequestsPerSecond = 4
	defaultPageSize          = 200

	// env fallback for the one secret so it can stay out of config files
	envClientSecret = "GROUPGATE_CLIENT_SECRET"
)

// Config describes how to reach and authenticate against the directory.
type Config struct {
	Endpoint          string  `json:"endpoint"`            // defaults to the Graph endpoint
	TenantID          string  `json:"tenant_id"`
	ClientID          string  `json:"client_id"`
	ClientSecret      string  `json:"client_secret,omitempty"`
	TokenURL          string  `json:"token_url,omitempty"` // override for testing
	PageSize          int     `json:"page_size,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}

	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}

	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRequestsPerSecond
	}

	if c.ClientSecret == "" {
		c.ClientSecret = os.Getenv(envClientSecret)
	}

	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return errMissingCredentials
	}

	if c.TokenURL == "" {
		c.TokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", c.TenantID)
	}

	return nil
}
