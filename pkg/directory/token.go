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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const tokenExpiryMargin = 5 * time.Minute

// ClientCredentialsTokenProvider obtains access tokens from the tenant
// token endpoint using the OAuth2 client-credentials grant.
type ClientCredentialsTokenProvider struct {
	Config     *Config
	HTTPClient HTTPClient
}

// GetAccessToken requests a fresh token. Wrap with CachedTokenProvider for
// reuse across calls.
func (p *ClientCredentialsTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.Config.ClientID)
	form.Set("client_secret", p.Config.ClientSecret)
	form.Set("scope", p.Config.Endpoint+"/.default")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Config.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errAuthFailed, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, response: %s", errAuthFailed, resp.StatusCode, string(bodyBytes))
	}

	var tokenResp accessTokenResponse

	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", errAuthFailed)
	}

	return tokenResp.AccessToken, nil
}

// CachedTokenProvider wraps a TokenProvider and caches the access token.
type CachedTokenProvider struct {
	provider TokenProvider
	lifetime time.Duration
	mu       sync.RWMutex
	token    string
	expiry   time.Time
}

// NewCachedTokenProvider creates a new cached token provider. Directory
// tokens are issued for roughly an hour; the cache holds them for lifetime
// minus a safety margin.
func NewCachedTokenProvider(provider TokenProvider, lifetime time.Duration) *CachedTokenProvider {
	if lifetime <= tokenExpiryMargin {
		lifetime = time.Hour
	}

	return &CachedTokenProvider{
		provider: provider,
		lifetime: lifetime - tokenExpiryMargin,
	}
}

// GetAccessToken returns a cached token if valid, otherwise fetches a new one.
func (c *CachedTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.token != "" && time.Now().Before(c.expiry) {
		token := c.token
		c.mu.RUnlock()

		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check in case another goroutine already fetched a token
	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}

	token, err := c.provider.GetAccessToken(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiry = time.Now().Add(c.lifetime)

	return token, nil
}

// InvalidateToken clears the cached token.
func (c *CachedTokenProvider) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiry = time.Time{}
}
