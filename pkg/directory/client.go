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

// Package directory is the REST client for the device-management directory.
// Listing endpoints are cursor-paginated; the client follows continuation
// links until the cursor is exhausted.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/quartzlane/groupgate/pkg/logger"
	"github.com/quartzlane/groupgate/pkg/models"
)

const requestTimeout = 30 * time.Second

// Client talks to the directory API. All calls are synchronous and pass
// through a client-side rate limiter; the directory throttles aggressively
// and this workload gains nothing from parallelism.
type Client struct {
	config  *Config
	http    HTTPClient
	tokens  TokenProvider
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewClient validates the config and builds a client with a cached
// client-credentials token provider.
func NewClient(config *Config, log logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: requestTimeout}

	tokens := NewCachedTokenProvider(&ClientCredentialsTokenProvider{
		Config:     config,
		HTTPClient: httpClient,
	}, time.Hour)

	return &Client{
		config:  config,
		http:    httpClient,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:  log.WithComponent("directory"),
	}, nil
}

// NewClientWithDeps builds a client from explicit dependencies, for tests.
func NewClientWithDeps(config *Config, httpClient HTTPClient, tokens TokenProvider, log logger.Logger) *Client {
	return &Client{
		config:  config,
		http:    httpClient,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  log.WithComponent("directory"),
	}
}

// ListGroups returns all groups whose display name starts with prefix.
func (c *Client) ListGroups(ctx context.Context, prefix string) ([]models.Group, error) {
	reqURL := fmt.Sprintf("%s/v1.0/groups?$select=id,displayName&$top=%d", c.config.Endpoint, c.config.PageSize)
	if prefix != "" {
		filter := fmt.Sprintf("startswith(displayName,'%s')", prefix)
		reqURL += "&$filter=" + url.QueryEscape(filter)
	}

	var groups []models.Group

	for reqURL != "" {
		var page groupPage

		if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &page, http.StatusOK); err != nil {
			return nil, fmt.Errorf("failed to list groups: %w", err)
		}

		for _, g := range page.Value {
			groups = append(groups, models.Group{ID: g.ID, DisplayName: g.DisplayName})
		}

		reqURL = page.NextLink
	}

	c.logger.Debug().Str("prefix", prefix).Int("count", len(groups)).Msg("Listed groups")

	return groups, nil
}

// ListManagedDevices returns the full device inventory, selected fields only.
func (c *Client) ListManagedDevices(ctx context.Context) ([]models.DeviceRecord, error) {
	reqURL := fmt.Sprintf("%s/v1.0/deviceManagement/managedDevices?$select=id,azureADDeviceId,enrolledDateTime&$top=%d",
		c.config.Endpoint, c.config.PageSize)

	var devices []models.DeviceRecord

	for reqURL != "" {
		var page devicePage

		if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &page, http.StatusOK); err != nil {
			return nil, fmt.Errorf("failed to list managed devices: %w", err)
		}

		for _, d := range page.Value {
			devices = append(devices, models.DeviceRecord{
				ID:         d.ID,
				ExternalID: d.AzureADDeviceID,
				EnrolledAt: d.EnrolledDateTime,
			})
		}

		reqURL = page.NextLink
	}

	c.logger.Debug().Int("count", len(devices)).Msg("Listed managed devices")

	return devices, nil
}

// ListGroupMembers returns the membership of one group. Non-device members
// come back with an empty ExternalID.
func (c *Client) ListGroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	reqURL := fmt.Sprintf("%s/v1.0/groups/%s/members?$select=id,displayName,deviceId&$top=%d",
		c.config.Endpoint, groupID, c.config.PageSize)

	var members []models.GroupMember

	for reqURL != "" {
		var page memberPage

		if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &page, http.StatusOK); err != nil {
			return nil, fmt.Errorf("failed to list members of group %s: %w", groupID, err)
		}

		for _, m := range page.Value {
			members = append(members, models.GroupMember{
				ID:          m.ID,
				DisplayName: m.DisplayName,
				ExternalID:  m.DeviceID,
			})
		}

		reqURL = page.NextLink
	}

	return members, nil
}

// CreateGroup provisions a new group. Idempotency is not guaranteed by the
// directory; concurrent runs can race on the same name.
func (c *Client) CreateGroup(ctx context.Context, spec models.GroupSpec) (models.Group, error) {
	body := createGroupRequest{
		DisplayName:     spec.DisplayName,
		Description:     spec.Description,
		MailNickname:    spec.MailNickname,
		SecurityEnabled: spec.SecurityEnabled,
		MailEnabled:     spec.MailEnabled,
	}

	var created groupObject

	reqURL := c.config.Endpoint + "/v1.0/groups"
	if err := c.doJSON(ctx, http.MethodPost, reqURL, body, &created, http.StatusCreated, http.StatusOK); err != nil {
		return models.Group{}, fmt.Errorf("failed to create group '%s': %w", spec.DisplayName, err)
	}

	c.logger.Info().
		Str("group_id", created.ID).
		Str("display_name", created.DisplayName).
		Msg("Created group")

	return models.Group{ID: created.ID, DisplayName: created.DisplayName}, nil
}

// AddMember adds a directory object to a group by object reference.
func (c *Client) AddMember(ctx context.Context, groupID, memberID string) error {
	body := addMemberRequest{
		ODataID: fmt.Sprintf("%s/v1.0/directoryObjects/%s", c.config.Endpoint, memberID),
	}

	reqURL := fmt.Sprintf("%s/v1.0/groups/%s/members/$ref", c.config.Endpoint, groupID)
	if err := c.doJSON(ctx, http.MethodPost, reqURL, body, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to add member %s to group %s: %w", memberID, groupID, err)
	}

	return nil
}

// RemoveMember removes a directory object from a group.
func (c *Client) RemoveMember(ctx context.Context, groupID, memberID string) error {
	reqURL := fmt.Sprintf("%s/v1.0/groups/%s/members/%s/$ref", c.config.Endpoint, groupID, memberID)
	if err := c.doJSON(ctx, http.MethodDelete, reqURL, nil, nil, http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to remove member %s from group %s: %w", memberID, groupID, err)
	}

	return nil
}

// CreateExportJob starts a report export job on the directory side.
func (c *Client) CreateExportJob(ctx context.Context, reportName string, columns []string) (*ExportJob, error) {
	body := createExportJobRequest{
		ReportName: reportName,
		Format:     "csv",
		Select:     columns,
	}

	var job ExportJob

	reqURL := c.config.Endpoint + "/v1.0/deviceManagement/reports/exportJobs"
	if err := c.doJSON(ctx, http.MethodPost, reqURL, body, &job, http.StatusCreated, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to create export job for '%s': %w", reportName, err)
	}

	return &job, nil
}

// GetExportJob fetches the current state of an export job.
func (c *Client) GetExportJob(ctx context.Context, jobID string) (*ExportJob, error) {
	var job ExportJob

	reqURL := fmt.Sprintf("%s/v1.0/deviceManagement/reports/exportJobs('%s')", c.config.Endpoint, jobID)
	if err := c.doJSON(ctx, http.MethodGet, reqURL, nil, &job, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to get export job %s: %w", jobID, err)
	}

	return &job, nil
}

// DownloadExportJob retrieves a completed job's payload. The download URL
// is pre-signed, so no bearer token is attached.
func (c *Client) DownloadExportJob(ctx context.Context, downloadURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export payload: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	return payload, nil
}

// doJSON executes one authenticated request and decodes the response into
// out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, reqURL string, body, out interface{}, okStatuses ...int) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader = http.NoBody

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return err
	}

	token, err := c.tokens.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.NewString())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if !statusAllowed(resp.StatusCode, okStatuses) {
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode,
			resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if out != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func statusAllowed(status int, allowed []int) bool {
	for _, s := range allowed {
		if status == s {
			return true
		}
	}

	return false
}
