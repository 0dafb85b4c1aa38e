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

package sync

import (
	"errors"
	"time"

	"github.com/quartzlane/groupgate/pkg/directory"
	"github.com/quartzlane/groupgate/pkg/logger"
	"github.com/quartzlane/groupgate/pkg/models"
)

const (
	defaultThreshold    = 8 * time.Hour
	defaultDelaySuffix  = " - Delayed"
	defaultPollInterval = time.Hour
)

var errMissingGroupPrefix = errors.New("group_prefix is required")

// Config is the reconciliation service configuration.
type Config struct {
	Directory    directory.Config `json:"directory"`
	GroupPrefix  string           `json:"group_prefix"`             // source groups share this display-name prefix
	DelaySuffix  string           `json:"delay_suffix,omitempty"`   // appended to derive the delayed group name
	Threshold    models.Duration  `json:"threshold,omitempty"`      // minimum enrollment age
	PollInterval models.Duration  `json:"poll_interval,omitempty"`
	Logging      *logger.Config   `json:"logging,omitempty"`
}

// Validate applies defaults and checks required fields. The threshold and
// suffix are deployment settings, applied uniformly to every group pair.
func (c *Config) Validate() error {
	if c.GroupPrefix == "" {
		return errMissingGroupPrefix
	}

	if c.DelaySuffix == "" {
		c.DelaySuffix = defaultDelaySuffix
	}

	if time.Duration(c.Threshold) == 0 {
		c.Threshold = models.Duration(defaultThreshold)
	}

	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	return c.Directory.Validate()
}
