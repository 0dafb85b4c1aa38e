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
	"context"
	"time"

	"github.com/quartzlane/groupgate/pkg/models"
)

//go:generate mockgen -destination=mock_sync.go -package=sync github.com/quartzlane/groupgate/pkg/sync Directory,Clock,Ticker

// Directory is the slice of the directory API the reconciliation service
// consumes. pkg/directory provides the production implementation.
type Directory interface {
	ListGroups(ctx context.Context, prefix string) ([]models.Group, error)
	ListManagedDevices(ctx context.Context) ([]models.DeviceRecord, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	CreateGroup(ctx context.Context, spec models.GroupSpec) (models.Group, error)
	AddMember(ctx context.Context, groupID, memberID string) error
	RemoveMember(ctx context.Context, groupID, memberID string) error
}

// Clock defines an interface for time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker defines an interface for the ticker used in polling.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}
