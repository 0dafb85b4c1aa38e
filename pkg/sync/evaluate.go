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
	"time"

	"github.com/quartzlane/groupgate/pkg/models"
	"github.com/quartzlane/groupgate/pkg/registry"
)

// Qualification is the outcome of evaluating one source member against the
// enrollment-age threshold.
type Qualification int

const (
	// Qualified: enrolled at least threshold ago (boundary inclusive).
	Qualified Qualification = iota
	// NotQualified: enrolled, but not long enough ago.
	NotQualified
	// Unresolved: no external identifier, or no matching inventory record.
	Unresolved
	// Invalid: inventory record exists but its enrollment timestamp is
	// missing or unparsable.
	Invalid
)

func (q Qualification) String() string {
	switch q {
	case Qualified:
		return "qualified"
	case NotQualified:
		return "not_qualified"
	case Unresolved:
		return "unresolved"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Evaluate decides whether a group member's device has been enrolled for
// at least threshold as of now. Pure function: now is always passed in,
// never read from the system clock here.
func Evaluate(member models.GroupMember, idx *registry.Index, now time.Time, threshold time.Duration) Qualification {
	if member.ExternalID == "" {
		return Unresolved
	}

	record, ok := idx.Lookup(member.ExternalID)
	if !ok {
		return Unresolved
	}

	if record.EnrolledAt == "" {
		return Invalid
	}

	enrolledAt, err := time.Parse(time.RFC3339, record.EnrolledAt)
	if err != nil {
		return Invalid
	}

	if now.Sub(enrolledAt) >= threshold {
		return Qualified
	}

	return NotQualified
}
