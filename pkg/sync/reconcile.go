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

	"github.com/quartzlane/groupgate/pkg/logger"
	"github.com/quartzlane/groupgate/pkg/models"
	"github.com/quartzlane/groupgate/pkg/registry"
)

// Plan is the membership change set for one group pair. Given the same
// inputs in the same order, the plan is deterministic.
type Plan struct {
	Add    []models.GroupMember
	Remove []models.GroupMember

	// Skipped is set when the source membership came back empty. An empty
	// fetch means "nothing to reconcile", never "remove everyone" - a
	// transient empty result must not wipe the delayed group.
	Skipped bool
}

// Empty reports whether the plan carries no changes.
func (p Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// BuildPlan computes the changes that converge the delayed group to the
// qualified subset of the source group.
//
// Adds are gated by qualification; removals are gated purely by absence
// from the source group. Qualification is never re-checked on the removal
// side: enrollment age only grows, so a member that qualified once stays
// until the device leaves the source group entirely.
//
// Matching between the two membership lists is by external identifier,
// never by entry id - the entry id differs between a membership record and
// the canonical device object.
func BuildPlan(
	source, delayed []models.GroupMember,
	idx *registry.Index,
	now time.Time,
	threshold time.Duration,
	log logger.Logger,
) Plan {
	if len(source) == 0 {
		return Plan{Skipped: true}
	}

	inDelayed := make(map[string]struct{}, len(delayed))

	for _, d := range delayed {
		if d.ExternalID != "" {
			inDelayed[d.ExternalID] = struct{}{}
		}
	}

	inSource := make(map[string]struct{}, len(source))

	var add []models.GroupMember

	for _, m := range source {
		if m.ExternalID != "" {
			inSource[m.ExternalID] = struct{}{}
		}

		switch q := Evaluate(m, idx, now, threshold); q {
		case Qualified:
			if _, present := inDelayed[m.ExternalID]; !present {
				add = append(add, m)
			}
		case NotQualified:
			// waits for a later run
		case Unresolved, Invalid:
			// never fatal; the member is skipped for adds this run but
			// remains subject to removal below
			log.Warn().
				Str("member", m.DisplayName).
				Str("external_id", m.ExternalID).
				Str("qualification", q.String()).
				Msg("Skipping member with unusable enrollment data")
		}
	}

	var remove []models.GroupMember

	for _, d := range delayed {
		if d.ExternalID == "" {
			// non-device entry, not ours to manage
			continue
		}

		if _, present := inSource[d.ExternalID]; !present {
			remove = append(remove, d)
		}
	}

	return Plan{Add: add, Remove: remove}
}
