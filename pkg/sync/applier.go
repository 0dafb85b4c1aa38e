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

	"github.com/quartzlane/groupgate/pkg/models"
)

// applyPlan executes the change set one member at a time. A failed write
// is logged and does not stop the remaining members; the next run
// recomputes the full diff from current state, so any drift left behind
// here heals itself.
func (s *Service) applyPlan(ctx context.Context, delayed models.Group, plan Plan) (added, removed int) {
	for _, m := range plan.Add {
		if err := s.directory.AddMember(ctx, delayed.ID, m.ID); err != nil {
			s.logger.Error().
				Err(err).
				Str("group", delayed.DisplayName).
				Str("member", m.DisplayName).
				Msg("Failed to add member to delayed group")

			continue
		}

		added++
	}

	for _, m := range plan.Remove {
		if err := s.directory.RemoveMember(ctx, delayed.ID, m.ID); err != nil {
			s.logger.Error().
				Err(err).
				Str("group", delayed.DisplayName).
				Str("member", m.DisplayName).
				Msg("Failed to remove member from delayed group")

			continue
		}

		removed++
	}

	return added, removed
}
