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
	"fmt"
	"strings"
	"unicode"

	"github.com/quartzlane/groupgate/pkg/models"
)

// resolveDelayedGroup finds or creates the delayed counterpart of a source
// group. byName is the display-name index of the groups already listed this
// run; the delayed name shares the source prefix, so an existing delayed
// group is always in the listing. Creation is not transactional with the
// later membership writes - two concurrent runs can race on the same name,
// an accepted rare failure mode.
func (s *Service) resolveDelayedGroup(
	ctx context.Context,
	source models.Group,
	byName map[string]models.Group,
) (models.Group, error) {
	delayedName := source.DisplayName + s.config.DelaySuffix

	if g, ok := byName[delayedName]; ok {
		return g, nil
	}

	spec := models.GroupSpec{
		DisplayName: delayedName,
		Description: fmt.Sprintf("Devices from %q enrolled at least %s ago. Managed by groupgate.",
			source.DisplayName, s.config.Threshold),
		MailNickname:    stripWhitespace(delayedName),
		SecurityEnabled: true,
		MailEnabled:     false,
	}

	created, err := s.directory.CreateGroup(ctx, spec)
	if err != nil {
		return models.Group{}, err
	}

	byName[delayedName] = created

	return created, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}
