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

// Package registry indexes the device inventory by external identifier.
package registry

import (
	"github.com/quartzlane/groupgate/pkg/models"
)

// Index maps a device's external identifier to its inventory record.
// It is built once per run and is read-only afterwards, so concurrent
// lookups are safe.
type Index struct {
	byExternalID map[string]models.DeviceRecord
}

// Build constructs an Index from the device inventory. Records without an
// external identifier cannot be keyed and are skipped. When two records
// share an external identifier the later one wins; duplicates are not
// expected in well-formed inventory data, so last-write-wins is a
// tie-break, not an error.
func Build(devices []models.DeviceRecord) *Index {
	idx := &Index{
		byExternalID: make(map[string]models.DeviceRecord, len(devices)),
	}

	for _, d := range devices {
		if d.ExternalID == "" {
			continue
		}

		idx.byExternalID[d.ExternalID] = d
	}

	return idx
}

// Lookup returns the device record for an external identifier.
func (i *Index) Lookup(externalID string) (models.DeviceRecord, bool) {
	d, ok := i.byExternalID[externalID]
	return d, ok
}

// Len reports how many devices are indexed.
func (i *Index) Len() int {
	return len(i.byExternalID)
}
