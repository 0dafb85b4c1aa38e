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

package models

// DeviceRecord is one managed device from the directory inventory.
// EnrolledAt is kept as the raw wire string; enrollment timestamps are
// occasionally missing or malformed in inventory data and parsing is
// deferred to the qualification evaluator.
type DeviceRecord struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"` // join key to group membership entries
	EnrolledAt string `json:"enrolled_at"`
}
