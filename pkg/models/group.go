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

// Group is a directory group entity.
type Group struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// GroupSpec describes a group to be provisioned in the directory.
type GroupSpec struct {
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	MailNickname    string `json:"mail_nickname"`
	SecurityEnabled bool   `json:"security_enabled"`
	MailEnabled     bool   `json:"mail_enabled"`
}

// GroupMember is one entry in a group's membership list. ID is the
// directory object identifier used for add/remove operations; ExternalID
// correlates to DeviceRecord.ExternalID and is empty for non-device
// members, which reconciliation ignores.
type GroupMember struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ExternalID  string `json:"external_id"`
}
