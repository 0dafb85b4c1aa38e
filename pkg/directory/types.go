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

package directory

// Wire types for the directory API. Field names follow the remote schema;
// conversion to pkg/models happens at the client boundary.

type accessTokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

type groupObject struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type groupPage struct {
	NextLink string        `json:"@odata.nextLink"`
	Value    []groupObject `json:"value"`
}

type createGroupRequest struct {
	DisplayName     string `json:"displayName"`
	Description     string `json:"description"`
	MailNickname    string `json:"mailNickname"`
	SecurityEnabled bool   `json:"securityEnabled"`
	MailEnabled     bool   `json:"mailEnabled"`
}

// directoryObject is a group member entry. DeviceID is only populated for
// device objects; user and group members leave it empty.
type directoryObject struct {
	ODataType   string `json:"@odata.type"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	DeviceID    string `json:"deviceId"`
}

type memberPage struct {
	NextLink string            `json:"@odata.nextLink"`
	Value    []directoryObject `json:"value"`
}

type managedDevice struct {
	ID               string `json:"id"`
	AzureADDeviceID  string `json:"azureADDeviceId"`
	EnrolledDateTime string `json:"enrolledDateTime"`
}

type devicePage struct {
	NextLink string          `json:"@odata.nextLink"`
	Value    []managedDevice `json:"value"`
}

type addMemberRequest struct {
	ODataID string `json:"@odata.id"`
}

// ExportJob is a long-running report export on the directory side.
type ExportJob struct {
	ID              string `json:"id"`
	ReportName      string `json:"reportName"`
	Status          string `json:"status"`
	URL             string `json:"url"`
	ExpirationDate  string `json:"expirationDateTime"`
	RequestDateTime string `json:"requestDateTime"`
}

type createExportJobRequest struct {
	ReportName string   `json:"reportName"`
	Format     string   `json:"format"`
	Select     []string `json:"select,omitempty"`
}
