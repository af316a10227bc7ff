// Copyright 2021 AI Redefined Inc. <dev+cogment@ai-r.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deployment

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/ghmattimysql/resbuild/helper"
)

// ReloadPath is where the development server accepts reload requests
const ReloadPath = "/resources/reload"

// ReloadRequest asks the server to restart a resource after a build
type ReloadRequest struct {
	Resource string   `json:"resource"`
	Targets  []string `json:"targets"`
}

// NotifyReload asks the server to reload the resource with the freshly built targets
func NotifyReload(client *resty.Client, resource string, targets []string) error {
	logger := helper.GetSugarLogger([]string{"deployment"})
	logger.Debugf("Reloading %s after building %v", resource, targets)

	resp, err := client.R().
		SetBody(ReloadRequest{Resource: resource, Targets: targets}).
		Post(ReloadPath)
	if err != nil {
		return fmt.Errorf("unable to reach the server: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("the server rejected the reload token")
	case http.StatusNotFound:
		return fmt.Errorf("resource %s is not known by the server", resource)
	default:
		return fmt.Errorf("%s", resp.Body())
	}
}
