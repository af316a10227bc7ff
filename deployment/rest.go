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
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
)

// ReloadTimeout bounds a reload notification
const ReloadTimeout = 10 * time.Second

// ReloadClient creates a client for the development server at baseURL
func ReloadClient(baseURL string, token string, verbose bool) (*resty.Client, error) {
	if baseURL == "" {
		return nil, errors.New("reload URL is not defined, maybe try setting `reload.url` in resbuild.yaml")
	}

	client := resty.New()
	client.SetHostURL(baseURL)
	client.SetTimeout(ReloadTimeout)
	if token != "" {
		client.SetHeader("Authorization", "Token "+token)
	}
	client.SetDebug(verbose)

	return client, nil
}
