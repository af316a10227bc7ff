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

package helper

import (
	"github.com/spf13/viper"
)

var CfgFile string

// CurrentConfig returns the user setting named key, or fallback when it isn't set
func CurrentConfig(key string, fallback string) string {
	if !viper.IsSet(key) {
		return fallback
	}
	value := viper.GetString(key)
	if value == "" {
		return fallback
	}
	return value
}
