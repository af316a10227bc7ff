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

package bundler

import (
	"errors"
	"fmt"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

// ErrNoCompiler is returned when a rule needs an external compiler that is not configured
var ErrNoCompiler = errors.New("no compiler configured")

// BuildError carries the esbuild messages of a failed target
type BuildError struct {
	Target   string
	Messages []esbuild.Message
}

func (e *BuildError) Error() string {
	lines := make([]string, 0, len(e.Messages))
	for _, message := range e.Messages {
		lines = append(lines, formatMessage(message))
	}
	return fmt.Sprintf("build of target %s has failed with %d error(s):\n%s", e.Target, len(e.Messages), strings.Join(lines, "\n"))
}

func formatMessage(message esbuild.Message) string {
	text := message.Text
	if message.PluginName != "" {
		text = fmt.Sprintf("[%s] %s", message.PluginName, text)
	}
	if message.Location == nil {
		return text
	}
	return fmt.Sprintf("%s:%d:%d: %s", message.Location.File, message.Location.Line, message.Location.Column, text)
}
