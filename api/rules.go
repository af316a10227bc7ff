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

package api

import (
	"fmt"
	"path"
	"regexp"
)

// Names of the transformation steps a rule can chain
const (
	StepScript     = "script"
	StepComponent  = "component"
	StepCSSExtract = "css-extract"
	StepCSS        = "css"
	StepSass       = "sass"
	StepFile       = "file"
)

// Step is one named transformation applied to a matching file
type Step struct {
	Name    string                 `yaml:"name" json:"name"`
	Options map[string]interface{} `yaml:"options,omitempty" json:"options,omitempty"`
}

// String returns the string option named key, or "" when it is missing
func (s Step) String(key string) string {
	value, ok := s.Options[key].(string)
	if !ok {
		return ""
	}
	return value
}

// Bool returns the boolean option named key, or fallback when it is missing
func (s Step) Bool(key string, fallback bool) bool {
	value, ok := s.Options[key].(bool)
	if !ok {
		return fallback
	}
	return value
}

// StringMap returns the string map option named key
func (s Step) StringMap(key string) map[string]string {
	result := map[string]string{}
	switch value := s.Options[key].(type) {
	case map[string]string:
		for k, v := range value {
			result[k] = v
		}
	case map[string]interface{}:
		for k, v := range value {
			result[k] = fmt.Sprint(v)
		}
	case map[interface{}]interface{}:
		for k, v := range value {
			result[fmt.Sprint(k)] = fmt.Sprint(v)
		}
	}
	return result
}

// TransformRule routes the files whose name matches Test through Steps.
//
// Steps are declared outermost first: the last step receives the raw source
// and its output is handed to the step declared before it.
type TransformRule struct {
	Name       string   `yaml:"name" json:"name"`
	Test       string   `yaml:"test" json:"test"`
	Extensions []string `yaml:"extensions" json:"extensions"`
	Steps      []Step   `yaml:"steps" json:"steps"`

	pattern *regexp.Regexp
}

// Matches tells if filename is handled by the rule
func (r *TransformRule) Matches(filename string) bool {
	if r.pattern == nil {
		return false
	}
	return r.pattern.MatchString(path.Base(filename))
}

// HasStep tells if the rule pipeline contains the step named name
func (r *TransformRule) HasStep(name string) bool {
	_, ok := r.Step(name)
	return ok
}

// Step returns the first step named name
func (r *TransformRule) Step(name string) (Step, bool) {
	for _, step := range r.Steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}

// StepNames lists the step names of the pipeline in declaration order
func (r *TransformRule) StepNames() []string {
	names := make([]string, 0, len(r.Steps))
	for _, step := range r.Steps {
		names = append(names, step.Name)
	}
	return names
}

// RuleSet is an ordered list of rules evaluated in first-match order
type RuleSet struct {
	Rules []*TransformRule `yaml:"rules" json:"rules"`
}

// Compile validates and compiles the pattern of every rule
func (s *RuleSet) Compile() error {
	for _, rule := range s.Rules {
		pattern, err := regexp.Compile(rule.Test)
		if err != nil {
			return fmt.Errorf("invalid pattern for rule %q: %w", rule.Name, err)
		}
		rule.pattern = pattern
	}
	return nil
}

// Match returns the first rule handling filename
func (s *RuleSet) Match(filename string) (*TransformRule, bool) {
	for _, rule := range s.Rules {
		if rule.Matches(filename) {
			return rule, true
		}
	}
	return nil, false
}

// Rule returns the rule named name
func (s *RuleSet) Rule(name string) (*TransformRule, bool) {
	for _, rule := range s.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return nil, false
}
