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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jinzhu/copier"
)

// ErrUnknownTarget is returned when a target name is not part of a set
var ErrUnknownTarget = errors.New("unknown build target")

// Environment is the runtime the output of a target executes in
type Environment string

const (
	// EnvironmentNode is the server-side runtime used by the resource scripts
	EnvironmentNode Environment = "node"
	// EnvironmentBrowser is the embedded browser hosting the UI
	EnvironmentBrowser Environment = "browser"
)

// PluginKind identifies a plugin attached to a target
type PluginKind string

const (
	PluginStaticCopy        PluginKind = "static-copy"
	PluginComponentCompiler PluginKind = "component-compiler"
	PluginHTMLPage          PluginKind = "html-page"
	PluginCSSExtract        PluginKind = "css-extract"
	PluginCSSOptimize       PluginKind = "css-optimize"
	PluginComponentLibrary  PluginKind = "component-library"
)

// CopyPattern copies From, relative to the project, to To, relative to the
// target output directory
type CopyPattern struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// HTMLPage describes the generated UI page
type HTMLPage struct {
	Filename string `yaml:"filename" json:"filename"`
	Template string `yaml:"template" json:"template"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
}

// CSSOutput describes where extracted stylesheets are written
type CSSOutput struct {
	Filename      string `yaml:"filename" json:"filename"`
	ChunkFilename string `yaml:"chunk_filename" json:"chunkFilename"`
}

// CSSOptimize holds the stylesheet optimizer settings
type CSSOptimize struct {
	SourceMap         bool `yaml:"source_map" json:"sourceMap"`
	MergeLonghand     bool `yaml:"merge_longhand" json:"mergeLonghand"`
	DeclarationSorter bool `yaml:"declaration_sorter" json:"declarationSorter"`
}

// ComponentLibrary names the component library resolved from its
// tree-shakable entry
type ComponentLibrary struct {
	Module string `yaml:"module" json:"module"`
}

// Plugin is a post-processing or build-time extension attached to a target
type Plugin struct {
	Kind     PluginKind        `yaml:"kind" json:"kind"`
	Copy     []CopyPattern     `yaml:"copy,omitempty" json:"copy,omitempty"`
	Ignore   []string          `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	HTML     *HTMLPage         `yaml:"html,omitempty" json:"html,omitempty"`
	CSS      *CSSOutput        `yaml:"css,omitempty" json:"css,omitempty"`
	Optimize *CSSOptimize      `yaml:"optimize,omitempty" json:"optimize,omitempty"`
	Library  *ComponentLibrary `yaml:"library,omitempty" json:"library,omitempty"`
}

// BuildTarget is an independent output artifact and the way to produce it
type BuildTarget struct {
	Name        string            `yaml:"name" json:"name"`
	Entry       string            `yaml:"entry" json:"entry"`
	Environment Environment       `yaml:"environment" json:"environment"`
	Filename    string            `yaml:"filename" json:"filename"`
	OutputPath  string            `yaml:"output_path" json:"outputPath"`
	Minify      bool              `yaml:"minify" json:"minify"`
	Externals   map[string]string `yaml:"externals,omitempty" json:"externals,omitempty"`
	Alias       map[string]string `yaml:"alias,omitempty" json:"alias,omitempty"`
	QuietStats  bool              `yaml:"quiet_stats" json:"quietStats"`
	Plugins     []Plugin          `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Rules       *RuleSet          `yaml:"-" json:"-"`
}

// OutputFile is the path of the bundled script, relative to the project
func (t *BuildTarget) OutputFile() string {
	return filepath.Join(t.OutputPath, t.Filename)
}

// Plugin returns the first plugin of the given kind
func (t *BuildTarget) Plugin(kind PluginKind) (*Plugin, bool) {
	for i := range t.Plugins {
		if t.Plugins[i].Kind == kind {
			return &t.Plugins[i], true
		}
	}
	return nil, false
}

// PluginKinds lists the kinds of the attached plugins in order
func (t *BuildTarget) PluginKinds() []string {
	kinds := make([]string, 0, len(t.Plugins))
	for _, plugin := range t.Plugins {
		kinds = append(kinds, string(plugin.Kind))
	}
	return kinds
}

// Clone returns a deep copy of the target sharing the same rule set
func (t *BuildTarget) Clone() (*BuildTarget, error) {
	clone := &BuildTarget{}
	if err := copier.CopyWithOption(clone, t, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	clone.Rules = t.Rules
	return clone, nil
}

// BuildTargetSet is an ordered list of independent targets
type BuildTargetSet []*BuildTarget

// Lookup returns the target named name
func (s BuildTargetSet) Lookup(name string) (*BuildTarget, error) {
	for _, target := range s {
		if target.Name == name {
			return target, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownTarget, name)
}

// Select keeps the named targets, preserving the set order. An empty list
// selects everything.
func (s BuildTargetSet) Select(names []string) (BuildTargetSet, error) {
	if len(names) == 0 {
		return s, nil
	}
	wanted := map[string]bool{}
	for _, name := range names {
		if _, err := s.Lookup(name); err != nil {
			return nil, err
		}
		wanted[name] = true
	}
	selected := BuildTargetSet{}
	for _, target := range s {
		if wanted[target.Name] {
			selected = append(selected, target)
		}
	}
	return selected, nil
}

// Names lists the target names in order
func (s BuildTargetSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, target := range s {
		names = append(names, target.Name)
	}
	return names
}
