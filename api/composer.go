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
	"path/filepath"
)

// Names of the composed targets, in build order
const (
	ServerTargetName = "server"
	ClientTargetName = "client"
	UITargetName     = "ui"
)

// Fixed destinations of the static files copied next to the server bundle
const (
	ManifestDestination = "fxmanifest.lua"
	ConfigDestination   = "config.json"
)

// ServerScriptDestination is the fixed destination of the server runtime script
func ServerScriptDestination(resource string) string {
	return resource + "-server.lua"
}

// NewRuleSet creates the transformation rules shared by every target
func NewRuleSet(config *ProjectConfig) *RuleSet {
	variables := config.Styles.Variables

	engines := map[string]interface{}{}
	for name, version := range config.Script.Engines {
		engines[name] = version
	}

	return &RuleSet{
		Rules: []*TransformRule{
			{
				Name:       "script",
				Test:       `\.js$`,
				Extensions: []string{".js"},
				Steps: []Step{
					{Name: StepScript, Options: map[string]interface{}{
						"engines":  engines,
						"comments": false,
						"compact":  true,
					}},
				},
			},
			{
				Name:       "component",
				Test:       `\.vue$`,
				Extensions: []string{".vue"},
				Steps:      []Step{{Name: StepComponent}},
			},
			{
				Name:       "stylesheet",
				Test:       `\.css$`,
				Extensions: []string{".css"},
				Steps:      []Step{{Name: StepCSSExtract}, {Name: StepCSS}},
			},
			{
				Name:       "sass",
				Test:       `\.sass$`,
				Extensions: []string{".sass"},
				Steps: []Step{
					{Name: StepCSSExtract},
					{Name: StepCSS},
					// the indented syntax rejects a trailing semicolon
					{Name: StepSass, Options: map[string]interface{}{
						"prelude":  fmt.Sprintf("@import '%s'", variables),
						"indented": true,
					}},
				},
			},
			{
				Name:       "scss",
				Test:       `\.scss$`,
				Extensions: []string{".scss"},
				Steps: []Step{
					{Name: StepCSSExtract},
					{Name: StepCSS},
					{Name: StepSass, Options: map[string]interface{}{
						"prelude":  fmt.Sprintf("@import '%s';", variables),
						"indented": false,
					}},
				},
			},
			{
				Name:       "font",
				Test:       `(?i)\.(woff2?|eot|ttf|otf)(\?.*)?$`,
				Extensions: []string{".woff", ".woff2", ".eot", ".ttf", ".otf"},
				Steps: []Step{
					{Name: StepFile, Options: map[string]interface{}{
						"name":       config.Fonts.Name,
						"outputPath": config.Fonts.OutputPath,
						"publicPath": config.Fonts.OutputPath,
					}},
				},
			},
		},
	}
}

// ComposeTargets creates the server, client and UI targets of the resource.
//
// The rule set is built once and shared by the three targets.
func ComposeTargets(config *ProjectConfig) (BuildTargetSet, error) {
	if config.Resource == "" {
		return nil, fmt.Errorf("the project configuration doesn't name a resource")
	}

	rules := NewRuleSet(config)
	if err := rules.Compile(); err != nil {
		return nil, err
	}

	outputDir := config.OutputDir()
	manifest, serverScript, staticConfig := config.StaticSources()

	server := &BuildTarget{
		Name:        ServerTargetName,
		Entry:       config.Entries.Server,
		Environment: EnvironmentNode,
		Filename:    config.Resource + "-server.js",
		OutputPath:  outputDir,
		Minify:      false,
		Plugins: []Plugin{
			{
				Kind: PluginStaticCopy,
				Copy: []CopyPattern{
					{From: manifest, To: ManifestDestination},
					{From: serverScript, To: ServerScriptDestination(config.Resource)},
					{From: staticConfig, To: ConfigDestination},
				},
				Ignore: config.Static.Ignore,
			},
		},
		Rules: rules,
	}

	client := &BuildTarget{
		Name:        ClientTargetName,
		Entry:       config.Entries.Client,
		Environment: EnvironmentNode,
		Filename:    config.Resource + "-client.js",
		OutputPath:  outputDir,
		Minify:      true,
		Rules:       rules,
	}

	externals := map[string]string{}
	for module, global := range config.UI.Externals {
		externals[module] = global
	}

	title := config.UI.Title
	if title == "" {
		title = config.Resource
	}

	ui := &BuildTarget{
		Name:        UITargetName,
		Entry:       config.Entries.UI,
		Environment: EnvironmentBrowser,
		Filename:    "app.js",
		OutputPath:  filepath.Join(outputDir, "ui"),
		Minify:      true,
		Externals:   externals,
		Alias:       map[string]string{"@": config.UI.AliasRoot},
		QuietStats:  true,
		Plugins: []Plugin{
			{Kind: PluginComponentCompiler},
			{
				Kind: PluginHTMLPage,
				HTML: &HTMLPage{
					Filename: "index.html",
					Template: config.UI.Template,
					Title:    title,
				},
			},
			{
				Kind: PluginCSSExtract,
				CSS:  &CSSOutput{Filename: "app.css", ChunkFilename: "[id].css"},
			},
			{
				Kind: PluginCSSOptimize,
				Optimize: &CSSOptimize{
					SourceMap:         false,
					MergeLonghand:     false,
					DeclarationSorter: false,
				},
			},
			{
				Kind:    PluginComponentLibrary,
				Library: &ComponentLibrary{Module: config.UI.ComponentLibrary},
			},
		},
		Rules: rules,
	}

	return BuildTargetSet{server, client, ui}, nil
}
