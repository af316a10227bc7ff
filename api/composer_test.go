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
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func composeDefaultTargets(t *testing.T) BuildTargetSet {
	config, err := ExtendDefaultProjectConfig(&ProjectConfig{})
	require.NoError(t, err)
	targets, err := ComposeTargets(config)
	require.NoError(t, err)
	return targets
}

func TestComposeTargetsOrder(t *testing.T) {
	targets := composeDefaultTargets(t)

	assert.Equal(t, []string{"server", "client", "ui"}, targets.Names())
}

func TestComposeTargetsShareRules(t *testing.T) {
	targets := composeDefaultTargets(t)

	require.Len(t, targets, 3)
	require.NotNil(t, targets[0].Rules)
	for _, target := range targets {
		assert.Same(t, targets[0].Rules, target.Rules, target.Name)
	}
}

func TestComposeTargetsMinification(t *testing.T) {
	targets := composeDefaultTargets(t)

	unminified := []string{}
	for _, target := range targets {
		if !target.Minify {
			unminified = append(unminified, target.Name)
		}
	}
	assert.Equal(t, []string{"server"}, unminified)
}

func TestComposeTargetsEnvironments(t *testing.T) {
	targets := composeDefaultTargets(t)

	var tests = []struct {
		name        string
		environment Environment
		filename    string
	}{
		{"server", EnvironmentNode, "ghmattimysql-server.js"},
		{"client", EnvironmentNode, "ghmattimysql-client.js"},
		{"ui", EnvironmentBrowser, "app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := targets.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.environment, target.Environment)
			assert.Equal(t, tt.filename, target.Filename)
		})
	}
}

func TestComposeTargetsUIOutputPath(t *testing.T) {
	targets := composeDefaultTargets(t)

	server, _ := targets.Lookup(ServerTargetName)
	client, _ := targets.Lookup(ClientTargetName)
	ui, _ := targets.Lookup(UITargetName)

	assert.Equal(t, filepath.Join("dist", "ghmattimysql"), server.OutputPath)
	assert.Equal(t, server.OutputPath, client.OutputPath)
	assert.Equal(t, filepath.Join("dist", "ghmattimysql", "ui"), ui.OutputPath)
	assert.Equal(t, "ui", filepath.Base(ui.OutputPath))
	assert.NotEqual(t, server.OutputPath, ui.OutputPath)
}

func TestComposeTargetsStaticCopy(t *testing.T) {
	targets := composeDefaultTargets(t)
	server, _ := targets.Lookup(ServerTargetName)

	plugin, ok := server.Plugin(PluginStaticCopy)
	require.True(t, ok)
	assert.Equal(t, []CopyPattern{
		{From: filepath.Join("src", "static", "ghmattimysql.lua"), To: "fxmanifest.lua"},
		{From: filepath.Join("src", "static", "ghmattimysql-server.lua"), To: "ghmattimysql-server.lua"},
		{From: filepath.Join("src", "static", "config.json"), To: "config.json"},
	}, plugin.Copy)

	for _, target := range targets[1:] {
		_, ok := target.Plugin(PluginStaticCopy)
		assert.False(t, ok, target.Name)
	}
}

func TestComposeTargetsStaticCopyDestinationsAreFixed(t *testing.T) {
	config, err := ExtendDefaultProjectConfig(&ProjectConfig{
		Static: StaticFiles{
			Manifest:     "resource/manifest.lua",
			ServerScript: "resource/boot.lua",
			Config:       "resource/settings.json",
		},
	})
	require.NoError(t, err)
	targets, err := ComposeTargets(config)
	require.NoError(t, err)

	plugin, ok := targets[0].Plugin(PluginStaticCopy)
	require.True(t, ok)
	require.Len(t, plugin.Copy, 3)

	destinations := []string{}
	for _, pattern := range plugin.Copy {
		destinations = append(destinations, pattern.To)
	}
	assert.Equal(t, []string{"fxmanifest.lua", "ghmattimysql-server.lua", "config.json"}, destinations)
	assert.Equal(t, "resource/boot.lua", plugin.Copy[1].From)
}

func TestComposeTargetsUIPlugins(t *testing.T) {
	targets := composeDefaultTargets(t)
	ui, _ := targets.Lookup(UITargetName)

	assert.Equal(t, []string{
		"component-compiler",
		"html-page",
		"css-extract",
		"css-optimize",
		"component-library",
	}, ui.PluginKinds())
	assert.Equal(t, map[string]string{"moment": "moment"}, ui.Externals)
	assert.Equal(t, map[string]string{"@": "src/ui"}, ui.Alias)
	assert.True(t, ui.QuietStats)

	page, ok := ui.Plugin(PluginHTMLPage)
	require.True(t, ok)
	assert.Equal(t, "ghmattimysql", page.HTML.Title)
	assert.Equal(t, "src/ui/template/index.html", page.HTML.Template)

	client, _ := targets.Lookup(ClientTargetName)
	assert.Empty(t, client.Plugins)
}

func TestComposeTargetsRequiresResource(t *testing.T) {
	_, err := ComposeTargets(&ProjectConfig{})
	assert.Error(t, err)
}

func TestComposeTargetsIsDeterministic(t *testing.T) {
	first := composeDefaultTargets(t)
	second := composeDefaultTargets(t)

	if diff := cmp.Diff(first, second, cmp.Comparer(func(a, b *RuleSet) bool {
		return cmp.Equal(a.Rules, b.Rules, cmp.Comparer(func(x, y *TransformRule) bool {
			return x.Name == y.Name && x.Test == y.Test && cmp.Equal(x.Steps, y.Steps)
		}))
	})); diff != "" {
		t.Errorf("composed targets mismatch (-first +second):\n%s", diff)
	}
}

func TestBuildTargetSetSelect(t *testing.T) {
	targets := composeDefaultTargets(t)

	selected, err := targets.Select([]string{"ui", "server"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"server", "ui"}, selected.Names())

	all, err := targets.Select(nil)
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = targets.Select([]string{"database"})
	assert.True(t, errors.Is(err, ErrUnknownTarget))
}

func TestBuildTargetClone(t *testing.T) {
	targets := composeDefaultTargets(t)
	ui, _ := targets.Lookup(UITargetName)

	clone, err := ui.Clone()
	require.NoError(t, err)
	clone.Externals["vue"] = "Vue"
	clone.Plugins[1].HTML.Filename = "other.html"

	assert.NotContains(t, ui.Externals, "vue")
	assert.Equal(t, "index.html", ui.Plugins[1].HTML.Filename)
	assert.Same(t, ui.Rules, clone.Rules)
}
