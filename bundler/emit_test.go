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
	"path/filepath"
	"testing"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghmattimysql/resbuild/api"
)

var uiDir = filepath.Join("dist", "ghmattimysql", "ui")

func TestWriteOutputs(t *testing.T) {
	targets := composeTargets(t)
	ui, err := lookup(t, targets, api.UITargetName).Clone()
	require.NoError(t, err)
	plugin, _ := ui.Plugin(api.PluginCSSExtract)
	plugin.CSS.Filename = "styles.css"

	fs := afero.NewMemMapFs()
	b := newTestBundler(fs, &fakeRunner{}, Commands{})

	artifacts, err := b.writeOutputs(ui, []esbuild.OutputFile{
		{Path: "/project/dist/ghmattimysql/ui/app.js", Contents: []byte("(()=>{})();")},
		{Path: "/project/dist/ghmattimysql/ui/app.css", Contents: []byte("a{b:c}")},
		{Path: "/project/dist/ghmattimysql/ui/fonts/roboto.woff2", Contents: []byte("wOF2")},
	})
	require.NoError(t, err)

	assert.Equal(t, []Artifact{
		{Path: filepath.Join(uiDir, "app.js"), Bytes: 11},
		{Path: filepath.Join(uiDir, "styles.css"), Bytes: 6},
		{Path: filepath.Join(uiDir, "fonts", "roboto.woff2"), Bytes: 4},
	}, artifacts)

	content, err := afero.ReadFile(fs, "/project/dist/ghmattimysql/ui/styles.css")
	require.NoError(t, err)
	assert.Equal(t, "a{b:c}", string(content))

	exists, err := afero.Exists(fs, "/project/dist/ghmattimysql/ui/app.css")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStaticCopy(t *testing.T) {
	targets := composeTargets(t)
	server := lookup(t, targets, api.ServerTargetName)
	plugin, ok := server.Plugin(api.PluginStaticCopy)
	require.True(t, ok)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/project/src/static/ghmattimysql.lua":        "fx_version 'bodacious'",
		"/project/src/static/ghmattimysql-server.lua": "print('ready')",
		"/project/src/static/config.json":             "{}",
	})
	b := newTestBundler(fs, &fakeRunner{}, Commands{})

	artifacts, err := b.staticCopy(server, plugin)
	require.NoError(t, err)

	serverDir := filepath.Join("dist", "ghmattimysql")
	assert.Equal(t, []Artifact{
		{Path: filepath.Join(serverDir, "fxmanifest.lua"), Bytes: 22},
		{Path: filepath.Join(serverDir, "ghmattimysql-server.lua"), Bytes: 14},
		{Path: filepath.Join(serverDir, "config.json"), Bytes: 2},
	}, artifacts)

	manifest, err := afero.ReadFile(fs, "/project/dist/ghmattimysql/fxmanifest.lua")
	require.NoError(t, err)
	assert.Equal(t, "fx_version 'bodacious'", string(manifest))
}

func TestStaticCopyIgnore(t *testing.T) {
	targets := composeTargets(t)
	server, err := lookup(t, targets, api.ServerTargetName).Clone()
	require.NoError(t, err)
	plugin, _ := server.Plugin(api.PluginStaticCopy)
	plugin.Ignore = []string{"src/static/config.json"}

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/project/src/static/ghmattimysql.lua":        "",
		"/project/src/static/ghmattimysql-server.lua": "",
	})
	b := newTestBundler(fs, &fakeRunner{}, Commands{})

	artifacts, err := b.staticCopy(server, plugin)
	require.NoError(t, err)
	assert.Len(t, artifacts, 2)
}

func TestStaticCopyMissingSource(t *testing.T) {
	targets := composeTargets(t)
	server := lookup(t, targets, api.ServerTargetName)
	plugin, _ := server.Plugin(api.PluginStaticCopy)

	b := newTestBundler(afero.NewMemMapFs(), &fakeRunner{}, Commands{})

	_, err := b.staticCopy(server, plugin)
	assert.Error(t, err)
}

func TestHTMLPage(t *testing.T) {
	targets := composeTargets(t)
	ui := lookup(t, targets, api.UITargetName)
	plugin, ok := ui.Plugin(api.PluginHTMLPage)
	require.True(t, ok)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/project/src/ui/template/index.html": "<html><head><title><%= .Title %></title></head><body><div id=\"app\"></div></body></html>",
	})
	b := newTestBundler(fs, &fakeRunner{}, Commands{})

	artifact, err := b.htmlPage(ui, plugin, []Artifact{
		{Path: filepath.Join(uiDir, "app.js")},
		{Path: filepath.Join(uiDir, "app.css")},
		{Path: filepath.Join(uiDir, "fonts", "roboto.woff2")},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(uiDir, "index.html"), artifact.Path)

	page, err := afero.ReadFile(fs, "/project/dist/ghmattimysql/ui/index.html")
	require.NoError(t, err)
	assert.Equal(t, `<html><head><title>ghmattimysql</title><link href="app.css" rel="stylesheet"></head><body><div id="app"></div><script src="app.js"></script></body></html>`, string(page))
	assert.Equal(t, int64(len(page)), artifact.Bytes)
}

func TestHTMLPageDefaultTemplate(t *testing.T) {
	targets := composeTargets(t)
	ui, err := lookup(t, targets, api.UITargetName).Clone()
	require.NoError(t, err)
	plugin, _ := ui.Plugin(api.PluginHTMLPage)
	plugin.HTML.Template = ""

	fs := afero.NewMemMapFs()
	b := newTestBundler(fs, &fakeRunner{}, Commands{})

	_, err = b.htmlPage(ui, plugin, []Artifact{{Path: filepath.Join(uiDir, "app.js")}})
	require.NoError(t, err)

	page, err := afero.ReadFile(fs, "/project/dist/ghmattimysql/ui/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>ghmattimysql</title>")
	assert.Contains(t, string(page), `<script src="app.js"></script></body>`)
}

func TestHTMLPageMissingTemplate(t *testing.T) {
	targets := composeTargets(t)
	ui := lookup(t, targets, api.UITargetName)
	plugin, _ := ui.Plugin(api.PluginHTMLPage)

	b := newTestBundler(afero.NewMemMapFs(), &fakeRunner{}, Commands{})

	_, err := b.htmlPage(ui, plugin, nil)
	assert.Error(t, err)
}

func TestOptimizeCSS(t *testing.T) {
	targets := composeTargets(t)
	ui := lookup(t, targets, api.UITargetName)
	plugin, ok := ui.Plugin(api.PluginCSSOptimize)
	require.True(t, ok)

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/project/dist/ghmattimysql/ui/app.css": "/* panel */\n.panel {\n  color: red;\n}\n",
		"/project/dist/ghmattimysql/ui/app.js":  "console.log( 1 )",
	})
	b := newTestBundler(fs, &fakeRunner{}, Commands{})

	outputs := []Artifact{
		{Path: filepath.Join(uiDir, "app.js"), Bytes: 16},
		{Path: filepath.Join(uiDir, "app.css"), Bytes: 34},
	}
	require.NoError(t, b.optimizeCSS(ui, plugin, outputs))

	css, err := afero.ReadFile(fs, "/project/dist/ghmattimysql/ui/app.css")
	require.NoError(t, err)
	assert.Contains(t, string(css), ".panel{color:red}")
	assert.NotContains(t, string(css), "panel */")
	assert.Equal(t, int64(len(css)), outputs[1].Bytes)

	// scripts are left untouched
	js, err := afero.ReadFile(fs, "/project/dist/ghmattimysql/ui/app.js")
	require.NoError(t, err)
	assert.Equal(t, "console.log( 1 )", string(js))
	assert.Equal(t, int64(16), outputs[0].Bytes)
}
