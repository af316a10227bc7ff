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

package templates

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/bradleyjkemp/cupaloy"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/ghmattimysql/resbuild/api"
)

func scaffoldConfig(t *testing.T, resource string) *api.ProjectConfig {
	config, err := api.ExtendDefaultProjectConfig(&api.ProjectConfig{Resource: resource})
	require.NoError(t, err)
	return config
}

func generateScaffold(t *testing.T, config *api.ProjectConfig, ignorePatterns []string) (afero.Fs, []string) {
	fs := afero.NewMemMapFs()
	generated, err := RecursivelyGenerateFromTemplates(fs, ScaffoldDir, ignorePatterns, config, "/resources/"+config.Resource)
	require.NoError(t, err)
	sort.Strings(generated)
	return fs, generated
}

func TestRecursivelyGenerateFromTemplates(t *testing.T) {
	_, generated := generateScaffold(t, scaffoldConfig(t, "oxmysql"), nil)

	assert.Equal(t, []string{
		".gitignore",
		"package.json",
		"resbuild.yaml",
		filepath.Join("src", "entry", "client.js"),
		filepath.Join("src", "entry", "nui.js"),
		filepath.Join("src", "entry", "server.js"),
		filepath.Join("src", "static", "config.json"),
		filepath.Join("src", "static", "oxmysql-server.lua"),
		filepath.Join("src", "static", "oxmysql.lua"),
		filepath.Join("src", "ui", "App.vue"),
		filepath.Join("src", "ui", "styles", "main.scss"),
		filepath.Join("src", "ui", "styles", "variables.scss"),
		filepath.Join("src", "ui", "template", "index.html"),
		filepath.Join("tools", "compile-vue.js"),
	}, generated)
}

func TestRecursivelyGenerateFromTemplatesIgnore(t *testing.T) {
	_, generated := generateScaffold(t, scaffoldConfig(t, "oxmysql"), []string{"src/ui", "package.json.tmpl"})

	for _, file := range generated {
		assert.NotContains(t, file, filepath.Join("src", "ui"))
	}
	assert.NotContains(t, generated, "package.json")
	assert.Contains(t, generated, "resbuild.yaml")
}

func TestGeneratedProjectConfigRoundTrips(t *testing.T) {
	config := scaffoldConfig(t, "mysql-async")
	fs, _ := generateScaffold(t, config, nil)

	content, err := afero.ReadFile(fs, "/resources/mysql-async/resbuild.yaml")
	require.NoError(t, err)

	loaded := api.ProjectConfig{}
	require.NoError(t, yaml.Unmarshal(content, &loaded))
	assert.Equal(t, "mysql-async", loaded.Resource)
	assert.Equal(t, config.Entries, loaded.Entries)
	assert.Equal(t, config.UI.AliasRoot, loaded.UI.AliasRoot)
	assert.Equal(t, config.Styles.Variables, loaded.Styles.Variables)
}

func TestGeneratedFilesUseHelpers(t *testing.T) {
	fs, _ := generateScaffold(t, scaffoldConfig(t, "mysql-async"), nil)

	manifest, err := afero.ReadFile(fs, "/resources/mysql-async/src/static/mysql-async.lua")
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "'mysql-async-server.js',")

	bridge, err := afero.ReadFile(fs, "/resources/mysql-async/src/static/mysql-async-server.lua")
	require.NoError(t, err)
	assert.Contains(t, string(bridge), "local MysqlAsync = {}")

	client, err := afero.ReadFile(fs, "/resources/mysql-async/src/entry/client.js")
	require.NoError(t, err)
	assert.Contains(t, string(client), "RegisterCommand('mysql_async_ui'")

	// the page title is left for the html-page plugin
	page, err := afero.ReadFile(fs, "/resources/mysql-async/src/ui/template/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title><%= .Title %></title>")
}

func TestGenerationIsStable(t *testing.T) {
	snapshotter := cupaloy.New(cupaloy.SnapshotSubdirectory(t.TempDir()))

	render := func() string {
		fs, generated := generateScaffold(t, scaffoldConfig(t, "ghmattimysql"), nil)
		content := ""
		for _, file := range generated {
			fileContent, err := afero.ReadFile(fs, filepath.Join("/resources/ghmattimysql", file))
			require.NoError(t, err)
			content += "== " + filepath.ToSlash(file) + "\n" + string(fileContent)
		}
		return content
	}

	// the first run records the snapshot
	_ = snapshotter.Snapshot(render())
	assert.NoError(t, snapshotter.Snapshot(render()))
}

func TestRenderPage(t *testing.T) {
	rendered, err := RenderPage(DefaultIndexHTML, Page{
		Title:   "ghmattimysql",
		Scripts: []string{"app.js"},
		Styles:  []string{"app.css"},
	})
	require.NoError(t, err)

	page := string(rendered)
	assert.Contains(t, page, "<title>ghmattimysql</title>")
	assert.Contains(t, page, `<link href="app.css" rel="stylesheet"></head>`)
	assert.Contains(t, page, `<script src="app.js"></script></body>`)
}

func TestRenderPageEscapesTitle(t *testing.T) {
	rendered, err := RenderPage(DefaultIndexHTML, Page{Title: "<b>mysql</b>"})
	require.NoError(t, err)

	assert.Contains(t, string(rendered), "<title>&lt;b&gt;mysql&lt;/b&gt;</title>")
	assert.NotContains(t, string(rendered), "<script")
}

func TestRenderPageWithoutMarkers(t *testing.T) {
	rendered, err := RenderPage(`<div id="app"></div>`, Page{Scripts: []string{"app.js"}, Styles: []string{"fonts/app.css"}})
	require.NoError(t, err)

	assert.Equal(t, `<div id="app"></div><link href="fonts/app.css" rel="stylesheet"><script src="app.js"></script>`, string(rendered))
}

func TestRenderPageInvalidTemplate(t *testing.T) {
	_, err := RenderPage("<title><%= .Title </title>", Page{})
	assert.Error(t, err)
}

func TestRenderPageKeepsVueMustaches(t *testing.T) {
	rendered, err := RenderPage(`<html><head><title><%= .Title %></title></head><body><div id="app">{{ message }}</div></body></html>`, Page{
		Title:   "ghmattimysql",
		Scripts: []string{"app.js"},
	})
	require.NoError(t, err)

	assert.Equal(t, `<html><head><title>ghmattimysql</title></head><body><div id="app">{{ message }}</div><script src="app.js"></script></body></html>`, string(rendered))
}
