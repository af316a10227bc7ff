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
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/codeskyblue/dockerignore"
	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/templates"
)

func (b *Bundler) writeFile(filename string, content []byte) (Artifact, error) {
	if err := b.fs.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return Artifact{}, err
	}
	if err := afero.WriteFile(b.fs, filename, content, 0644); err != nil {
		return Artifact{}, err
	}
	return Artifact{Path: b.rel(filename), Bytes: int64(len(content))}, nil
}

// writeOutputs writes the esbuild outputs, the extracted stylesheet is named
// after the css-extract plugin
func (b *Bundler) writeOutputs(target *api.BuildTarget, files []esbuild.OutputFile) ([]Artifact, error) {
	outputDir := b.path(target.OutputPath)
	cssFilename := ""
	if plugin, ok := target.Plugin(api.PluginCSSExtract); ok && plugin.CSS != nil {
		cssFilename = plugin.CSS.Filename
	}

	artifacts := make([]Artifact, 0, len(files))
	for _, file := range files {
		outputPath := file.Path
		if cssFilename != "" && filepath.Ext(outputPath) == ".css" && filepath.Dir(outputPath) == outputDir {
			outputPath = filepath.Join(outputDir, cssFilename)
		}

		artifact, err := b.writeFile(outputPath, file.Contents)
		if err != nil {
			return nil, fmt.Errorf("unable to write %s: %w", b.rel(outputPath), err)
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// staticCopy copies the static files of the plugin into the output directory
func (b *Bundler) staticCopy(target *api.BuildTarget, plugin *api.Plugin) ([]Artifact, error) {
	artifacts := []Artifact{}
	for _, pattern := range plugin.Copy {
		isIgnored, err := ignore.Matches(filepath.ToSlash(pattern.From), plugin.Ignore)
		if err != nil {
			return nil, err
		}
		if isIgnored {
			b.logger.Debugf("Skipping ignored static file %s", pattern.From)
			continue
		}

		content, err := afero.ReadFile(b.fs, b.path(pattern.From))
		if err != nil {
			return nil, fmt.Errorf("unable to copy %s: %w", pattern.From, err)
		}

		artifact, err := b.writeFile(filepath.Join(b.path(target.OutputPath), pattern.To), content)
		if err != nil {
			return nil, fmt.Errorf("unable to copy %s: %w", pattern.From, err)
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// htmlPage renders the page template with the scripts and stylesheets of the target
func (b *Bundler) htmlPage(target *api.BuildTarget, plugin *api.Plugin, outputs []Artifact) (Artifact, error) {
	if plugin.HTML == nil {
		return Artifact{}, fmt.Errorf("html-page plugin of target %s has no page", target.Name)
	}

	content := templates.DefaultIndexHTML
	if plugin.HTML.Template != "" {
		tmpl, err := afero.ReadFile(b.fs, b.path(plugin.HTML.Template))
		if err != nil {
			return Artifact{}, fmt.Errorf("unable to read the page template: %w", err)
		}
		content = string(tmpl)
	}

	page := templates.Page{Title: plugin.HTML.Title}
	outputDir := b.path(target.OutputPath)
	for _, output := range outputs {
		reference, err := filepath.Rel(outputDir, b.path(output.Path))
		if err != nil {
			return Artifact{}, err
		}
		switch filepath.Ext(output.Path) {
		case ".js":
			page.Scripts = append(page.Scripts, filepath.ToSlash(reference))
		case ".css":
			page.Styles = append(page.Styles, filepath.ToSlash(reference))
		}
	}

	rendered, err := templates.RenderPage(content, page)
	if err != nil {
		return Artifact{}, fmt.Errorf("unable to render %s: %w", plugin.HTML.Filename, err)
	}

	return b.writeFile(filepath.Join(outputDir, plugin.HTML.Filename), rendered)
}

// optimizeCSS minifies the stylesheets emitted for the target in place
func (b *Bundler) optimizeCSS(target *api.BuildTarget, plugin *api.Plugin, outputs []Artifact) error {
	optimize := api.CSSOptimize{}
	if plugin.Optimize != nil {
		optimize = *plugin.Optimize
	}
	if optimize.SourceMap {
		b.logger.Warnf("Source maps are not emitted for the stylesheets of %s", target.Name)
	}
	if optimize.DeclarationSorter {
		b.logger.Warnf("Declaration sorting is not supported, the stylesheets of %s keep their declaration order", target.Name)
	}

	for i := range outputs {
		if filepath.Ext(outputs[i].Path) != ".css" {
			continue
		}
		filename := b.path(outputs[i].Path)
		source, err := afero.ReadFile(b.fs, filename)
		if err != nil {
			return err
		}

		result := esbuild.Transform(string(source), esbuild.TransformOptions{
			Loader:           esbuild.LoaderCSS,
			MinifyWhitespace: true,
			MinifySyntax:     optimize.MergeLonghand,
			LegalComments:    esbuild.LegalCommentsNone,
		})
		if len(result.Errors) > 0 {
			return &BuildError{Target: target.Name, Messages: result.Errors}
		}

		artifact, err := b.writeFile(filename, result.Code)
		if err != nil {
			return err
		}
		outputs[i] = artifact
	}
	return nil
}
