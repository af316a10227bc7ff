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
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	ignore "github.com/codeskyblue/dockerignore"
	"github.com/markbates/pkger"
	"github.com/spf13/afero"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/helper"
)

// ScaffoldDir holds the templates of a new resource
const ScaffoldDir = "/templates/scaffold"

// ComponentCompilerScript is the scaffolded compiler of the Vue components
const ComponentCompilerScript = "tools/compile-vue.js"

// DefaultComponentCommand runs ComponentCompilerScript from the resource directory
const DefaultComponentCommand = "node " + ComponentCompilerScript

// ResourcePlaceholder is replaced by the resource name in generated file names
const ResourcePlaceholder = "__resource__"

// This function is only there to let pkger static analysis knows we want to embed the templates file in the binary.
func includeTemplates() {
	pkger.Include("/templates/scaffold")
}

var funcMap = template.FuncMap{
	"snakeify":  helper.Snakeify,
	"kebabify":  helper.Kebabify,
	"pascalify": helper.Pascalify,
}

// GenerateFromTemplate generates a file from a given template and configuration
func GenerateFromTemplate(fs afero.Fs, tmplPath string, config interface{}, outputPath string) error {
	tmplFile, err := pkger.Open(tmplPath)
	if err != nil {
		return err
	}
	defer tmplFile.Close()

	tmplFileContent, err := ioutil.ReadAll(tmplFile)
	if err != nil {
		return err
	}

	t, err := template.New(outputPath).Funcs(funcMap).Parse(string(tmplFileContent))
	if err != nil {
		return err
	}

	var output bytes.Buffer
	if err = t.Execute(&output, config); err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return err
	}
	return afero.WriteFile(fs, outputPath, output.Bytes(), 0644)
}

// RecursivelyGenerateFromTemplates generates a file hierarchy from a template hierarchy
func RecursivelyGenerateFromTemplates(fs afero.Fs, tmplDir string, tmplIgnorePatterns []string, config *api.ProjectConfig, outputDir string) ([]string, error) {
	generated := []string{}
	err := pkger.Walk(tmplDir, func(tmplPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(tmplDir, strings.Split(tmplPath, ":")[1])
		if err != nil {
			return err
		}

		isIgnored, err := ignore.Matches(relativePath, tmplIgnorePatterns)
		if err != nil {
			return err
		}
		if isIgnored {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && filepath.Ext(relativePath) == ".tmpl" {
			outputRelativePath := strings.ReplaceAll(strings.TrimSuffix(relativePath, ".tmpl"), ResourcePlaceholder, config.Resource)
			err = GenerateFromTemplate(fs, tmplPath, config, filepath.Join(outputDir, outputRelativePath))
			if err != nil {
				return err
			}
			generated = append(generated, outputRelativePath)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return generated, nil
}
