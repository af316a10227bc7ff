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
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/imdario/mergo"
	"github.com/jinzhu/copier"
	"github.com/markbates/pkger"
	"gopkg.in/yaml.v2"
)

// ProjectConfigFilename is the name of the project configuration file
const ProjectConfigFilename = "resbuild.yaml"

// ProjectConfig describes how a resource is built, as loaded from a `resbuild.yaml` file.
type ProjectConfig struct {
	Resource  string
	SourceDir string `yaml:"source_dir"`
	DistDir   string `yaml:"dist_dir"`
	Entries   Entries
	Static    StaticFiles
	UI        UIConfig `yaml:"ui"`
	Script    ScriptConfig
	Styles    StylesConfig
	Fonts     FontsConfig
	Commands  Commands
	Reload    ReloadConfig

	ProjectConfigPath string `yaml:"-"`
}

// Entries are the entry points of the three targets
type Entries struct {
	Server string
	Client string
	UI     string `yaml:"ui"`
}

// StaticFiles are the sources copied verbatim next to the server bundle.
//
// Empty sources are derived from the resource name.
type StaticFiles struct {
	Manifest     string
	ServerScript string `yaml:"server_script"`
	Config       string
	Ignore       []string
}

// UIConfig configures the embedded UI target
type UIConfig struct {
	Template         string
	Title            string
	AliasRoot        string            `yaml:"alias_root"`
	Externals        map[string]string
	ComponentLibrary string `yaml:"component_library"`
}

// ScriptConfig configures the script step
type ScriptConfig struct {
	Engines map[string]string
}

// StylesConfig configures the sass step
type StylesConfig struct {
	Variables string
}

// FontsConfig configures the file step of the font rule
type FontsConfig struct {
	Name       string
	OutputPath string `yaml:"output_path"`
}

// Commands are the external compilers invoked by transformation steps
type Commands struct {
	Sass      string
	Component string
}

// ReloadConfig is the development server notified after a build
type ReloadConfig struct {
	URL   string `yaml:"url"`
	Token string
}

func createProjectConfigFromYamlContent(yamlContent []byte) (*ProjectConfig, error) {
	config := ProjectConfig{}
	err := yaml.Unmarshal(yamlContent, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// CreateDefaultProjectConfig creates a project with the defaults defined in "/api/default_resbuild.yaml"
func CreateDefaultProjectConfig() *ProjectConfig {
	yamlFile, err := pkger.Open("/api/default_resbuild.yaml")
	if err != nil {
		// The defaults are shipped with the binary, not having them is a packaging error
		panic(err)
	}
	defer yamlFile.Close()

	yamlContent, err := ioutil.ReadAll(yamlFile)
	if err != nil {
		panic(err)
	}
	defaultConfig, err := createProjectConfigFromYamlContent(yamlContent)
	if err != nil {
		panic(err)
	}

	return defaultConfig
}

// ExtendDefaultProjectConfig extends the default project configuration with the given config
//
// the given config is left untouched.
func ExtendDefaultProjectConfig(config *ProjectConfig) (*ProjectConfig, error) {
	defaultConfig := CreateDefaultProjectConfig()
	extendedConfig := ProjectConfig{}
	if err := copier.CopyWithOption(&extendedConfig, config, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&extendedConfig, defaultConfig); err != nil {
		return nil, err
	}
	extendedConfig.ProjectConfigPath = config.ProjectConfigPath
	return &extendedConfig, nil
}

// CreateProjectConfigFromYaml creates a new instance of ProjectConfig from a given `resbuild.yaml` file
func CreateProjectConfigFromYaml(filename string) (*ProjectConfig, error) {
	yamlContent, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	loadedConfig, err := createProjectConfigFromYamlContent(yamlContent)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", filename, err)
	}
	loadedConfig.ProjectConfigPath = filename
	return ExtendDefaultProjectConfig(loadedConfig)
}

// LoadProjectConfig loads the configuration of the project in projectDir,
// falling back to the defaults when it has no `resbuild.yaml`
func LoadProjectConfig(projectDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectDir, ProjectConfigFilename)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config, err := ExtendDefaultProjectConfig(&ProjectConfig{})
		if err != nil {
			return nil, err
		}
		config.ProjectConfigPath = configPath
		return config, nil
	}
	return CreateProjectConfigFromYaml(configPath)
}

// OutputDir is the directory receiving the resource, relative to the project
func (p *ProjectConfig) OutputDir() string {
	return filepath.Join(p.DistDir, p.Resource)
}

// StaticSources returns the manifest, server script and config sources
func (p *ProjectConfig) StaticSources() (manifest, serverScript, config string) {
	staticDir := filepath.Join(p.SourceDir, "static")

	manifest = p.Static.Manifest
	if manifest == "" {
		manifest = filepath.Join(staticDir, p.Resource+".lua")
	}
	serverScript = p.Static.ServerScript
	if serverScript == "" {
		serverScript = filepath.Join(staticDir, p.Resource+"-server.lua")
	}
	config = p.Static.Config
	if config == "" {
		config = filepath.Join(staticDir, "config.json")
	}
	return manifest, serverScript, config
}
