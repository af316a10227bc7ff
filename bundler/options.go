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
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/helper"
)

var engineNames = map[string]esbuild.EngineName{
	"chrome":  esbuild.EngineChrome,
	"edge":    esbuild.EngineEdge,
	"firefox": esbuild.EngineFirefox,
	"ios":     esbuild.EngineIOS,
	"node":    esbuild.EngineNode,
	"safari":  esbuild.EngineSafari,
}

// Options translates a target into esbuild build options
func (b *Bundler) Options(ctx context.Context, target *api.BuildTarget) (esbuild.BuildOptions, error) {
	if target.Rules == nil {
		return esbuild.BuildOptions{}, fmt.Errorf("target %s has no transformation rules", target.Name)
	}

	options := esbuild.BuildOptions{
		EntryPoints:   []string{target.Entry},
		Outfile:       target.OutputFile(),
		AbsWorkingDir: b.workingDir,
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		LogLevel:      esbuild.LogLevelSilent,
		Loader:        map[string]esbuild.Loader{},
	}

	switch target.Environment {
	case api.EnvironmentNode:
		options.Platform = esbuild.PlatformNode
		options.Format = esbuild.FormatCommonJS
		options.External = sortedKeys(target.Externals)
	case api.EnvironmentBrowser:
		options.Platform = esbuild.PlatformBrowser
		options.Format = esbuild.FormatIIFE
	default:
		return esbuild.BuildOptions{}, fmt.Errorf("unsupported environment %q", target.Environment)
	}

	if target.Minify {
		options.MinifyWhitespace = true
		options.MinifyIdentifiers = true
		options.MinifySyntax = true
	}

	for _, rule := range target.Rules.Rules {
		if err := configureRule(&options, rule); err != nil {
			return esbuild.BuildOptions{}, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
	}

	options.Plugins = append(options.Plugins, b.rulesPlugin(ctx, target))
	if len(target.Alias) > 0 {
		options.Plugins = append(options.Plugins, b.aliasPlugin(target))
	}
	if target.Environment == api.EnvironmentBrowser && len(target.Externals) > 0 {
		options.Plugins = append(options.Plugins, externalsPlugin(target.Externals))
	}
	if plugin, ok := target.Plugin(api.PluginComponentLibrary); ok && plugin.Library != nil && plugin.Library.Module != "" {
		options.Plugins = append(options.Plugins, b.componentLibraryPlugin(plugin.Library.Module))
	}

	return options, nil
}

// ruleLoader is the loader of the outermost step producing a module
func ruleLoader(rule *api.TransformRule) (esbuild.Loader, bool) {
	for _, step := range rule.Steps {
		switch step.Name {
		case api.StepScript, api.StepComponent:
			return esbuild.LoaderJS, true
		case api.StepCSS:
			return esbuild.LoaderCSS, true
		case api.StepFile:
			return esbuild.LoaderFile, true
		}
	}
	return esbuild.LoaderNone, false
}

func configureRule(options *esbuild.BuildOptions, rule *api.TransformRule) error {
	loader, ok := ruleLoader(rule)
	if !ok {
		return fmt.Errorf("no step of %v produces a module", rule.StepNames())
	}
	for _, extension := range rule.Extensions {
		options.Loader[extension] = loader
	}

	for _, step := range rule.Steps {
		switch step.Name {
		case api.StepScript:
			engines, err := scriptEngines(step)
			if err != nil {
				return err
			}
			options.Engines = append(options.Engines, engines...)
			if !step.Bool("comments", true) {
				options.LegalComments = esbuild.LegalCommentsNone
			}
			if step.Bool("compact", false) {
				options.MinifyWhitespace = true
			}
		case api.StepFile:
			assetNames, err := fileAssetNames(step)
			if err != nil {
				return err
			}
			options.AssetNames = assetNames
		}
	}
	return nil
}

func scriptEngines(step api.Step) ([]esbuild.Engine, error) {
	versions := step.StringMap("engines")
	engines := []esbuild.Engine{}
	for _, name := range sortedKeys(versions) {
		engineName, ok := engineNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown engine %q", name)
		}
		version, err := helper.SanitizeVersion(versions[name])
		if err != nil {
			return nil, err
		}
		engines = append(engines, esbuild.Engine{Name: engineName, Version: version})
	}
	return engines, nil
}

// fileAssetNames turns `[name].[ext]` under outputPath into the esbuild
// asset name template, esbuild appends the extension itself
func fileAssetNames(step api.Step) (string, error) {
	name := step.String("name")
	if name == "" {
		name = "[name].[ext]"
	}
	name = strings.TrimSuffix(name, ".[ext]")
	if strings.Contains(name, "[ext]") {
		return "", fmt.Errorf("the [ext] placeholder is only supported as a suffix, got %q", step.String("name"))
	}
	name = strings.ReplaceAll(name, "[contenthash]", "[hash]")

	outputPath := path.Clean(step.String("outputPath"))
	publicPath := step.String("publicPath")
	if publicPath != "" && path.Clean(publicPath) != outputPath {
		return "", fmt.Errorf("public path %q must match the output path %q", publicPath, step.String("outputPath"))
	}
	if outputPath == "." {
		return name, nil
	}
	return path.Join(outputPath, name), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
