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
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"

	"github.com/ghmattimysql/resbuild/api"
)

const externalNamespace = "resbuild-external"

var resolveExtensions = []string{".js", ".vue", ".json", ".css", ".scss", ".sass"}

// rulesPlugin loads the files whose rule needs an external compiler
func (b *Bundler) rulesPlugin(ctx context.Context, target *api.BuildTarget) esbuild.Plugin {
	return esbuild.Plugin{
		Name: "resbuild-rules",
		Setup: func(build esbuild.PluginBuild) {
			for _, rule := range target.Rules.Rules {
				if !rule.HasStep(api.StepSass) && !rule.HasStep(api.StepComponent) {
					continue
				}
				rule := rule
				build.OnLoad(esbuild.OnLoadOptions{Filter: rule.Test, Namespace: "file"},
					func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
						return b.loadWithRule(ctx, target, rule, args.Path)
					})
			}
		},
	}
}

func (b *Bundler) loadWithRule(ctx context.Context, target *api.BuildTarget, rule *api.TransformRule, filename string) (esbuild.OnLoadResult, error) {
	source, err := afero.ReadFile(b.fs, filename)
	if err != nil {
		return esbuild.OnLoadResult{}, err
	}

	contents, loader, err := b.transform(ctx, target, rule, filename, source)
	if err != nil {
		return esbuild.OnLoadResult{}, err
	}

	result := string(contents)
	return esbuild.OnLoadResult{
		Contents:   &result,
		Loader:     loader,
		ResolveDir: filepath.Dir(filename),
	}, nil
}

// transform applies the steps of a rule to a source, last step first
func (b *Bundler) transform(ctx context.Context, target *api.BuildTarget, rule *api.TransformRule, filename string, source []byte) ([]byte, esbuild.Loader, error) {
	contents := source
	loader := esbuild.LoaderNone

	for i := len(rule.Steps) - 1; i >= 0; i-- {
		step := rule.Steps[i]
		var err error
		switch step.Name {
		case api.StepSass:
			contents, err = b.compileSass(ctx, target, step, filename, contents)
		case api.StepComponent:
			contents, err = b.compileComponent(ctx, target, filename, contents)
			loader = esbuild.LoaderJS
		case api.StepScript:
			loader = esbuild.LoaderJS
		case api.StepCSS:
			loader = esbuild.LoaderCSS
		case api.StepFile:
			loader = esbuild.LoaderFile
		case api.StepCSSExtract:
		default:
			err = fmt.Errorf("unknown step %q", step.Name)
		}
		if err != nil {
			return nil, esbuild.LoaderNone, fmt.Errorf("%s of %s: %w", step.Name, b.rel(filename), err)
		}
	}

	if loader == esbuild.LoaderNone {
		return nil, loader, fmt.Errorf("rule %s does not produce a module for %s", rule.Name, b.rel(filename))
	}
	return contents, loader, nil
}

func (b *Bundler) compileSass(ctx context.Context, target *api.BuildTarget, step api.Step, filename string, source []byte) ([]byte, error) {
	command := strings.Fields(b.commands.Sass)
	if len(command) == 0 {
		return nil, fmt.Errorf("%w for sass", ErrNoCompiler)
	}

	dir := filepath.Dir(filename)
	args := append(command[1:], "--stdin", "--no-source-map", "--load-path", dir)
	for _, prefix := range sortedKeys(target.Alias) {
		args = append(args, "--load-path", b.path(target.Alias[prefix]))
	}
	if step.Bool("indented", false) {
		args = append(args, "--indented")
	}

	input := string(source)
	if prelude := step.String("prelude"); prelude != "" {
		input = prelude + "\n" + input
	}

	return b.runner.Run(ctx, dir, []byte(b.expandAlias(target, input)), command[0], args...)
}

func (b *Bundler) compileComponent(ctx context.Context, target *api.BuildTarget, filename string, source []byte) ([]byte, error) {
	if _, ok := target.Plugin(api.PluginComponentCompiler); !ok {
		return nil, fmt.Errorf("target %s does not compile components", target.Name)
	}
	command := strings.Fields(b.commands.Component)
	if len(command) == 0 {
		return nil, fmt.Errorf("%w for components, set commands.component in %s", ErrNoCompiler, api.ProjectConfigFilename)
	}

	args := append(command[1:], filename)
	return b.runner.Run(ctx, b.workingDir, source, command[0], args...)
}

// expandAlias rewrites quoted aliased imports into absolute paths
func (b *Bundler) expandAlias(target *api.BuildTarget, source string) string {
	for _, prefix := range sortedKeys(target.Alias) {
		root := filepath.ToSlash(b.path(target.Alias[prefix]))
		for _, quote := range []string{"'", `"`} {
			source = strings.ReplaceAll(source, quote+prefix+"/", quote+root+"/")
		}
	}
	return source
}

func aliasPrefixes(alias map[string]string) []string {
	prefixes := sortedKeys(alias)
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i]) > len(prefixes[j])
	})
	return prefixes
}

func (b *Bundler) aliasPlugin(target *api.BuildTarget) esbuild.Plugin {
	prefixes := aliasPrefixes(target.Alias)
	quoted := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		quoted = append(quoted, regexp.QuoteMeta(prefix))
	}
	filter := "^(" + strings.Join(quoted, "|") + ")/"

	return esbuild.Plugin{
		Name: "resbuild-alias",
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: filter},
				func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
					resolved, err := b.resolveAlias(target, prefixes, args.Path)
					if err != nil {
						return esbuild.OnResolveResult{}, err
					}
					return esbuild.OnResolveResult{Path: resolved}, nil
				})
		},
	}
}

func (b *Bundler) resolveAlias(target *api.BuildTarget, prefixes []string, importPath string) (string, error) {
	for _, prefix := range prefixes {
		if !strings.HasPrefix(importPath, prefix+"/") {
			continue
		}
		rest := strings.TrimPrefix(importPath, prefix+"/")
		return b.resolveFile(filepath.Join(b.path(target.Alias[prefix]), filepath.FromSlash(rest)))
	}
	return "", fmt.Errorf("no alias for %s", importPath)
}

// resolveFile looks for base as a file, then with a known extension, then as
// a directory index
func (b *Bundler) resolveFile(base string) (string, error) {
	candidates := []string{base}
	for _, extension := range resolveExtensions {
		candidates = append(candidates, base+extension)
	}
	for _, extension := range resolveExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+extension))
	}

	for _, candidate := range candidates {
		info, err := b.fs.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unable to resolve %s", b.rel(base))
}

// externalsPlugin maps browser externals to globals of the page
func externalsPlugin(externals map[string]string) esbuild.Plugin {
	names := sortedKeys(externals)
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	filter := "^(" + strings.Join(quoted, "|") + ")$"

	return esbuild.Plugin{
		Name: "resbuild-externals",
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: filter},
				func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
					return esbuild.OnResolveResult{Path: args.Path, Namespace: externalNamespace}, nil
				})
			build.OnLoad(esbuild.OnLoadOptions{Filter: ".*", Namespace: externalNamespace},
				func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
					contents := externalModule(externals[args.Path])
					return esbuild.OnLoadResult{Contents: &contents, Loader: esbuild.LoaderJS}, nil
				})
		},
	}
}

func externalModule(global string) string {
	return fmt.Sprintf("module.exports = globalThis[%q];", global)
}

// componentLibraryPlugin resolves the component library to its tree-shakable build
func (b *Bundler) componentLibraryPlugin(module string) esbuild.Plugin {
	return esbuild.Plugin{
		Name: "resbuild-component-library",
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: "^" + regexp.QuoteMeta(module) + "$"},
				func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
					return esbuild.OnResolveResult{Path: b.componentLibraryEntry(module)}, nil
				})
		},
	}
}

// componentLibraryEntry is empty when the library is not installed, esbuild
// then falls back to its own resolution
func (b *Bundler) componentLibraryEntry(module string) string {
	entry := b.path(filepath.Join("node_modules", module, "lib", "index.js"))
	if exists, err := afero.Exists(b.fs, entry); err != nil || !exists {
		return ""
	}
	return entry
}
