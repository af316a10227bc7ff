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

// Package bundler executes build targets with github.com/evanw/esbuild.
//
// Each target is turned into esbuild build options: the transformation rules
// become loaders and load plugins, the alias, externals and component library
// become resolve plugins. Once esbuild is done, the outputs are written
// through an afero filesystem and the emit plugins of the target (static
// copy, HTML page, CSS optimizer) run in declaration order.
package bundler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/helper"
)

// Runner runs an external command, feeding it stdin and returning its stdout
type Runner interface {
	Run(ctx context.Context, dir string, stdin []byte, command string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir string, stdin []byte, command string, args ...string) ([]byte, error) {
	subProcess := exec.CommandContext(ctx, command, args...)
	subProcess.Dir = dir
	subProcess.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	subProcess.Stdout = &stdout
	subProcess.Stderr = &stderr

	if err := subProcess.Run(); err != nil {
		return nil, fmt.Errorf("%s has failed: %w: %s", subProcess.String(), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Commands are the command lines of the external compilers
type Commands struct {
	// Sass reads a stylesheet on stdin and writes css on stdout
	Sass string
	// Component runs from the working directory, receives the component path
	// as last argument, its source on stdin and writes a javascript module on
	// stdout
	Component string
}

// Option configures a Bundler
type Option func(*Bundler)

// WithLogger sets the logger of the bundler
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(b *Bundler) {
		b.logger = logger
	}
}

// WithRunner sets the runner used for external compilers
func WithRunner(runner Runner) Option {
	return func(b *Bundler) {
		b.runner = runner
	}
}

// WithWorkingDir sets the project directory target paths are relative to
func WithWorkingDir(dir string) Option {
	return func(b *Bundler) {
		b.workingDir = dir
	}
}

// WithCommands sets the external compilers
func WithCommands(commands Commands) Option {
	return func(b *Bundler) {
		b.commands = commands
	}
}

// Bundler builds targets
type Bundler struct {
	fs         afero.Fs
	workingDir string
	runner     Runner
	commands   Commands
	logger     *zap.SugaredLogger
}

// New creates a bundler reading sources and writing outputs through fs
func New(fs afero.Fs, opts ...Option) *Bundler {
	b := &Bundler{
		fs:         fs,
		workingDir: ".",
		runner:     execRunner{},
		commands:   Commands{Sass: "sass"},
		logger:     helper.GetSugarLogger([]string{"bundler"}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if absDir, err := filepath.Abs(b.workingDir); err == nil {
		b.workingDir = absDir
	}
	return b
}

// Artifact is a file emitted for a target
type Artifact struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Result summarizes the build of a target
type Result struct {
	Target   string        `json:"target"`
	Outputs  []Artifact    `json:"outputs"`
	Inputs   int           `json:"inputs"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Bytes is the total size of the emitted files
func (r *Result) Bytes() int64 {
	var total int64
	for _, output := range r.Outputs {
		total += output.Bytes
	}
	return total
}

// Build builds every target concurrently, results are in target order.
//
// The first failing target cancels the others.
func (b *Bundler) Build(ctx context.Context, targets api.BuildTargetSet) ([]*Result, error) {
	results := make([]*Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			result, err := b.BuildTarget(ctx, target)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildTarget bundles a single target and runs its emit plugins
func (b *Bundler) BuildTarget(ctx context.Context, target *api.BuildTarget) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := b.logger.With("target", target.Name)
	logger.Debugf("Bundling %s into %s", target.Entry, target.OutputFile())

	options, err := b.Options(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("unable to configure target %s: %w", target.Name, err)
	}

	buildResult := esbuild.Build(options)
	if len(buildResult.Errors) > 0 {
		return nil, &BuildError{Target: target.Name, Messages: buildResult.Errors}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Target: target.Name}
	if !target.QuietStats {
		for _, message := range buildResult.Warnings {
			warning := formatMessage(message)
			logger.Warn(warning)
			result.Warnings = append(result.Warnings, warning)
		}
	}

	result.Outputs, err = b.writeOutputs(target, buildResult.OutputFiles)
	if err != nil {
		return nil, err
	}

	for i := range target.Plugins {
		plugin := &target.Plugins[i]
		switch plugin.Kind {
		case api.PluginStaticCopy:
			copied, err := b.staticCopy(target, plugin)
			if err != nil {
				return nil, err
			}
			result.Outputs = append(result.Outputs, copied...)
		case api.PluginHTMLPage:
			page, err := b.htmlPage(target, plugin, result.Outputs)
			if err != nil {
				return nil, err
			}
			result.Outputs = append(result.Outputs, page)
		case api.PluginCSSOptimize:
			if err := b.optimizeCSS(target, plugin, result.Outputs); err != nil {
				return nil, err
			}
		}
	}

	metafile, err := parseMetafile(buildResult.Metafile)
	if err != nil {
		return nil, fmt.Errorf("unable to read the metafile of target %s: %w", target.Name, err)
	}
	result.Inputs = len(metafile.Inputs)
	result.Duration = time.Since(start)

	logger.Debugf("Bundled %d inputs into %d files", result.Inputs, len(result.Outputs))
	return result, nil
}

// path resolves a project relative path
func (b *Bundler) path(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(b.workingDir, relativePath)
}

// rel turns an absolute path back into a project relative one
func (b *Bundler) rel(absolutePath string) string {
	relativePath, err := filepath.Rel(b.workingDir, absolutePath)
	if err != nil {
		return absolutePath
	}
	return relativePath
}
