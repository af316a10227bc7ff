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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-resty/resty/v2"
	"github.com/ryanuber/columnize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/bundler"
	"github.com/ghmattimysql/resbuild/deployment"
)

type buildCmdContext struct {
	fs           afero.Fs
	stdout       io.Writer
	runner       bundler.Runner
	reloadClient *resty.Client
	dryRun       bool
}

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle the server, client and UI targets of the resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		targetNames, dryRun, reload, err := buildFlags(cmd.Flags())
		if err != nil {
			return err
		}

		config, err := loadProjectConfig()
		if err != nil {
			return err
		}

		buildCtx := buildCmdContext{
			fs:     afero.NewOsFs(),
			stdout: cmd.OutOrStdout(),
			dryRun: dryRun,
		}
		if reload && !dryRun {
			buildCtx.reloadClient, err = deployment.ReloadClient(config.Reload.URL, config.Reload.Token, Verbose)
			if err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runBuildCmd(ctx, config, targetNames, &buildCtx)
	},
}

func buildFlags(flags *pflag.FlagSet) (targetNames []string, dryRun bool, reload bool, err error) {
	if targetNames, err = flags.GetStringSlice("target"); err != nil {
		return
	}
	if dryRun, err = flags.GetBool("dry-run"); err != nil {
		return
	}
	reload, err = flags.GetBool("reload")
	return
}

func runBuildCmd(ctx context.Context, config *api.ProjectConfig, targetNames []string, buildCtx *buildCmdContext) error {
	targets, err := api.ComposeTargets(config)
	if err != nil {
		return err
	}
	selected, err := targets.Select(targetNames)
	if err != nil {
		return err
	}

	if buildCtx.dryRun {
		fmt.Fprintln(buildCtx.stdout, formatTargets(selected))
		return nil
	}

	options := []bundler.Option{
		bundler.WithWorkingDir(ProjectDir),
		bundler.WithLogger(logger),
		bundler.WithCommands(bundler.Commands{
			Sass:      config.Commands.Sass,
			Component: config.Commands.Component,
		}),
	}
	if buildCtx.runner != nil {
		options = append(options, bundler.WithRunner(buildCtx.runner))
	}
	b := bundler.New(buildCtx.fs, options...)

	logger.Infof("Building %s of %s", strings.Join(selected.Names(), ", "), config.Resource)
	results, err := b.Build(ctx, selected)
	if err != nil {
		return err
	}
	fmt.Fprintln(buildCtx.stdout, formatResults(results))

	if buildCtx.reloadClient != nil {
		if err := deployment.NotifyReload(buildCtx.reloadClient, config.Resource, selected.Names()); err != nil {
			return fmt.Errorf("resource built but not reloaded: %w", err)
		}
		logger.Infof("%s has been reloaded", config.Resource)
	}

	return nil
}

func formatResults(results []*bundler.Result) string {
	var output []string
	row := []string{"TARGET", "FILES", "SIZE", "INPUTS", "TIME"}
	output = append(output, strings.Join(row, "|"))

	warnings := []string{}
	for _, result := range results {
		row := []string{
			color.GreenString(result.Target),
			strconv.Itoa(len(result.Outputs)),
			humanize.Bytes(uint64(result.Bytes())),
			strconv.Itoa(result.Inputs),
			result.Duration.Round(time.Millisecond).String(),
		}
		output = append(output, strings.Join(row, "|"))

		for _, warning := range result.Warnings {
			warnings = append(warnings, color.YellowString("%s: %s", result.Target, warning))
		}
	}

	formatted := columnize.SimpleFormat(output)
	if len(warnings) > 0 {
		formatted += "\n" + strings.Join(warnings, "\n")
	}
	return formatted
}

func init() {
	rootCmd.AddCommand(buildCmd)

	registerBuildFlags(buildCmd.Flags())
}

func registerBuildFlags(flags *pflag.FlagSet) {
	flags.StringSliceP("target", "t", []string{}, "targets to build (default all)")
	flags.Bool("dry-run", false, "print the targets without building them")
	flags.Bool("reload", false, "ask the development server to reload the resource once built")
}
