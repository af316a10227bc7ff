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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/templates"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init DESTINATION",
	Short: "Bootstrap a new resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resource, err := cmd.Flags().GetString("resource")
		if err != nil {
			return err
		}
		skip, err := cmd.Flags().GetStringSlice("skip")
		if err != nil {
			return err
		}

		generated, err := runInitCmd(afero.NewOsFs(), args[0], resource, skip)
		if err != nil {
			return err
		}
		for _, file := range generated {
			logger.Debugf("Generated %s", file)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Resource created in %s, run `resbuild build -p %s` to build it\n", args[0], args[0])
		return nil
	},
}

func runInitCmd(fs afero.Fs, destination string, resource string, skip []string) ([]string, error) {
	if resource == "" {
		resource = filepath.Base(destination)
	}
	if resource == "" || resource == "." || resource == string(filepath.Separator) || strings.ContainsAny(resource, " /\\") {
		return nil, fmt.Errorf("%q is not a valid resource name", resource)
	}

	projectConfigPath := filepath.Join(destination, api.ProjectConfigFilename)
	exists, err := afero.Exists(fs, projectConfigPath)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s already exists", projectConfigPath)
	}

	config, err := api.ExtendDefaultProjectConfig(&api.ProjectConfig{
		Resource:          resource,
		ProjectConfigPath: projectConfigPath,
	})
	if err != nil {
		return nil, err
	}
	if config.Commands.Component == "" {
		config.Commands.Component = templates.DefaultComponentCommand
	}

	logger.Infof("Creating resource %s in %s", resource, destination)
	return templates.RecursivelyGenerateFromTemplates(fs, templates.ScaffoldDir, skip, config, destination)
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("resource", "", "resource name (default is the destination directory name)")
	initCmd.Flags().StringSlice("skip", []string{}, "template patterns to skip, e.g. src/ui")
}
