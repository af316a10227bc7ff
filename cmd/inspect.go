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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/helper"
)

// Inspection is the composed configuration as printed by the inspect command
type Inspection struct {
	Resource string               `yaml:"resource" json:"resource"`
	Targets  api.BuildTargetSet   `yaml:"targets" json:"targets"`
	Rules    []*api.TransformRule `yaml:"rules" json:"rules"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [target...]",
	Short: "Print the composed build targets and their transformation rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		config, err := loadProjectConfig()
		if err != nil {
			return err
		}

		output, err := runInspectCmd(config, args, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

func runInspectCmd(config *api.ProjectConfig, targetNames []string, format string) (string, error) {
	targets, err := api.ComposeTargets(config)
	if err != nil {
		return "", err
	}
	selected, err := targets.Select(targetNames)
	if err != nil {
		return "", err
	}

	inspection := Inspection{Resource: config.Resource, Targets: selected, Rules: selected[0].Rules.Rules}

	switch format {
	case "json":
		return helper.PrettyPrint(inspection), nil
	case "yaml":
		content, err := yaml.Marshal(inspection)
		if err != nil {
			return "", err
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("unsupported format %q, expected yaml or json", format)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("format", "f", "yaml", "output format, yaml or json")
}
