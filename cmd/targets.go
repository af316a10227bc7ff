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
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/ghmattimysql/resbuild/api"
)

// targetsCmd represents the targets command
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the build targets of the resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadProjectConfig()
		if err != nil {
			return err
		}
		targets, err := api.ComposeTargets(config)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatTargets(targets))
		return nil
	},
}

func formatTargets(targets api.BuildTargetSet) string {
	var output []string
	row := []string{"NAME", "ENVIRONMENT", "ENTRY", "OUTPUT", "MINIFY", "PLUGINS"}
	output = append(output, strings.Join(row, "|"))

	for _, target := range targets {
		plugins := "-"
		if len(target.Plugins) > 0 {
			plugins = strings.Join(target.PluginKinds(), ",")
		}
		row := []string{
			target.Name,
			string(target.Environment),
			target.Entry,
			target.OutputFile(),
			fmt.Sprintf("%t", target.Minify),
			plugins,
		}
		output = append(output, strings.Join(row, "|"))
	}
	return columnize.SimpleFormat(output)
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
