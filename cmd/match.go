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

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match FILE...",
	Short: "Show which transformation rule applies to the given files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadProjectConfig()
		if err != nil {
			return err
		}
		output, err := runMatchCmd(config, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

func runMatchCmd(config *api.ProjectConfig, files []string) (string, error) {
	rules := api.NewRuleSet(config)
	if err := rules.Compile(); err != nil {
		return "", err
	}

	var output []string
	row := []string{"FILE", "RULE", "STEPS"}
	output = append(output, strings.Join(row, "|"))

	for _, file := range files {
		rule, ok := rules.Match(file)
		if !ok {
			output = append(output, strings.Join([]string{file, "-", "-"}, "|"))
			continue
		}
		output = append(output, strings.Join([]string{file, rule.Name, strings.Join(rule.StepNames(), " < ")}, "|"))
	}
	return columnize.SimpleFormat(output), nil
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
