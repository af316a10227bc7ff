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
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the built resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadProjectConfig()
		if err != nil {
			return err
		}
		removed, err := runCleanCmd(afero.NewOsFs(), ProjectDir, config)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed)
		return nil
	},
}

func runCleanCmd(fs afero.Fs, projectDir string, config *api.ProjectConfig) (string, error) {
	if config.Resource == "" {
		return "", fmt.Errorf("the project configuration doesn't name a resource")
	}
	outputDir := filepath.Clean(config.OutputDir())
	escapes := outputDir == ".." || strings.HasPrefix(outputDir, ".."+string(filepath.Separator))
	if filepath.IsAbs(outputDir) || escapes || outputDir == "." || outputDir == filepath.Clean(config.SourceDir) {
		return "", fmt.Errorf("refusing to remove %s", outputDir)
	}

	if err := fs.RemoveAll(filepath.Join(projectDir, outputDir)); err != nil {
		return "", err
	}
	return outputDir, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
