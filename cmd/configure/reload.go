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

package configure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ghmattimysql/resbuild/helper"
)

// ReloadServer is the development server notified after each build
type ReloadServer struct {
	URL   string
	Token string
}

const defaultReloadURL = "http://localhost:30120"

func NewReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Set the development server reloading resources after a build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runConfigureReloadCmd(afero.NewOsFs(), os.Stdin, cmd.OutOrStdout()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reload server has been saved to %s\n", helper.CfgFile)
			return nil
		},
	}
}

func createReloadServerFromReader(stdin io.Reader, stdout io.Writer) *ReloadServer {
	reader := bufio.NewReader(stdin)
	s := ReloadServer{}

	fmt.Fprintf(stdout, "URL (%s): ", helper.CurrentConfig("reload.url", defaultReloadURL))
	url, _ := reader.ReadString('\n')
	url = strings.TrimSpace(url)
	if len(url) < 1 {
		url = helper.CurrentConfig("reload.url", defaultReloadURL)
	}
	s.URL = url

	fmt.Fprint(stdout, "Token: ")
	token, _ := reader.ReadString('\n')
	s.Token = strings.TrimSpace(token)

	return &s
}

// runConfigureReloadCmd only touches the reload settings of the config file,
// flags and environment variables are never persisted
func runConfigureReloadCmd(fs afero.Fs, stdin io.Reader, stdout io.Writer) error {
	s := createReloadServerFromReader(stdin, stdout)

	settings := viper.New()
	settings.SetFs(fs)
	settings.SetConfigFile(helper.CfgFile)

	exists, err := afero.Exists(fs, helper.CfgFile)
	if err != nil {
		return err
	}
	if exists {
		if err := settings.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config: %w", err)
		}
	}

	settings.Set("reload.url", s.URL)
	settings.Set("reload.token", s.Token)

	if err := settings.WriteConfigAs(helper.CfgFile); err != nil {
		return fmt.Errorf("unable to write config: %w", err)
	}

	return nil
}
