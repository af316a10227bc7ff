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
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ghmattimysql/resbuild/api"
	"github.com/ghmattimysql/resbuild/cmd/configure"
	"github.com/ghmattimysql/resbuild/helper"
)

var Verbose bool
var ProjectDir string

var logger = helper.GetSugarLogger([]string{"cmd"})

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "resbuild",
	Short:        "Build the server, client and UI bundles of a FiveM resource",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		helper.SetVerbose(Verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&helper.CfgFile, "config", "", "config file (default is $HOME/.resbuild.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "verbose output")

	rootCmd.PersistentFlags().StringVarP(&ProjectDir, "project", "p", ".", "resource project directory")

	rootCmd.PersistentFlags().String("resource", "", "resource name, overrides resbuild.yaml")
	helper.CheckError(viper.BindPFlag("resource", rootCmd.PersistentFlags().Lookup("resource")))

	rootCmd.PersistentFlags().String("dist", "", "output directory, overrides resbuild.yaml")
	helper.CheckError(viper.BindPFlag("dist_dir", rootCmd.PersistentFlags().Lookup("dist")))

	rootCmd.AddCommand(configure.NewConfigureCmd())
}

// initConfig reads in the .env file of the project, the config file and ENV variables if set.
func initConfig() {
	configName := ".resbuild"

	// A missing .env is fine, the variables can come from the environment
	_ = godotenv.Load(filepath.Join(ProjectDir, ".env"))

	if helper.CfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(helper.CfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		helper.CheckErrorf(err, "unable to find the home directory")

		// Search config in home directory with name ".resbuild" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)

		helper.CfgFile = path.Join(home, configName+".yaml")
	}

	viper.SetEnvPrefix("resbuild")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); Verbose && err != nil {
		log.Println(err)
	}

	if Verbose {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// loadProjectConfig loads the project configuration then applies the user
// settings, the environment and the flags on top of it
func loadProjectConfig() (*api.ProjectConfig, error) {
	config, err := api.LoadProjectConfig(ProjectDir)
	if err != nil {
		return nil, err
	}
	applyOverrides(config)
	logger.Debugf("Loaded %s for resource %s", config.ProjectConfigPath, config.Resource)
	return config, nil
}

func applyOverrides(config *api.ProjectConfig) {
	config.Resource = helper.CurrentConfig("resource", config.Resource)
	config.DistDir = helper.CurrentConfig("dist_dir", config.DistDir)
	config.Reload.URL = helper.CurrentConfig("reload.url", config.Reload.URL)
	config.Reload.Token = helper.CurrentConfig("reload.token", config.Reload.Token)
	config.Commands.Sass = helper.CurrentConfig("commands.sass", config.Commands.Sass)
	config.Commands.Component = helper.CurrentConfig("commands.component", config.Commands.Component)
}
