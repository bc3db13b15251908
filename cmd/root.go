// Copyright 2024 The gcsclient Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gcsclient/gcsclient/cfg"
	"github.com/gcsclient/gcsclient/internal/logger"
)

var (
	rootViper *viper.Viper
	config    cfg.Config
	cfgFile   string
)

var rootCmd = &cobra.Command{
	Use:   "gcsc",
	Short: "Inspect and manage Google Cloud Storage buckets and objects",
	Long: `gcsc talks to the Cloud Storage JSON API directly: listing buckets and
objects, printing resource attributes and deleting resources, with uniform
retries on transient failures.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		logger.SetLogFormat(config.Logging.Format)
		if config.Logging.FilePath != "" {
			logger.InitLogFile(config.Logging.FilePath, config.Logging.Format, 0)
		}
		logger.SetLogSeverity(config.Logging.Severity)
		return nil
	},
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gcsc: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")

	var err error
	if rootViper, err = cfg.BindFlags(rootCmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}
}

func loadConfig() error {
	if cfgFile != "" {
		rootViper.SetConfigFile(cfgFile)
		rootViper.SetConfigType("yaml")
		if err := rootViper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	err := rootViper.Unmarshal(&config, viper.DecodeHook(cfg.DecodeHook()), func(decoderConfig *mapstructure.DecoderConfig) {
		decoderConfig.TagName = "yaml"
	})
	if err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg.ValidateConfig(&config)
}
