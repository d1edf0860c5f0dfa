/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package main is the parley command.
//
//   parley chat -p patterns/
//   parley serve -p patterns/ --storage parley.db
//   parley match 'CREATE * USERS' 'create 10 users'
//   parley render -p patterns/ --format dot | dot -Tpng > g.png
//   parley analyze -p patterns/
//   parley expect tests/hello.yaml -p patterns/
//
// Configuration comes from flags, PARLEY_* environment variables,
// and an optional parley.yaml.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the state shared by the subcommands.
type app struct {
	configFile string
	v          *viper.Viper
	cfg        *Config
	logger     *zap.Logger
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func newRootCmd() *cobra.Command {
	a := &app{
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:   "parley",
		Short: "A deterministic pattern-matching dialogue engine",
		Long: `parley matches input against categories of wildcard patterns and
responds by evaluating the winning category's template.  Templates can
set variables, redirect, ask for confirmation, offer choices, suggest
patterns to learn, and request workflows.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.v = newViper(a.configFile)
			for key, flag := range map[string]string{
				"patterns":     "patterns",
				"max_depth":    "max-depth",
				"learned":      "learned",
				"storage.path": "storage",
				"log.verbose":  "verbose",
			} {
				if f := cmd.Flags().Lookup(flag); f != nil {
					if err := a.v.BindPFlag(key, f); err != nil {
						return err
					}
				}
			}
			cfg, err := loadConfig(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.logger, err = newLogger(cfg.Log.Verbose); err != nil {
				return fmt.Errorf("making logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./parley.yaml if present)")
	flags.BoolP("verbose", "v", false, "debug logging")
	flags.StringSliceP("patterns", "p", nil, "category files and directories")
	flags.Int("max-depth", 10, "maximum srai recursion depth")
	flags.String("learned", "", "file for learned categories")
	flags.String("storage", "", "conversation storage (bbolt file or .json file)")

	root.AddCommand(
		chatCmd(a),
		serveCmd(a),
		matchCmd(a),
		renderCmd(a),
		analyzeCmd(a),
		expectCmd(a),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	root := newRootCmd()
	root.SetContext(ctx)

	err := root.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
