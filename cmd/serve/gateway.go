// Copyright 2024 the fitlane authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/fitlane/gateway/cmd/flags"
	"github.com/fitlane/gateway/internal"
	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/handler/proxy"
)

// NewGatewayCommand represents the gateway command.
func NewGatewayCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "gateway",
		Short:   "Starts the reverse proxy forwarding requests to the platform services",
		Example: "gateway serve gateway",
		Run: func(cmd *cobra.Command, _ []string) {
			app, err := createGatewayApp(cmd)
			if err != nil {
				cmd.PrintErrf("Failed to initialize gateway service: %v", err)

				os.Exit(1)
			}

			app.Run()
		},
	}
}

func createGatewayApp(cmd *cobra.Command) (*fx.App, error) {
	configPath, _ := cmd.Flags().GetString(flags.Config)
	envPrefix, _ := cmd.Flags().GetString(flags.EnvironmentConfigPrefix)

	app := fx.New(
		fx.NopLogger,
		fx.Supply(
			config.ConfigurationPath(configPath),
			config.EnvVarPrefix(envPrefix),
		),
		internal.Module,
		proxy.Module,
	)

	return app, app.Err()
}
