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

package metrics

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/handler/fxlcm"
)

var Module = fx.Options( // nolint: gochecknoglobals
	fx.Provide(fx.Annotated{Name: "metrics", Target: newService}),
	fx.Invoke(registerHooks),
)

type hooksArgs struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Configuration
	Logger    zerolog.Logger
	Service   *http.Server `name:"metrics"`
}

func registerHooks(args hooksArgs) {
	if !args.Config.Metrics.Enabled {
		args.Logger.Info().Msg("Metrics service disabled")

		return
	}

	lcm := &fxlcm.LifecycleManager{
		ServiceName:    "metrics",
		ServiceAddress: args.Config.Metrics.Address(),
		Server:         args.Service,
		Logger:         args.Logger,
	}

	args.Lifecycle.Append(
		fx.Hook{
			OnStart: lcm.Start,
			OnStop:  lcm.Stop,
		},
	)
}
