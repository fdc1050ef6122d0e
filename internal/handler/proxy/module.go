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

package proxy

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/handler/fxlcm"
)

var Module = fx.Options( // nolint: gochecknoglobals
	fx.Provide(fx.Annotated{Name: "gateway", Target: newService}),
	fx.Invoke(registerHooks),
)

type hooksArgs struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Configuration
	Logger    zerolog.Logger
	Service   *http.Server `name:"gateway"`
}

func registerHooks(args hooksArgs) {
	lcm := &fxlcm.LifecycleManager{
		ServiceName:    "gateway",
		ServiceAddress: args.Config.Serve.Address(),
		Server:         args.Service,
		Logger:         args.Logger,
		TLSConf:        args.Config.Serve.TLS,
	}

	args.Lifecycle.Append(
		fx.Hook{
			OnStart: lcm.Start,
			OnStop:  lcm.Stop,
		},
	)
}
