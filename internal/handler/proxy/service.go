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
	"fmt"
	"net/http"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/justinas/alice"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/handler/middleware/http/accesslog"
	"github.com/fitlane/gateway/internal/handler/middleware/http/dump"
	"github.com/fitlane/gateway/internal/handler/middleware/http/errorhandler"
	"github.com/fitlane/gateway/internal/handler/middleware/http/logger"
	"github.com/fitlane/gateway/internal/handler/middleware/http/passthrough"
	"github.com/fitlane/gateway/internal/handler/middleware/http/prometheus"
	"github.com/fitlane/gateway/internal/handler/middleware/http/recovery"
	"github.com/fitlane/gateway/internal/routes"
	"github.com/fitlane/gateway/internal/x"
	"github.com/fitlane/gateway/internal/x/httpx"
	"github.com/fitlane/gateway/internal/x/loggeradapter"
)

func newService(
	conf *config.Configuration,
	table *routes.Table,
	registerer promclient.Registerer,
	log zerolog.Logger,
) *http.Server {
	cfg := conf.Serve
	eh := errorhandler.New(
		errorhandler.WithVerboseErrors(cfg.Respond.Verbose),
		errorhandler.WithPreconditionErrorCode(cfg.Respond.With.ArgumentError.Code),
		errorhandler.WithCommunicationErrorCode(cfg.Respond.With.CommunicationError.Code),
		errorhandler.WithNoRouteErrorCode(cfg.Respond.With.NoRouteError.Code),
		errorhandler.WithInternalServerErrorCode(cfg.Respond.With.InternalError.Code),
	)

	hc := alice.New(
		recovery.New(eh),
		otelhttp.NewMiddleware("",
			otelhttp.WithServerName(cfg.Address()),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return fmt.Sprintf("EntryPoint %s %s%s",
					strings.ToLower(req.URL.Scheme), httpx.LocalAddress(req), req.URL.Path)
			}),
		),
		prometheus.New(
			prometheus.WithRegisterer(registerer),
			prometheus.WithSubsystem("gateway"),
		),
		accesslog.New(log),
		logger.New(log),
		dump.New(),
		x.IfThenElseExec(cfg.CORS != nil,
			func() func(http.Handler) http.Handler {
				return cors.New(
					cors.Options{
						AllowedOrigins:   cfg.CORS.AllowedOrigins,
						AllowedMethods:   cfg.CORS.AllowedMethods,
						AllowedHeaders:   cfg.CORS.AllowedHeaders,
						AllowCredentials: cfg.CORS.AllowCredentials,
						ExposedHeaders:   cfg.CORS.ExposedHeaders,
						MaxAge:           int(cfg.CORS.MaxAge.Seconds()),
					},
				).Handler
			},
			func() func(http.Handler) http.Handler { return passthrough.New },
		),
	).Then(newHandler(table, newTransport(cfg), eh))

	return &http.Server{
		Handler:        hc,
		ReadTimeout:    cfg.Timeout.Read,
		WriteTimeout:   cfg.Timeout.Write,
		IdleTimeout:    cfg.Timeout.Idle,
		MaxHeaderBytes: safecast.MustConvert[int](uint64(cfg.BufferLimit.Read)),
		ErrorLog:       loggeradapter.NewStdLogger(log),
	}
}
