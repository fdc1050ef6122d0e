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
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/x/loggeradapter"
)

// ErrLoggerFun is an adapter for promhttp Logger to log errors.
type ErrLoggerFun func(v ...interface{})

func (l ErrLoggerFun) Println(v ...interface{}) { l(v) }

func newService(
	registerer prometheus.Registerer,
	gatherer prometheus.Gatherer,
	log zerolog.Logger,
) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics",
		promhttp.InstrumentMetricHandler(
			registerer,
			promhttp.HandlerFor(
				gatherer,
				promhttp.HandlerOpts{
					Registry: registerer,
					ErrorLog: ErrLoggerFun(func(v ...interface{}) { log.Error().Msg(fmt.Sprint(v...)) }),
				},
			),
		))

	return &http.Server{
		Handler:        mux,
		ReadTimeout:    5 * time.Second,  //nolint:mnd
		WriteTimeout:   10 * time.Second, //nolint:mnd
		IdleTimeout:    90 * time.Second, //nolint:mnd
		MaxHeaderBytes: 4096,             //nolint:mnd
		ErrorLog:       loggeradapter.NewStdLogger(log),
	}
}
