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

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/accesscontext"
	"github.com/fitlane/gateway/internal/gateway"
	"github.com/fitlane/gateway/internal/handler/middleware/http/errorhandler"
	"github.com/fitlane/gateway/internal/routes"
	"github.com/fitlane/gateway/internal/x/errorchain"
)

// EndpointHealth is served by the gateway itself and never forwarded.
const EndpointHealth = "/health"

type handler struct {
	table *routes.Table
	fwd   *forwarder
	eh    errorhandler.ErrorHandler
}

func newHandler(table *routes.Table, rt http.RoundTripper, eh errorhandler.ErrorHandler) http.Handler {
	return &handler{
		table: table,
		fwd:   &forwarder{rt: rt, eh: eh},
		eh:    eh,
	}
}

func (h *handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := zerolog.Ctx(ctx)

	if req.URL.Path == EndpointHealth {
		h.health(rw, req)

		return
	}

	logger.Debug().
		Str("_method", req.Method).
		Str("_path", req.URL.Path).
		Msg("Gateway endpoint called")

	route, remainder, found := h.table.Lookup(req.URL.Path)
	if !found {
		h.eh.HandleError(rw, req, errorchain.NewWithMessagef(gateway.ErrNoRoute,
			"no route matches %s", req.URL.Path))

		return
	}

	accesscontext.SetService(ctx, route.Name)

	h.fwd.forward(route, remainder, rw, req)
}

func (h *handler) health(rw http.ResponseWriter, req *http.Request) {
	type status struct {
		Status string `json:"status"`
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(rw).Encode(status{Status: "ok"}); err != nil {
		zerolog.Ctx(req.Context()).Warn().Err(err).Msg("Failed writing health response")
	}
}
