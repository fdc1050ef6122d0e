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
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"strings"
	"sync/atomic"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/accesscontext"
	"github.com/fitlane/gateway/internal/gateway"
	"github.com/fitlane/gateway/internal/handler/middleware/http/errorhandler"
	"github.com/fitlane/gateway/internal/headers"
	"github.com/fitlane/gateway/internal/routes"
	"github.com/fitlane/gateway/internal/x/errorchain"
)

type forwarder struct {
	rt http.RoundTripper
	eh errorhandler.ErrorHandler
}

// forward streams the request to the route's upstream service. A
// failure on one request never brings the gateway down and never
// affects requests to other routes. If the upstream response already
// started when the failure happens, no second response is written.
func (f *forwarder) forward(route routes.Route, remainder string, rw http.ResponseWriter, req *http.Request) {
	logger := zerolog.Ctx(req.Context())
	logger.Info().
		Str("_method", req.Method).
		Str("_service", route.Name).
		Str("_upstream", route.Upstream.String()).
		Msg("Forwarding request")

	var headersSent atomic.Bool

	wrapped := httpsnoop.Wrap(rw, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				headersSent.Store(true)

				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(data []byte) (int, error) {
				headersSent.Store(true)

				return next(data)
			}
		},
	})

	proxy := &httputil.ReverseProxy{
		Rewrite:   f.rewriteRequest(route, remainder),
		Transport: f.rt,
		ErrorHandler: func(_ http.ResponseWriter, preq *http.Request, err error) {
			f.handleProxyError(wrapped, preq, route, &headersSent, err)
		},
	}

	proxy.ServeHTTP(wrapped, req)
}

// rewriteRequest builds the outbound request. The path becomes
// "/<service name><remainder>" appended to the upstream's base path and
// the query string travels unchanged. The outbound headers are built
// from scratch: the propagated context headers, the matched route
// prefix and the content type of the body. Nothing else from the
// inbound request leaks to the upstream.
func (f *forwarder) rewriteRequest(route routes.Route, remainder string) func(*httputil.ProxyRequest) {
	return func(pr *httputil.ProxyRequest) {
		out := pr.Out

		out.URL.Scheme = route.Upstream.Scheme
		out.URL.Host = route.Upstream.Host
		out.URL.Path = strings.TrimSuffix(route.Upstream.Path, "/") + route.RewritePath(remainder)
		out.URL.RawPath = ""
		out.Host = route.Upstream.Host

		outHeader := headers.ExtractContext(pr.In.Header)
		outHeader.Set(headers.ForwardedPrefix, route.Prefix)

		// an empty value keeps the transport from injecting its default
		outHeader.Set("User-Agent", "")

		// the content type travels with the body
		if contentType := pr.In.Header.Get("Content-Type"); len(contentType) != 0 {
			outHeader.Set("Content-Type", contentType)
		}

		out.Header = outHeader
	}
}

func (f *forwarder) handleProxyError(
	rw http.ResponseWriter, req *http.Request, route routes.Route, headersSent *atomic.Bool, err error,
) {
	ctx := req.Context()
	logger := zerolog.Ctx(ctx)

	if errors.Is(err, context.Canceled) {
		logger.Debug().Str("_service", route.Name).Msg("Client aborted the request")
		accesscontext.SetError(ctx, err)

		return
	}

	var (
		cErr   error
		netErr net.Error
	)

	if errors.As(err, &netErr) && netErr.Timeout() {
		cErr = errorchain.NewWithMessage(gateway.ErrCommunicationTimeout, "timeout forwarding request").
			CausedBy(&gateway.UpstreamError{Service: route.Name}).
			CausedBy(err)
	} else {
		cErr = errorchain.NewWithMessage(gateway.ErrCommunication, "failed forwarding request").
			CausedBy(&gateway.UpstreamError{Service: route.Name}).
			CausedBy(err)
	}

	logger.Error().Err(err).Str("_service", route.Name).Msg("Proxying error")

	if headersSent.Load() {
		// response transmission already started, a second one would
		// corrupt the stream
		accesscontext.SetError(ctx, cErr)

		return
	}

	f.eh.HandleError(rw, req, cErr)
}
