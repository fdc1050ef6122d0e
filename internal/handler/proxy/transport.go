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
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/x/httpx"
)

// newTransport builds the round tripper shared by all forwarded
// requests. ResponseHeaderTimeout bounds the wait for the upstream to
// start responding. The transfer of an already started response is
// intentionally unbounded, large file downloads would break otherwise.
func newTransport(cfg config.ServeConfig) http.RoundTripper {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second, //nolint:mnd
			KeepAlive: 30 * time.Second, //nolint:mnd
		}).DialContext,
		ResponseHeaderTimeout: cfg.Timeout.Upstream,
		MaxIdleConns:          cfg.ConnectionsLimit.MaxIdle,
		MaxIdleConnsPerHost:   cfg.ConnectionsLimit.MaxIdlePerHost,
		MaxConnsPerHost:       cfg.ConnectionsLimit.MaxPerHost,
		IdleConnTimeout:       cfg.Timeout.Idle,
		TLSHandshakeTimeout:   10 * time.Second, //nolint:mnd
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return otelhttp.NewTransport(
		httpx.NewTraceRoundTripper(transport),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s %s @%s", r.Proto, r.Method, r.URL.Path, r.URL.Host)
		}))
}
