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

// Package prometheus implements a middleware observing all requests
// with counters, duration histograms and an in-flight gauge. The
// upstream service name resolved during routing is used as label
// instead of the raw request path to keep the cardinality bounded.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fitlane/gateway/internal/accesscontext"
)

type metricsHandler struct {
	reqCounter   *prometheus.CounterVec
	reqHistogram *prometheus.HistogramVec
	reqInFlight  *prometheus.GaugeVec
}

func New(opts ...Option) func(http.Handler) http.Handler {
	options := defaultOptions

	for _, opt := range opts {
		opt(&options)
	}

	counter := promauto.With(options.registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name:        prometheus.BuildFQName(options.namespace, options.subsystem, "requests_total"),
			Help:        "Count of all http requests by status code, method and upstream service.",
			ConstLabels: options.labels,
		},
		[]string{"status_code", "method", "service"},
	)

	histogram := promauto.With(options.registerer).NewHistogramVec(prometheus.HistogramOpts{
		Name:        prometheus.BuildFQName(options.namespace, options.subsystem, "request_duration_seconds"),
		Help:        "Duration of all HTTP requests by status code, method and upstream service.",
		ConstLabels: options.labels,
		Buckets: []float64{
			0.001, // 1ms
			0.002,
			0.005,
			0.01, // 10ms
			0.02,
			0.05,
			0.1, // 100 ms
			0.2,
			0.5,
			1.0, // 1s
			2.0,
			5.0,
			10.0, // 10s
			15.0,
			20.0,
			30.0,
		},
	},
		[]string{"status_code", "method", "service"},
	)

	gauge := promauto.With(options.registerer).NewGaugeVec(prometheus.GaugeOpts{
		Name:        prometheus.BuildFQName(options.namespace, options.subsystem, "requests_in_progress_total"),
		Help:        "All the requests in progress",
		ConstLabels: options.labels,
	}, []string{"method"})

	handler := &metricsHandler{
		reqCounter:   counter,
		reqHistogram: histogram,
		reqInFlight:  gauge,
	}

	return handler.observeRequest
}

func (h *metricsHandler) observeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		h.reqInFlight.WithLabelValues(req.Method).Inc()
		defer h.reqInFlight.WithLabelValues(req.Method).Dec()

		metrics := httpsnoop.CaptureMetrics(next, rw, req)

		service := accesscontext.Service(req.Context())
		if len(service) == 0 {
			service = "unknown"
		}

		statusCode := strconv.Itoa(metrics.Code)
		h.reqCounter.WithLabelValues(statusCode, req.Method, service).Inc()
		h.reqHistogram.WithLabelValues(statusCode, req.Method, service).
			Observe(float64(metrics.Duration.Nanoseconds()) / float64(time.Second.Nanoseconds()))
	})
}
