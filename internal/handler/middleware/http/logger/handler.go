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

// Package logger provides a middleware making a request scoped logger
// available via the request context. If a trace span is active, its
// trace and span ids become part of every log entry written with that
// logger.
package logger

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/x/opentelemetry/tracecontext"
)

func New(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			logCtx := logger.With()

			if traceCtx := tracecontext.Extract(ctx); traceCtx != nil {
				logCtx = logCtx.
					Str("_trace_id", traceCtx.TraceID).
					Str("_span_id", traceCtx.SpanID)

				if len(traceCtx.ParentID) != 0 {
					logCtx = logCtx.Str("_parent_id", traceCtx.ParentID)
				}
			}

			reqLogger := logCtx.Logger()

			next.ServeHTTP(rw, req.WithContext(reqLogger.WithContext(ctx)))
		})
	}
}
