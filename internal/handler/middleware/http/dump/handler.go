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

// Package dump implements a middleware writing the full request and
// response exchange to the log. It is active on trace level only and
// is a no-op otherwise.
package dump

import (
	"bytes"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/x/stringx"
)

func New() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			logger := zerolog.Ctx(req.Context())

			if logger.GetLevel() != zerolog.TraceLevel {
				next.ServeHTTP(rw, req)

				return
			}

			contentType := req.Header.Get("Content-Type")
			// body dump would consume streamed payloads
			withBody := req.ContentLength != 0 &&
				!strings.Contains(contentType, "stream") &&
				!strings.Contains(contentType, "application/x-ndjson")

			if dump, err := httputil.DumpRequest(req, withBody); err == nil {
				logger.Trace().Msgf("Request: %s\n", stringx.ToString(dump))
			} else {
				logger.Trace().Err(err).Msg("Failed dumping request")
			}

			var (
				buffer bytes.Buffer
				code   int
			)

			next.ServeHTTP(httpsnoop.Wrap(rw, httpsnoop.Hooks{
				WriteHeader: func(writeHeader httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(statusCode int) {
						code = statusCode

						writeHeader(statusCode)
					}
				},
				Write: func(write httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(data []byte) (int, error) {
						buffer.Write(data)

						return write(data)
					}
				},
			}), req)

			if code == 0 {
				code = http.StatusOK
			}

			logger.Trace().Msgf("Response: %d %s\n%s\n", code, http.StatusText(code), buffer.String())
		})
	}
}
