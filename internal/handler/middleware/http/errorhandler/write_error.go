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

package errorhandler

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/gateway"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorWriter(o *opts, code int) func(rw http.ResponseWriter, req *http.Request, err error) {
	return func(rw http.ResponseWriter, req *http.Request, err error) {
		body := errorBody{Error: http.StatusText(code), Message: messageFor(o, code, err)}

		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(code)

		if encErr := json.NewEncoder(rw).Encode(body); encErr != nil {
			zerolog.Ctx(req.Context()).Warn().Err(encErr).Msg("Failed writing error response")
		}
	}
}

func messageFor(o *opts, code int, err error) string {
	var upstreamErr *gateway.UpstreamError

	switch {
	case errors.As(err, &upstreamErr):
		return upstreamErr.Error()
	case o.verboseErrors:
		return err.Error()
	default:
		return http.StatusText(code)
	}
}
