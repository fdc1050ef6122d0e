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

package recovery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlane/gateway/internal/handler/middleware/http/errorhandler"
)

func TestHandlerExecution(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		next   http.Handler
		assert func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		"successful execution": {
			next: http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
				rw.WriteHeader(http.StatusNoContent)
			}),
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusNoContent, rec.Code)
			},
		},
		"panic with an error value": {
			next: http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				panic(http.ErrBodyNotAllowed)
			}),
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), "Internal Server Error")
			},
		},
		"panic with an arbitrary value": {
			next: http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				panic("something broke")
			}),
			assert: func(t *testing.T, rec *httptest.ResponseRecorder) {
				t.Helper()

				assert.Equal(t, http.StatusInternalServerError, rec.Code)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			New(errorhandler.New())(tc.next).ServeHTTP(rec, req)

			tc.assert(t, rec)
		})
	}
}

func TestAbortPanicIsNotSwallowed(t *testing.T) {
	t.Parallel()

	handler := New(errorhandler.New())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	})
}
