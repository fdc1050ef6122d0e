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
	"bytes"
	"crypto/rand"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/routes"
)

type upstreamCall struct {
	Method        string
	Path          string
	RawQuery      string
	Header        http.Header
	Body          []byte
	ContentLength int64
}

type upstreamRecorder struct {
	mu    sync.Mutex
	calls []upstreamCall
}

func (r *upstreamRecorder) record(req *http.Request) upstreamCall {
	body, _ := io.ReadAll(req.Body)

	call := upstreamCall{
		Method:        req.Method,
		Path:          req.URL.Path,
		RawQuery:      req.URL.RawQuery,
		Header:        req.Header.Clone(),
		Body:          body,
		ContentLength: req.ContentLength,
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	return call
}

func (r *upstreamRecorder) lastCall(t *testing.T) upstreamCall {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	require.NotEmpty(t, r.calls)

	return r.calls[len(r.calls)-1]
}

func testConfiguration(upstreams config.UpstreamsConfig, upstreamTimeout time.Duration) *config.Configuration {
	return &config.Configuration{
		Serve: config.ServeConfig{
			Timeout: config.Timeout{
				Read:     5 * time.Second,
				Write:    30 * time.Second,
				Idle:     90 * time.Second,
				Upstream: upstreamTimeout,
			},
		},
		Upstreams: upstreams,
	}
}

func setupGateway(t *testing.T, upstreams config.UpstreamsConfig, upstreamTimeout time.Duration) *httptest.Server {
	t.Helper()

	table, err := routes.NewTable(upstreams)
	require.NoError(t, err)

	service := newService(
		testConfiguration(upstreams, upstreamTimeout),
		table,
		promclient.NewRegistry(),
		zerolog.Nop(),
	)

	srv := httptest.NewServer(service.Handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestForwardingBehavior(t *testing.T) {
	t.Parallel()

	recorder := &upstreamRecorder{}
	upstream := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		recorder.record(req)

		rw.Header().Set("X-Served-By", "test-upstream")
		rw.WriteHeader(http.StatusCreated)
		rw.Write([]byte(`{"result":"created"}`)) //nolint:errcheck
	}))
	t.Cleanup(upstream.Close)

	upstreams := config.UpstreamsConfig{
		Auth:          config.Upstream{URL: upstream.URL},
		User:          config.Upstream{URL: upstream.URL},
		Payment:       config.Upstream{URL: upstream.URL},
		Subscription:  config.Upstream{URL: upstream.URL},
		Communication: config.Upstream{URL: upstream.URL},
		Support:       config.Upstream{URL: upstream.URL},
		FileStorage:   config.Upstream{URL: upstream.URL},
	}
	gw := setupGateway(t, upstreams, 10*time.Second)

	for uc, tc := range map[string]struct {
		request func(t *testing.T) *http.Request
		assert  func(t *testing.T, resp *http.Response, call upstreamCall)
	}{
		"path is rewritten to service name plus remainder": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodGet, gw.URL+"/api/v1/users/42/profile", nil)
				require.NoError(t, err)

				return req
			},
			assert: func(t *testing.T, resp *http.Response, call upstreamCall) {
				t.Helper()

				assert.Equal(t, http.StatusCreated, resp.StatusCode)
				assert.Equal(t, "/users/42/profile", call.Path)
			},
		},
		"exact prefix match yields bare service segment": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodGet, gw.URL+"/api/v1/subscriptions", nil)
				require.NoError(t, err)

				return req
			},
			assert: func(t *testing.T, _ *http.Response, call upstreamCall) {
				t.Helper()

				assert.Equal(t, "/subscriptions", call.Path)
			},
		},
		"admin prefix maps to composed segment": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodDelete, gw.URL+"/api/v1/admin/payments/9", nil)
				require.NoError(t, err)

				return req
			},
			assert: func(t *testing.T, _ *http.Response, call upstreamCall) {
				t.Helper()

				assert.Equal(t, http.MethodDelete, call.Method)
				assert.Equal(t, "/admin/payments/9", call.Path)
			},
		},
		"query string travels unchanged": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodGet, gw.URL+"/api/v1/credits?page=2&size=50", nil)
				require.NoError(t, err)

				return req
			},
			assert: func(t *testing.T, _ *http.Response, call upstreamCall) {
				t.Helper()

				assert.Equal(t, "/credits", call.Path)
				assert.Equal(t, "page=2&size=50", call.RawQuery)
			},
		},
		"only allow listed headers are propagated": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodGet, gw.URL+"/api/v1/notifications", nil)
				require.NoError(t, err)

				req.Header.Set("X-User-Id", "usr-1")
				req.Header.Set("X-User-Role", "member")
				req.Header.Set("X-B3-Traceid", "463ac35c9f6413ad48485a3953bb6124")
				req.Header.Set("Authorization", "Bearer secret")
				req.Header.Set("Cookie", "session=abc")
				req.Header.Set("X-Custom-Header", "nope")

				return req
			},
			assert: func(t *testing.T, _ *http.Response, call upstreamCall) {
				t.Helper()

				assert.Equal(t, "usr-1", call.Header.Get("X-User-Id"))
				assert.Equal(t, "member", call.Header.Get("X-User-Role"))
				assert.Equal(t, "463ac35c9f6413ad48485a3953bb6124", call.Header.Get("X-B3-Traceid"))
				assert.Empty(t, call.Header.Get("Authorization"))
				assert.Empty(t, call.Header.Get("Cookie"))
				assert.Empty(t, call.Header.Get("X-Custom-Header"))
				assert.Empty(t, call.Header.Get("X-User-Email"))
			},
		},
		"forwarded prefix reflects matched route and overrides client value": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodGet, gw.URL+"/api/v1/files/avatar.png", nil)
				require.NoError(t, err)

				req.Header.Set("X-Forwarded-Prefix", "/spoofed")

				return req
			},
			assert: func(t *testing.T, _ *http.Response, call upstreamCall) {
				t.Helper()

				assert.Equal(t, []string{"/api/v1/files"}, call.Header.Values("X-Forwarded-Prefix"))
			},
		},
		"request body arrives bit for bit with matching content length": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				payload := make([]byte, 64*1024)
				_, err := rand.Read(payload)
				require.NoError(t, err)

				req, err := http.NewRequest(http.MethodPost, gw.URL+"/api/v1/uploads", bytes.NewReader(payload))
				require.NoError(t, err)

				req.Header.Set("Content-Type", "application/octet-stream")

				return req
			},
			assert: func(t *testing.T, _ *http.Response, call upstreamCall) {
				t.Helper()

				assert.Len(t, call.Body, 64*1024)
				assert.Equal(t, int64(64*1024), call.ContentLength)
				assert.Equal(t, strconv.Itoa(64*1024), call.Header.Get("Content-Length"))
				assert.Equal(t, "application/octet-stream", call.Header.Get("Content-Type"))
			},
		},
		"upstream response travels back unchanged": {
			request: func(t *testing.T) *http.Request {
				t.Helper()

				req, err := http.NewRequest(http.MethodGet, gw.URL+"/api/v1/support/tickets", nil)
				require.NoError(t, err)

				return req
			},
			assert: func(t *testing.T, resp *http.Response, _ upstreamCall) {
				t.Helper()

				assert.Equal(t, http.StatusCreated, resp.StatusCode)
				assert.Equal(t, "test-upstream", resp.Header.Get("X-Served-By"))

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `{"result":"created"}`, string(body))
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			req := tc.request(t)

			resp, err := gw.Client().Do(req)
			require.NoError(t, err)

			defer resp.Body.Close()

			tc.assert(t, resp, recorder.lastCall(t))
		})
	}
}

func TestFailureIsolation(t *testing.T) {
	t.Parallel()

	recorder := &upstreamRecorder{}
	healthy := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		recorder.record(req)

		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(healthy.Close)

	upstreams := config.UpstreamsConfig{
		Auth:          config.Upstream{URL: healthy.URL},
		User:          config.Upstream{URL: healthy.URL},
		Payment:       config.Upstream{URL: "http://127.0.0.1:1"},
		Subscription:  config.Upstream{URL: healthy.URL},
		Communication: config.Upstream{URL: healthy.URL},
		Support:       config.Upstream{URL: healthy.URL},
		FileStorage:   config.Upstream{URL: healthy.URL},
	}
	gw := setupGateway(t, upstreams, 10*time.Second)

	// unreachable upstream yields a 502 with the service name
	resp, err := gw.Client().Get(gw.URL + "/api/v1/payments/invoices")
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Bad Gateway", body["error"])
	assert.Equal(t, "Unable to reach payments service", body["message"])

	// the gateway survives and other routes are unaffected
	resp2, err := gw.Client().Get(gw.URL + "/api/v1/users/1")
	require.NoError(t, err)

	defer resp2.Body.Close()

	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestMidStreamUpstreamFailure(t *testing.T) {
	t.Parallel()

	// upstream claims a 1MiB body, streams 64KiB and drops the connection
	dying := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		conn, buf, err := rw.(http.Hijacker).Hijack()
		if err != nil {
			return
		}

		defer conn.Close()

		buf.WriteString("HTTP/1.1 200 OK\r\n")                 //nolint:errcheck
		buf.WriteString("Content-Type: application/zip\r\n")   //nolint:errcheck
		buf.WriteString("Content-Length: 1048576\r\n\r\n")     //nolint:errcheck
		buf.Write(bytes.Repeat([]byte{0x42}, 64*1024))         //nolint:errcheck
		buf.Flush()                                            //nolint:errcheck
	}))
	t.Cleanup(dying.Close)

	healthy := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(healthy.Close)

	upstreams := config.UpstreamsConfig{
		Auth:          config.Upstream{URL: healthy.URL},
		User:          config.Upstream{URL: healthy.URL},
		Payment:       config.Upstream{URL: healthy.URL},
		Subscription:  config.Upstream{URL: healthy.URL},
		Communication: config.Upstream{URL: healthy.URL},
		Support:       config.Upstream{URL: healthy.URL},
		FileStorage:   config.Upstream{URL: dying.URL},
	}
	gw := setupGateway(t, upstreams, 10*time.Second)

	resp, err := gw.Client().Get(gw.URL + "/api/v1/files/backup.zip")
	require.NoError(t, err)

	defer resp.Body.Close()

	// the already started upstream response is relayed verbatim, a
	// failure afterwards must not produce a second (502) response
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.Error(t, err)
	assert.Less(t, len(body), 1048576)

	// the gateway survives the aborted transfer
	resp2, err := gw.Client().Get(gw.URL + "/api/v1/users/1")
	require.NoError(t, err)

	defer resp2.Body.Close()

	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestUpstreamHeaderTimeout(t *testing.T) {
	t.Parallel()

	slow := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(500 * time.Millisecond)
		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(slow.Close)

	upstreams := config.UpstreamsConfig{
		Auth:          config.Upstream{URL: slow.URL},
		User:          config.Upstream{URL: slow.URL},
		Payment:       config.Upstream{URL: slow.URL},
		Subscription:  config.Upstream{URL: slow.URL},
		Communication: config.Upstream{URL: slow.URL},
		Support:       config.Upstream{URL: slow.URL},
		FileStorage:   config.Upstream{URL: slow.URL},
	}
	gw := setupGateway(t, upstreams, 100*time.Millisecond)

	resp, err := gw.Client().Get(gw.URL + "/api/v1/auth/login")
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]string

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Unable to reach auth service", body["message"])
}

func TestRequestsToDistinctRoutesAreIndependent(t *testing.T) {
	t.Parallel()

	slow := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(300 * time.Millisecond)
		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(slow.Close)

	fast := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(fast.Close)

	upstreams := config.UpstreamsConfig{
		Auth:          config.Upstream{URL: fast.URL},
		User:          config.Upstream{URL: fast.URL},
		Payment:       config.Upstream{URL: slow.URL},
		Subscription:  config.Upstream{URL: fast.URL},
		Communication: config.Upstream{URL: fast.URL},
		Support:       config.Upstream{URL: fast.URL},
		FileStorage:   config.Upstream{URL: fast.URL},
	}
	gw := setupGateway(t, upstreams, 10*time.Second)

	var wg sync.WaitGroup

	start := time.Now()
	errs := make(chan error, 20)

	for range 10 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			resp, err := gw.Client().Get(gw.URL + "/api/v1/payments/slow")
			if err == nil {
				resp.Body.Close()
			}
			errs <- err
		}()

		go func() {
			defer wg.Done()

			resp, err := gw.Client().Get(gw.URL + "/api/v1/users/fast")
			if err == nil {
				resp.Body.Close()
			}
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// slow route requests ran concurrently, not serialized
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestOwnEndpoints(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstream.Close)

	upstreams := config.UpstreamsConfig{
		Auth:          config.Upstream{URL: upstream.URL},
		User:          config.Upstream{URL: upstream.URL},
		Payment:       config.Upstream{URL: upstream.URL},
		Subscription:  config.Upstream{URL: upstream.URL},
		Communication: config.Upstream{URL: upstream.URL},
		Support:       config.Upstream{URL: upstream.URL},
		FileStorage:   config.Upstream{URL: upstream.URL},
	}
	gw := setupGateway(t, upstreams, 10*time.Second)

	t.Run("health endpoint is served locally", func(t *testing.T) {
		resp, err := gw.Client().Get(gw.URL + "/health")
		require.NoError(t, err)

		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string

		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("unknown path yields not found", func(t *testing.T) {
		resp, err := gw.Client().Get(gw.URL + "/api/v2/users")
		require.NoError(t, err)

		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]string

		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Not Found", body["error"])
	})
}
