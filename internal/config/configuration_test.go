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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlane/gateway/internal/gateway"
)

const validUpstreamsYaml = `
upstreams:
  auth:
    url: http://auth-api:3001
  user:
    url: http://user-api:3002
  payment:
    url: http://payment-api:3003
  subscription:
    url: http://subscription-api:3004
  communication:
    url: http://communication-api:3005
  support:
    url: http://support-api:3006
  file_storage:
    url: http://file-storage-api:3007
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func setLegacyUpstreamEnvVars(t *testing.T) {
	t.Helper()

	t.Setenv("AUTH_API_URL", "http://auth-api:3001")
	t.Setenv("USER_API_URL", "http://user-api:3002")
	t.Setenv("PAYMENT_API_URL", "http://payment-api:3003")
	t.Setenv("SUBSCRIPTION_API_URL", "http://subscription-api:3004")
	t.Setenv("COMMUNICATION_API_URL", "http://communication-api:3005")
	t.Setenv("SUPPORT_API_URL", "http://support-api:3006")
	t.Setenv("FILE_STORAGE_API_URL", "http://file-storage-api:3007")
}

func TestNewConfiguration(t *testing.T) {
	for uc, tc := range map[string]struct {
		setup  func(t *testing.T) ConfigurationPath
		assert func(t *testing.T, err error, conf *Configuration)
	}{
		"defaults with upstreams from the config file": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				return ConfigurationPath(writeConfigFile(t, validUpstreamsYaml))
			},
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)

				assert.Equal(t, ":8080", conf.Serve.Address())
				assert.Equal(t, 5*time.Second, conf.Serve.Timeout.Read)
				assert.Equal(t, 30*time.Second, conf.Serve.Timeout.Write)
				assert.Equal(t, 2*time.Minute, conf.Serve.Timeout.Idle)
				assert.Equal(t, 30*time.Second, conf.Serve.Timeout.Upstream)
				assert.Equal(t, bytesize.KB*4, conf.Serve.BufferLimit.Read)
				assert.Nil(t, conf.Serve.CORS)
				assert.Equal(t, zerolog.InfoLevel, conf.Log.Level)
				assert.Equal(t, LogTextFormat, conf.Log.Format)
				assert.True(t, conf.Metrics.Enabled)
				assert.Equal(t, ":9090", conf.Metrics.Address())
				assert.True(t, conf.Tracing.Enabled)
				assert.Equal(t, "batch", conf.Tracing.Processor)
				assert.Equal(t, "http://auth-api:3001", conf.Upstreams.Auth.URL)
				assert.Equal(t, "http://file-storage-api:3007", conf.Upstreams.FileStorage.URL)
			},
		},
		"config file overrides defaults": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				return ConfigurationPath(writeConfigFile(t, validUpstreamsYaml+`
serve:
  host: 127.0.0.1
  port: 4711
  timeout:
    upstream: 5s
log:
  level: debug
  format: gelf
tracing:
  enabled: false
`))
			},
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)

				assert.Equal(t, "127.0.0.1:4711", conf.Serve.Address())
				assert.Equal(t, 5*time.Second, conf.Serve.Timeout.Upstream)
				assert.Equal(t, zerolog.DebugLevel, conf.Log.Level)
				assert.Equal(t, LogGelfFormat, conf.Log.Format)
				assert.False(t, conf.Tracing.Enabled)
			},
		},
		"prefixed environment variables override the config file": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				t.Setenv("GATEWAYCFG_SERVE_PORT", "9999")
				t.Setenv("GATEWAYCFG_METRICS_ENABLED", "false")
				t.Setenv("GATEWAYCFG_UPSTREAMS_FILE__STORAGE_URL", "http://files.internal:8080")

				return ConfigurationPath(writeConfigFile(t, validUpstreamsYaml+`
serve:
  port: 4711
`))
			},
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)

				assert.Equal(t, 9999, conf.Serve.Port)
				assert.False(t, conf.Metrics.Enabled)
				assert.Equal(t, "http://files.internal:8080", conf.Upstreams.FileStorage.URL)
			},
		},
		"legacy environment variables take precedence over everything": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				setLegacyUpstreamEnvVars(t)
				t.Setenv("PAYMENT_API_URL", "http://payment-api.staging:3003")
				t.Setenv("GATEWAYCFG_UPSTREAMS_PAYMENT_URL", "http://ignored:1")

				return ConfigurationPath(writeConfigFile(t, validUpstreamsYaml))
			},
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)

				assert.Equal(t, "http://payment-api.staging:3003", conf.Upstreams.Payment.URL)
				assert.Equal(t, "http://auth-api:3001", conf.Upstreams.Auth.URL)
			},
		},
		"legacy environment variables alone satisfy the configuration": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				setLegacyUpstreamEnvVars(t)

				return ""
			},
			assert: func(t *testing.T, err error, conf *Configuration) {
				t.Helper()

				require.NoError(t, err)

				assert.Equal(t, "http://user-api:3002", conf.Upstreams.User.URL)
				assert.Equal(t, "http://support-api:3006", conf.Upstreams.Support.URL)
			},
		},
		"missing upstreams fail validation": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				return ""
			},
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, gateway.ErrConfiguration)
				assert.Contains(t, err.Error(), "invalid")
			},
		},
		"non http url fails validation": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				setLegacyUpstreamEnvVars(t)
				t.Setenv("SUPPORT_API_URL", "support-api:3006")

				return ""
			},
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, gateway.ErrConfiguration)
			},
		},
		"out of range port fails validation": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				setLegacyUpstreamEnvVars(t)
				t.Setenv("GATEWAYCFG_SERVE_PORT", "70000")

				return ""
			},
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, gateway.ErrConfiguration)
			},
		},
		"malformed config file": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				return ConfigurationPath(writeConfigFile(t, "serve:\n  port: [not a port"))
			},
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, gateway.ErrConfiguration)
				assert.Contains(t, err.Error(), "failed loading configuration")
			},
		},
		"nonexistent config file": {
			setup: func(t *testing.T) ConfigurationPath {
				t.Helper()

				return ConfigurationPath(filepath.Join(t.TempDir(), "no-such-file.yaml"))
			},
			assert: func(t *testing.T, err error, _ *Configuration) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, gateway.ErrConfiguration)
			},
		},
	} {
		t.Run(uc, func(t *testing.T) {
			path := tc.setup(t)

			conf, err := NewConfiguration(path, "GATEWAYCFG_")

			tc.assert(t, err, conf)
		})
	}
}

func TestLogConfiguration(t *testing.T) {
	t.Parallel()

	conf := &Configuration{Log: LoggingConfig{Level: zerolog.WarnLevel, Format: LogGelfFormat}}

	assert.Equal(t, conf.Log, LogConfiguration(conf))
}
