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
	"github.com/go-viper/mapstructure/v2"

	"github.com/fitlane/gateway/internal/config/parser"
	"github.com/fitlane/gateway/internal/gateway"
	"github.com/fitlane/gateway/internal/validation"
	"github.com/fitlane/gateway/internal/x/errorchain"
)

type (
	// ConfigurationPath is the path to the gateway's config file as given
	// on the command line. Empty means lookup in the default locations.
	ConfigurationPath string

	// EnvVarPrefix is the prefix for environment variables to consider
	// while loading the configuration.
	EnvVarPrefix string
)

type Configuration struct {
	Serve     ServeConfig     `koanf:"serve"`
	Log       LoggingConfig   `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Tracing   TracingConfig   `koanf:"tracing"`
	Upstreams UpstreamsConfig `koanf:"upstreams"`
}

func NewConfiguration(configPath ConfigurationPath, envPrefix EnvVarPrefix) (*Configuration, error) {
	// copy defaults
	result := defaultConfiguration

	err := parser.New(
		parser.WithConfigFile(string(configPath)),
		parser.WithConfigLookupDir("."),
		parser.WithConfigLookupDir("/etc/gateway"),
		parser.WithEnvPrefix(string(envPrefix)),
		parser.WithDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		parser.WithDecodeHookFunc(mapstructure.StringToSliceHookFunc(",")),
		parser.WithDecodeHookFunc(mapstructure.TextUnmarshallerHookFunc()),
		parser.WithDecodeHookFunc(logLevelDecodeHookFunc),
		parser.WithDecodeHookFunc(logFormatDecodeHookFunc),
	).Load(&result)
	if err != nil {
		return nil, errorchain.
			NewWithMessage(gateway.ErrConfiguration, "failed loading configuration").
			CausedBy(err)
	}

	result.Upstreams.applyLegacyEnvVars()

	if err = validation.ValidateStruct(&result); err != nil {
		return nil, errorchain.
			NewWithMessage(gateway.ErrConfiguration, "configuration is invalid").
			CausedBy(err)
	}

	return &result, nil
}

func LogConfiguration(configuration *Configuration) LoggingConfig { return configuration.Log }
