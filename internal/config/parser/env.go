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

package parser

import (
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/fitlane/gateway/internal/x/stringx"
)

// literal underscores in config keys are escaped with a double
// underscore in the corresponding environment variable, e.g.
// GATEWAYCFG_UPSTREAMS_FILE__STORAGE_URL -> upstreams.file_storage.url
const underscoreEscape = "\x00"

func koanfFromEnv(prefix string) (*koanf.Koanf, error) {
	parser := koanf.New(".")

	provider := env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(key, val string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, prefix))
			key = strings.ReplaceAll(key, "__", underscoreEscape)
			key = strings.ReplaceAll(key, "_", ".")
			key = strings.ReplaceAll(key, underscoreEscape, "_")

			return key, toRealType(val)
		},
	})

	if err := parser.Load(provider, nil); err != nil {
		return nil, err
	}

	return parser, nil
}

// toRealType uses the yaml parser's type guessing to convert env var
// values to the types the decode hooks expect.
func toRealType(val string) any {
	var parsed map[string]any

	yaml.Unmarshal(stringx.ToBytes("val: "+val), &parsed) // nolint: errcheck

	return parsed["val"]
}
