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
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// configFileName is the name looked up in the configured directories
// when no config file is given explicitly.
const configFileName = "gateway.yaml"

type ConfigLoader interface {
	Load(config any) error
}

func New(options ...Option) ConfigLoader {
	loader := &configLoader{}

	for _, opt := range options {
		opt(&loader.o)
	}

	return loader
}

type configLoader struct {
	o opts
}

// Load layers the given config struct (the defaults), the optional yaml
// config file and the environment tree on top of each other, later
// sources winning, and decodes the merged result back into config.
func (c *configLoader) Load(config any) error {
	configFile, err := c.configFile()
	if err != nil {
		return err
	}

	parser, err := koanfFromStruct(config)
	if err != nil {
		return err
	}

	if len(configFile) != 0 {
		konf, err := koanfFromYaml(configFile)
		if err != nil {
			return err
		}

		if err = mergeIn(parser, konf); err != nil {
			return err
		}
	}

	konf, err := koanfFromEnv(c.o.envPrefix)
	if err != nil {
		return err
	}

	if err = mergeIn(parser, konf); err != nil {
		return err
	}

	return parser.UnmarshalWithConf("", config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(c.o.decodeHooks...),
			Metadata:         nil,
			Result:           config,
			WeaklyTypedInput: true,
		},
	})
}

func (c *configLoader) configFile() (string, error) {
	if len(c.o.configFile) != 0 {
		if _, err := os.Stat(c.o.configFile); err != nil {
			return "", err
		}

		return c.o.configFile, nil
	}

	for _, confDir := range c.o.configLookupDirs {
		filePath := filepath.Join(confDir, configFileName)
		if _, err := os.Stat(filePath); err == nil {
			return filePath, nil
		}
	}

	return "", nil
}

func mergeIn(dest *koanf.Koanf, src *koanf.Koanf) error {
	return dest.Load(
		confmap.Provider(src.Raw(), ""),
		nil,
		koanf.WithMergeFunc(func(src, dest map[string]any) error {
			for key, val := range src {
				dest[key] = merge(dest[key], val)
			}

			return nil
		}))
}
