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

import "os"

type Upstream struct {
	URL string `koanf:"url" validate:"required,http_url"`
}

// UpstreamsConfig holds the base URLs of the backend services the
// gateway proxies to. One entry per deployed service, not per route -
// several routes share an upstream.
type UpstreamsConfig struct {
	Auth          Upstream `koanf:"auth"`
	User          Upstream `koanf:"user"`
	Payment       Upstream `koanf:"payment"`
	Subscription  Upstream `koanf:"subscription"`
	Communication Upstream `koanf:"communication"`
	Support       Upstream `koanf:"support"`
	FileStorage   Upstream `koanf:"file_storage"`
}

// applyLegacyEnvVars overlays the plain environment variable names the
// platform deployments have always used. These take precedence over
// values from the config file and the prefixed environment tree. The
// mapping is deliberately spelled out variable by variable to keep it
// auditable.
func (c *UpstreamsConfig) applyLegacyEnvVars() {
	overlay := func(target *Upstream, envVar string) {
		if value := os.Getenv(envVar); len(value) != 0 {
			target.URL = value
		}
	}

	overlay(&c.Auth, "AUTH_API_URL")
	overlay(&c.User, "USER_API_URL")
	overlay(&c.Payment, "PAYMENT_API_URL")
	overlay(&c.Subscription, "SUBSCRIPTION_API_URL")
	overlay(&c.Communication, "COMMUNICATION_API_URL")
	overlay(&c.Support, "SUPPORT_API_URL")
	overlay(&c.FileStorage, "FILE_STORAGE_API_URL")
}
