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

package routes

import (
	"net/url"
	"strings"

	"github.com/fitlane/gateway/internal/config"
	"github.com/fitlane/gateway/internal/gateway"
	"github.com/fitlane/gateway/internal/x/errorchain"
)

// routeDefinitions is the static wiring of the externally exposed API
// surface to the deployed backend services. It is data, not code: the
// complete routing behavior of the gateway is auditable in this single
// table.
var routeDefinitions = []struct { // nolint: gochecknoglobals
	name     string
	prefix   string
	upstream func(config.UpstreamsConfig) config.Upstream
}{
	{"auth", "/api/v1/auth", func(c config.UpstreamsConfig) config.Upstream { return c.Auth }},
	{"users", "/api/v1/users", func(c config.UpstreamsConfig) config.Upstream { return c.User }},
	{"admin/users", "/api/v1/admin/users", func(c config.UpstreamsConfig) config.Upstream { return c.User }},
	{"payments", "/api/v1/payments", func(c config.UpstreamsConfig) config.Upstream { return c.Payment }},
	{"admin/payments", "/api/v1/admin/payments", func(c config.UpstreamsConfig) config.Upstream { return c.Payment }},
	{"credits", "/api/v1/credits", func(c config.UpstreamsConfig) config.Upstream { return c.Payment }},
	{"subscriptions", "/api/v1/subscriptions", func(c config.UpstreamsConfig) config.Upstream { return c.Subscription }},
	{"admin/subscriptions", "/api/v1/admin/subscriptions", func(c config.UpstreamsConfig) config.Upstream { return c.Subscription }},
	{"memberships", "/api/v1/memberships", func(c config.UpstreamsConfig) config.Upstream { return c.Subscription }},
	{"communications", "/api/v1/communications", func(c config.UpstreamsConfig) config.Upstream { return c.Communication }},
	{"admin/communications", "/api/v1/admin/communications", func(c config.UpstreamsConfig) config.Upstream { return c.Communication }},
	{"notifications", "/api/v1/notifications", func(c config.UpstreamsConfig) config.Upstream { return c.Communication }},
	{"problems", "/api/v1/problems", func(c config.UpstreamsConfig) config.Upstream { return c.Support }},
	{"support", "/api/v1/support", func(c config.UpstreamsConfig) config.Upstream { return c.Support }},
	{"admin/support", "/api/v1/admin/support", func(c config.UpstreamsConfig) config.Upstream { return c.Support }},
	{"files", "/api/v1/files", func(c config.UpstreamsConfig) config.Upstream { return c.FileStorage }},
	{"admin/files", "/api/v1/admin/files", func(c config.UpstreamsConfig) config.Upstream { return c.FileStorage }},
	{"uploads", "/api/v1/uploads", func(c config.UpstreamsConfig) config.Upstream { return c.FileStorage }},
}

// Table is the gateway's immutable route table. It is built once at
// startup and only read afterwards, so concurrent lookups need no
// synchronization.
type Table struct {
	entries []Route
}

func NewTable(conf config.UpstreamsConfig) (*Table, error) {
	entries := make([]Route, 0, len(routeDefinitions))

	for _, def := range routeDefinitions {
		upstream := def.upstream(conf)

		target, err := url.Parse(upstream.URL)
		if err != nil {
			return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
				"malformed upstream url for %s service", def.name).CausedBy(err)
		}

		if len(target.Scheme) == 0 || len(target.Host) == 0 {
			return nil, errorchain.NewWithMessagef(gateway.ErrConfiguration,
				"upstream url for %s service has no scheme or host", def.name)
		}

		entries = append(entries, Route{Name: def.name, Prefix: def.prefix, Upstream: target})
	}

	if err := assertDisjointPrefixes(entries); err != nil {
		return nil, err
	}

	return &Table{entries: entries}, nil
}

func (t *Table) Entries() []Route { return t.entries }

// Lookup selects the route whose prefix matches path on a segment
// boundary and returns it along with the path remainder. Prefixes are
// disjoint, so at most one entry can match; the scan is linear over the
// static table.
func (t *Table) Lookup(path string) (Route, string, bool) {
	for _, entry := range t.entries {
		if path == entry.Prefix {
			return entry, "", true
		}

		if strings.HasPrefix(path, entry.Prefix+"/") {
			return entry, path[len(entry.Prefix):], true
		}
	}

	return Route{}, "", false
}

func assertDisjointPrefixes(entries []Route) error {
	for i, a := range entries {
		for _, b := range entries[i+1:] {
			if a.Prefix == b.Prefix {
				return errorchain.NewWithMessagef(gateway.ErrConfiguration,
					"duplicate route prefix %s", a.Prefix)
			}

			if strings.HasPrefix(a.Prefix, b.Prefix+"/") || strings.HasPrefix(b.Prefix, a.Prefix+"/") {
				return errorchain.NewWithMessagef(gateway.ErrConfiguration,
					"route prefixes %s and %s are not disjoint", a.Prefix, b.Prefix)
			}
		}
	}

	return nil
}
