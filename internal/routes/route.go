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
)

// Route maps one externally visible path prefix to one backend service.
// Name doubles as the first path segment the backend expects and as the
// service reference in logs and error responses.
type Route struct {
	Name     string
	Prefix   string
	Upstream *url.URL
}

// RewritePath maps the external request path to the path the backend
// service expects. The remainder is whatever was left after stripping
// the matched prefix, including its leading slash if present; an empty
// remainder yields exactly "/<name>".
func (r Route) RewritePath(remainder string) string {
	return "/" + r.Name + remainder
}
