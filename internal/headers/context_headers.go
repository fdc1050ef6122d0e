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

// Package headers defines which inbound headers the gateway propagates
// to the backend services. The allow-list is a fixed literal on
// purpose: the complete propagation contract is auditable here, and a
// "forward everything" design would leak internal headers to upstreams.
package headers

import (
	"net/http"
)

// ForwardedPrefix carries the externally matched route prefix to the
// backend, letting it reconstruct the original external path for link
// generation.
const ForwardedPrefix = "X-Forwarded-Prefix"

// ContextHeaderNames is the fixed, ordered allow-list of user identity,
// session and distributed tracing headers propagated unchanged to the
// upstream request.
var ContextHeaderNames = []string{ // nolint: gochecknoglobals
	"X-User-Id",
	"X-User-Email",
	"X-User-Role",
	"X-Correlation-Id",
	"X-Session-Id",
	"X-Request-Id",
	"X-B3-Traceid",
	"X-B3-Spanid",
	"X-B3-Parentspanid",
	"X-B3-Sampled",
	"X-B3-Flags",
	"X-Ot-Span-Context",
}

// ExtractContext is a pure function over the inbound header collection
// and the allow-list. Only headers actually present are copied - absent
// ones are never synthesized with empty values. Multi-valued instances
// of these headers are not supported and are dropped silently.
func ExtractContext(inbound http.Header) http.Header {
	result := make(http.Header, len(ContextHeaderNames))

	for _, name := range ContextHeaderNames {
		if values := inbound.Values(name); len(values) == 1 {
			result.Set(name, values[0])
		}
	}

	return result
}
