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

package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrArgument             = errors.New("argument error")
	ErrCommunication        = errors.New("communication error")
	ErrCommunicationTimeout = errors.New("communication timeout error")
	ErrConfiguration        = errors.New("configuration error")
	ErrInternal             = errors.New("internal error")
	ErrNoRoute              = errors.New("no route found")
)

// UpstreamError is raised when the proxied call to a backend service
// could not be established or broke before any response headers were
// received. Service carries the logical service name only, never the
// configured upstream URL.
type UpstreamError struct {
	Service string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Unable to reach %s service", e.Service)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrCommunication }
