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

package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/config"
)

func NewLogger(conf config.LoggingConfig) zerolog.Logger {
	if conf.Format == config.LogTextFormat {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(conf.Level)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.TimestampFieldName = "timestamp"
	zerolog.LevelFieldName = "_level_name"
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		return strings.ToUpper(l.String())
	}
	zerolog.MessageFieldName = "short_message"
	zerolog.ErrorFieldName = "full_message"
	zerolog.CallerFieldName = "_caller"

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"

		// nolint
		fmt.Println("Warn: failed to retrieve the hostname: " + err.Error())
	}

	return zerolog.New(os.Stdout).Level(conf.Level).With().
		Str("version", "1.1").
		Str("host", hostname).
		Timestamp().
		Caller().
		Logger().
		Hook(zerolog.HookFunc(func(e *zerolog.Event, level zerolog.Level, _ string) {
			if level != zerolog.NoLevel {
				e.Int8("level", int8(toSyslogLevel(level)))
			}
		}))
}

func toSyslogLevel(level zerolog.Level) int {
	switch level {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return 7 // nolint: mnd
	case zerolog.InfoLevel:
		return 6 // nolint: mnd
	case zerolog.WarnLevel:
		return 4 // nolint: mnd
	case zerolog.ErrorLevel:
		return 3 // nolint: mnd
	case zerolog.FatalLevel:
		return 2 // nolint: mnd
	case zerolog.PanicLevel:
		return 1
	default:
		return 0
	}
}
