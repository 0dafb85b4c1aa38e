/*
 * Copyright 2026 Quartzlane Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging surface passed into every component. Components
// never reach for a package-level logger; the sink is always injected.
type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) Logger
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (z *zeroLogger) Trace() *zerolog.Event { return z.zl.Trace() }
func (z *zeroLogger) Debug() *zerolog.Event { return z.zl.Debug() }
func (z *zeroLogger) Info() *zerolog.Event  { return z.zl.Info() }
func (z *zeroLogger) Warn() *zerolog.Event  { return z.zl.Warn() }
func (z *zeroLogger) Error() *zerolog.Event { return z.zl.Error() }
func (z *zeroLogger) Fatal() *zerolog.Event { return z.zl.Fatal() }
func (z *zeroLogger) With() zerolog.Context { return z.zl.With() }

func (z *zeroLogger) WithComponent(component string) Logger {
	return &zeroLogger{zl: z.zl.With().Str("component", component).Logger()}
}

// NewTestLogger creates a no-op logger for testing that discards all output.
func NewTestLogger() Logger {
	return &zeroLogger{zl: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}
