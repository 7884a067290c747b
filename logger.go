// Copyright (c) 2026-present The studentreg authors. All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining
// a copy of this software and associated documentation files (the
// "Software"), to deal in the Software without restriction, including
// without limitation the rights to use, copy, modify, merge, publish,
// distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to
// the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
// LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
// WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package studentreg

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// EnvEnableDebug can be set to a non-empty value to lower the default
// logger to debug level, which prints every mutation and every statement
// sent to a SQL backend.
//
// Example:
//
//	STUDENTREG_DEBUG=1 go test ./...
const (
	EnvEnableDebug = `STUDENTREG_DEBUG`
)

type loggerHolder struct {
	logrus.FieldLogger
}

var defaultLogger atomic.Value

func init() {
	lg := logrus.New()
	if envEnabled(EnvEnableDebug) {
		lg.SetLevel(logrus.DebugLevel)
	}
	SetLogger(lg)
}

// Logger returns the package-wide logger used by managers, stores and
// adapters that were not given one explicitly.
func Logger() logrus.FieldLogger {
	return defaultLogger.Load().(loggerHolder).FieldLogger
}

// SetLogger replaces the package-wide logger. A nil logger discards output.
func SetLogger(lg logrus.FieldLogger) {
	if lg == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		lg = discard
	}
	defaultLogger.Store(loggerHolder{lg})
}
