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

package sqlslot

import (
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var reInvisibleChars = regexp.MustCompile(`[\s\r\n\t]+`)

// queryStatus describes a statement after it ran.
type queryStatus struct {
	Adapter string
	Query   string
	Key     string
	Err     error
	Start   time.Time
	End     time.Time
}

func (q *queryStatus) log(lg logrus.FieldLogger) {
	query := strings.TrimSpace(reInvisibleChars.ReplaceAllString(q.Query, ` `))

	entry := lg.WithFields(logrus.Fields{
		"adapter": q.Adapter,
		"query":   query,
		"slot":    q.Key,
		"elapsed": q.End.Sub(q.Start).String(),
	})
	if q.Err != nil {
		entry.WithError(q.Err).Debug("statement failed")
		return
	}
	entry.Debug("statement")
}
