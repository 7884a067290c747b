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

// Package view renders registry data as plain text for the command line.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/classbook/studentreg"
)

// NoRecords is printed instead of an empty table.
const NoRecords = "No student records found."

var labels = map[studentreg.Field]string{
	studentreg.FieldName:    "Name",
	studentreg.FieldID:      "Student ID",
	studentreg.FieldClass:   "Class",
	studentreg.FieldEmail:   "Email",
	studentreg.FieldContact: "Contact",
	studentreg.FieldAddress: "Address",
}

// Label returns the column title of a field.
func Label(f studentreg.Field) string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Sanitize replaces control characters, so that stored values cannot break
// table alignment or drive the terminal.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// Table writes matches as a table. The first column is the position in the
// full collection, which is what edit and delete expect.
func Table(w io.Writer, matches []studentreg.Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, NoRecords)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, 0, len(studentreg.Fields)+1)
	header = append(header, "#")
	for _, f := range studentreg.Fields {
		header = append(header, Label(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, m := range matches {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprint(m.Position))
		for _, f := range studentreg.Fields {
			row = append(row, Sanitize(m.Record.Value(f)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// Record writes one record as label/value lines.
func Record(w io.Writer, rec studentreg.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range studentreg.Fields {
		fmt.Fprintf(tw, "%s:\t%s\n", Label(f), Sanitize(rec.Value(f)))
	}
	return tw.Flush()
}

// Stats writes the two registry statistics.
func Stats(w io.Writer, total int, today int) error {
	_, err := fmt.Fprintf(w, "Total students: %d\nRegistered today: %d\n", total, today)
	return err
}

// Fingerprint writes the collection fingerprint in the form delete -expect
// accepts.
func Fingerprint(w io.Writer, fp uint64) error {
	_, err := fmt.Fprintf(w, "Fingerprint: %s\n", FormatFingerprint(fp))
	return err
}

// FormatFingerprint renders fp as 16 hex digits.
func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

// FieldErrors writes one line per rejected field, in display order.
func FieldErrors(w io.Writer, errs studentreg.FieldErrors) error {
	for _, f := range studentreg.Fields {
		if msg, ok := errs[f]; ok {
			if _, err := fmt.Fprintf(w, "%s: %s\n", Label(f), msg); err != nil {
				return err
			}
		}
	}
	return nil
}
