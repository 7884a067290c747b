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
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NoPosition is passed to Validate and Manager.Submit when the candidate is
// a new record rather than an edit.
const NoPosition = -1

const (
	tagRequired   = "required"
	tagLetters    = "letters"
	tagDigits     = "digits"
	tagEmailShape = "emailshape"
	tagMin        = "min"
	tagUnique     = "unique"
)

// whitespace is the class of characters browsers treat as \s: ASCII
// whitespace including \v, Unicode space separators, the byte order mark and
// the line and paragraph separators.
const whitespace = `\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}`

var (
	reLetters    = regexp.MustCompile(`^[A-Za-z` + whitespace + `]+$`)
	reDigits     = regexp.MustCompile(`^[0-9]+$`)
	reEmailShape = regexp.MustCompile(`^[^@` + whitespace + `]+@[^@` + whitespace + `]+\.[^@` + whitespace + `]+$`)
)

var fieldMessages = map[Field]map[string]string{
	FieldName: {
		tagRequired: "Name is required",
		tagLetters:  "Name must contain only letters",
	},
	FieldID: {
		tagRequired: "Student ID is required",
		tagDigits:   "Student ID must contain only numbers",
		tagUnique:   "Student ID already exists",
	},
	FieldClass: {
		tagRequired: "Class is required",
	},
	FieldEmail: {
		tagRequired:   "Email is required",
		tagEmailShape: "Enter a valid email",
	},
	FieldContact: {
		tagRequired: "Contact number is required",
		tagDigits:   "Only numbers allowed",
		tagMin:      "Minimum 10 digits required",
	},
	FieldAddress: {
		tagRequired: "Address is required",
	},
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so they map onto Field values.
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		return name
	})

	patterns := map[string]*regexp.Regexp{
		tagLetters:    reLetters,
		tagDigits:     reDigits,
		tagEmailShape: reEmailShape,
	}
	for tag, re := range patterns {
		re := re
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("studentreg: registering %q: %v", tag, err))
		}
	}

	return v
}

// FieldErrors maps each rejected field to a human readable message. Only the
// first failing rule of a field is reported.
type FieldErrors map[Field]string

// Error joins all messages in display order.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range Fields {
		if msg, ok := fe[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return strings.Join(parts, "; ")
}

// Has reports whether the given field was rejected.
func (fe FieldErrors) Has(f Field) bool {
	_, ok := fe[f]
	return ok
}

func (fe FieldErrors) reject(f Field, tag string) {
	if fe.Has(f) {
		return
	}
	msg, ok := fieldMessages[f][tag]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", f)
	}
	fe[f] = msg
}

// Validate checks a candidate against the record rules and the current
// collection. exclude is the position of the record being edited, or
// NoPosition for a new record; the record at that position may keep its own
// id. Every field is checked. On success the trimmed record is returned and
// FieldErrors is nil.
func Validate(candidate RawRecord, records []Record, exclude int) (Record, FieldErrors) {
	raw := candidate.trimmed()
	errs := FieldErrors{}

	if err := recordValidator.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			panic(fmt.Sprintf("studentreg: unexpected validator error: %v", err))
		}
		for _, fe := range verrs {
			errs.reject(Field(fe.Field()), fe.Tag())
		}
	}

	if !errs.Has(FieldID) && idTaken(raw.ID, records, exclude) {
		errs.reject(FieldID, tagUnique)
	}

	if len(errs) > 0 {
		return Record{}, errs
	}
	return Record(raw), nil
}

func idTaken(id string, records []Record, exclude int) bool {
	for i := range records {
		if i != exclude && records[i].ID == id {
			return true
		}
	}
	return false
}
