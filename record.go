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
	"strings"
	"unicode"
)

// Field names a record attribute. The value doubles as the JSON key used in
// the persisted collection.
type Field string

// Record fields, in display order.
const (
	FieldName    Field = "name"
	FieldID      Field = "id"
	FieldClass   Field = "class"
	FieldEmail   Field = "email"
	FieldContact Field = "contact"
	FieldAddress Field = "address"
)

// Fields lists every record field in display order.
var Fields = []Field{
	FieldName,
	FieldID,
	FieldClass,
	FieldEmail,
	FieldContact,
	FieldAddress,
}

// Record is one student's registration data. Records held by a Manager have
// passed Validate.
type Record struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Class   string `json:"class"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// RawRecord holds field values as typed by a user, before trimming and
// validation. The struct tags are evaluated by the record validator.
type RawRecord struct {
	Name    string `json:"name" validate:"required,letters"`
	ID      string `json:"id" validate:"required,digits"`
	Class   string `json:"class" validate:"required"`
	Email   string `json:"email" validate:"required,emailshape"`
	Contact string `json:"contact" validate:"required,digits,min=10"`
	Address string `json:"address" validate:"required"`
}

// Raw converts a record back into form input, e.g. to prefill an edit.
func (r Record) Raw() RawRecord {
	return RawRecord(r)
}

// Value returns the value of the given field, or an empty string for an
// unknown field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldID:
		return r.ID
	case FieldClass:
		return r.Class
	case FieldEmail:
		return r.Email
	case FieldContact:
		return r.Contact
	case FieldAddress:
		return r.Address
	}
	return ""
}

// Contains reports whether any field contains the lowercased query. An empty
// query matches every record.
func (r Record) Contains(lowerQuery string) bool {
	for _, f := range Fields {
		if strings.Contains(strings.ToLower(r.Value(f)), lowerQuery) {
			return true
		}
	}
	return false
}

// isSpace matches the whitespace class of the record patterns.
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\uFEFF':
		return true
	}
	return unicode.IsSpace(r)
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func (r RawRecord) trimmed() RawRecord {
	return RawRecord{
		Name:    trim(r.Name),
		ID:      trim(r.ID),
		Class:   trim(r.Class),
		Email:   trim(r.Email),
		Contact: trim(r.Contact),
		Address: trim(r.Address),
	}
}

// Merge returns r with every empty field replaced by the corresponding field
// of base.
func (r RawRecord) Merge(base RawRecord) RawRecord {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return RawRecord{
		Name:    pick(r.Name, base.Name),
		ID:      pick(r.ID, base.ID),
		Class:   pick(r.Class, base.Class),
		Email:   pick(r.Email, base.Email),
		Contact: pick(r.Contact, base.Contact),
		Address: pick(r.Address, base.Address),
	}
}
