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

package studentreg_test

import (
	"testing"

	"github.com/classbook/studentreg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() studentreg.RawRecord {
	return studentreg.RawRecord{
		Name:    "Jane Doe",
		ID:      "1001",
		Class:   "10A",
		Email:   "jane@x.com",
		Contact: "9876543210",
		Address: "12 Main St",
	}
}

func TestValidateAcceptsAndTrims(t *testing.T) {
	raw := studentreg.RawRecord{
		Name:    "  Jane Doe ",
		ID:      " 1001",
		Class:   "10A  ",
		Email:   "\tjane@x.com\n",
		Contact: " 9876543210 ",
		Address: " 12 Main St ",
	}

	rec, errs := studentreg.Validate(raw, nil, studentreg.NoPosition)
	require.Nil(t, errs)
	assert.Equal(t, studentreg.Record{
		Name:    "Jane Doe",
		ID:      "1001",
		Class:   "10A",
		Email:   "jane@x.com",
		Contact: "9876543210",
		Address: "12 Main St",
	}, rec)
}

func TestValidateSingleFieldFailures(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*studentreg.RawRecord)
		field   studentreg.Field
		message string
	}{
		{"empty name", func(r *studentreg.RawRecord) { r.Name = "" }, studentreg.FieldName, "Name is required"},
		{"blank name", func(r *studentreg.RawRecord) { r.Name = "   " }, studentreg.FieldName, "Name is required"},
		{"digits in name", func(r *studentreg.RawRecord) { r.Name = "J4ne" }, studentreg.FieldName, "Name must contain only letters"},
		{"punctuation in name", func(r *studentreg.RawRecord) { r.Name = "O'Brien" }, studentreg.FieldName, "Name must contain only letters"},
		{"empty id", func(r *studentreg.RawRecord) { r.ID = "" }, studentreg.FieldID, "Student ID is required"},
		{"letters in id", func(r *studentreg.RawRecord) { r.ID = "10a" }, studentreg.FieldID, "Student ID must contain only numbers"},
		{"negative id", func(r *studentreg.RawRecord) { r.ID = "-5" }, studentreg.FieldID, "Student ID must contain only numbers"},
		{"empty class", func(r *studentreg.RawRecord) { r.Class = " " }, studentreg.FieldClass, "Class is required"},
		{"empty email", func(r *studentreg.RawRecord) { r.Email = "" }, studentreg.FieldEmail, "Email is required"},
		{"email without dot", func(r *studentreg.RawRecord) { r.Email = "jane@x" }, studentreg.FieldEmail, "Enter a valid email"},
		{"email without at", func(r *studentreg.RawRecord) { r.Email = "jane.x.com" }, studentreg.FieldEmail, "Enter a valid email"},
		{"email with two ats", func(r *studentreg.RawRecord) { r.Email = "a@b@c.com" }, studentreg.FieldEmail, "Enter a valid email"},
		{"email with space", func(r *studentreg.RawRecord) { r.Email = "jane doe@x.com" }, studentreg.FieldEmail, "Enter a valid email"},
		{"empty contact", func(r *studentreg.RawRecord) { r.Contact = "" }, studentreg.FieldContact, "Contact number is required"},
		{"letters in contact", func(r *studentreg.RawRecord) { r.Contact = "98765abc10" }, studentreg.FieldContact, "Only numbers allowed"},
		{"short contact", func(r *studentreg.RawRecord) { r.Contact = "987654321" }, studentreg.FieldContact, "Minimum 10 digits required"},
		{"empty address", func(r *studentreg.RawRecord) { r.Address = "" }, studentreg.FieldAddress, "Address is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(&raw)

			_, errs := studentreg.Validate(raw, nil, studentreg.NoPosition)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.message, errs[tc.field])
		})
	}
}

func TestValidateCollectsEveryField(t *testing.T) {
	_, errs := studentreg.Validate(studentreg.RawRecord{}, nil, studentreg.NoPosition)
	require.Len(t, errs, len(studentreg.Fields))
	for _, f := range studentreg.Fields {
		assert.True(t, errs.Has(f), "expecting an error for %s", f)
	}
	assert.Equal(t,
		"name: Name is required; id: Student ID is required; class: Class is required; "+
			"email: Email is required; contact: Contact number is required; address: Address is required",
		errs.Error())
}

func TestValidateUnicodeSpaces(t *testing.T) {
	for _, name := range []string{"Jane\u00a0Doe", "Jane\u2003Doe", "Jane\vDoe", "Jane\u2028Doe"} {
		raw := validRaw()
		raw.Name = name

		rec, errs := studentreg.Validate(raw, nil, studentreg.NoPosition)
		require.Nil(t, errs, "%q", name)
		assert.Equal(t, name, rec.Name)
	}

	raw := validRaw()
	raw.Name = "\u00a0Jane Doe\ufeff"
	rec, errs := studentreg.Validate(raw, nil, studentreg.NoPosition)
	require.Nil(t, errs)
	assert.Equal(t, "Jane Doe", rec.Name)

	raw = validRaw()
	raw.Email = "jane\u00a0x@x.com"
	_, errs = studentreg.Validate(raw, nil, studentreg.NoPosition)
	assert.True(t, errs.Has(studentreg.FieldEmail))
	assert.Len(t, errs, 1)
}

func TestValidateMinimumContactLength(t *testing.T) {
	raw := validRaw()
	raw.Contact = "0123456789"

	_, errs := studentreg.Validate(raw, nil, studentreg.NoPosition)
	assert.Nil(t, errs)
}

func TestValidateDuplicateID(t *testing.T) {
	existing := []studentreg.Record{
		{Name: "Jane Doe", ID: "1001", Class: "10A", Email: "jane@x.com", Contact: "9876543210", Address: "12 Main St"},
		{Name: "John Roe", ID: "1002", Class: "10B", Email: "john@x.com", Contact: "9876543211", Address: "14 Main St"},
	}

	t.Run("create", func(t *testing.T) {
		raw := validRaw()
		raw.ID = " 1001 "
		raw.Name = "B0b"

		_, errs := studentreg.Validate(raw, existing, studentreg.NoPosition)
		require.Len(t, errs, 2)
		assert.Equal(t, "Student ID already exists", errs[studentreg.FieldID])
		assert.True(t, errs.Has(studentreg.FieldName))
	})

	t.Run("edit keeps own id", func(t *testing.T) {
		raw := existing[0].Raw()
		raw.Class = "10C"

		rec, errs := studentreg.Validate(raw, existing, 0)
		require.Nil(t, errs)
		assert.Equal(t, "10C", rec.Class)
	})

	t.Run("edit takes another record's id", func(t *testing.T) {
		raw := existing[0].Raw()
		raw.ID = "1002"

		_, errs := studentreg.Validate(raw, existing, 0)
		require.Len(t, errs, 1)
		assert.Equal(t, "Student ID already exists", errs[studentreg.FieldID])
	})

	t.Run("pattern error wins over uniqueness", func(t *testing.T) {
		raw := validRaw()
		raw.ID = "1001x"

		_, errs := studentreg.Validate(raw, existing, studentreg.NoPosition)
		assert.Equal(t, "Student ID must contain only numbers", errs[studentreg.FieldID])
	})
}
