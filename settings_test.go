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
	"os"
	"path/filepath"
	"testing"

	"github.com/classbook/studentreg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	for _, name := range []string{studentreg.EnvAdapter, studentreg.EnvURL, studentreg.EnvLogLevel} {
		t.Setenv(name, "")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := studentreg.LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, studentreg.DefaultSettings(), s)

	s, err = studentreg.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, studentreg.DefaultSettings(), s)
}

func TestLoadSettingsFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "studentreg.yaml")
	err := os.WriteFile(path, []byte("adapter: memory\nurl: memory://school\n"), 0o600)
	require.NoError(t, err)

	s, err := studentreg.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Adapter)
	assert.Equal(t, "memory://school", s.URL)
	assert.Equal(t, "info", s.LogLevel)

	t.Setenv(studentreg.EnvURL, "memory://override")
	t.Setenv(studentreg.EnvLogLevel, "debug")

	s, err = studentreg.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "memory://override", s.URL)

	level, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("adapter: [unterminated"), 0o600))

	_, err := studentreg.LoadSettings(path)
	assert.Error(t, err)
}

func TestSettingsOpen(t *testing.T) {
	_, err := studentreg.Settings{Adapter: "carrier-pigeon", URL: "coo://"}.Open()
	assert.ErrorIs(t, err, studentreg.ErrUnknownAdapter)

	_, err = studentreg.Settings{Adapter: "memory"}.Open()
	assert.ErrorIs(t, err, studentreg.ErrMissingConnURL)

	b, err := studentreg.Settings{Adapter: "memory", URL: "memory://settings"}.Open()
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())
	require.NoError(t, b.Close())

	_, err = studentreg.Settings{LogLevel: "loud"}.Level()
	assert.Error(t, err)
}
