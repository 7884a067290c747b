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

// Package cli implements the studentreg command line: global flag parsing
// and the registry commands.
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/classbook/studentreg"
)

// ExitError carries the process exit code along with the message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...interface{}) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Config is the parsed command line. Empty Adapter, URL and LogLevel mean the
// flag was not given.
type Config struct {
	ConfigPath string
	Adapter    string
	URL        string
	LogLevel   string

	Command string
	Args    []string
}

// Settings loads the settings file named by -config, applies environment
// overrides and then the global flags.
func (c *Config) Settings() (studentreg.Settings, error) {
	s, err := studentreg.LoadSettings(c.ConfigPath)
	if err != nil {
		return studentreg.Settings{}, err
	}
	if c.Adapter != "" {
		s.Adapter = c.Adapter
	}
	if c.URL != "" {
		s.URL = c.URL
	}
	if c.LogLevel != "" {
		s.LogLevel = c.LogLevel
	}
	return s, nil
}

const usage = `
studentreg - keeps a register of students.

Usage:
  studentreg [options] COMMAND [ARGS]

Commands:
  register [-name ..] [-id ..] [-class ..] [-email ..] [-contact ..] [-address ..]
                       add a student, or update the one marked with edit
  edit POS             mark the student at POS for editing
  cancel               forget the student marked for editing
  list                 show every student
  search QUERY         show the students matching QUERY
  delete [-expect FP] POS
                       delete the student at POS
  stats                show the number of students
  adapters             list the storage adapters

Options:
`

// Parse processes the global flags. It returns the parsed Config, a boolean
// telling the caller to exit cleanly (help was printed), or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	fs := flag.NewFlagSet("studentreg", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, usage)
		fs.PrintDefaults()
	}

	c := &Config{}
	fs.StringVar(&c.ConfigPath, "config", "", "Path to a YAML settings file.")
	fs.StringVar(&c.Adapter, "adapter", "", "Storage adapter, e.g. 'sqlite' or 'postgresql'.")
	fs.StringVar(&c.URL, "url", "", "Connection URL of the storage adapter.")
	fs.StringVar(&c.LogLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, true, nil
	}

	c.Command = fs.Arg(0)
	c.Args = fs.Args()[1:]

	if _, ok := commands[c.Command]; !ok {
		return nil, false, usageError("unknown command %q", c.Command)
	}
	return c, false, nil
}
