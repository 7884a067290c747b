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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/classbook/studentreg"
	_ "github.com/classbook/studentreg/adapter/cockroachdb"
	_ "github.com/classbook/studentreg/adapter/memory"
	_ "github.com/classbook/studentreg/adapter/mongo"
	_ "github.com/classbook/studentreg/adapter/mssql"
	_ "github.com/classbook/studentreg/adapter/mysql"
	_ "github.com/classbook/studentreg/adapter/postgresql"
	_ "github.com/classbook/studentreg/adapter/ql"
	_ "github.com/classbook/studentreg/adapter/sqlite"
	"github.com/classbook/studentreg/internal/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires settings, logging and storage, then runs one command.
func run(ctx context.Context, out io.Writer, logOut io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	settings, err := config.Settings()
	if err != nil {
		return err
	}

	level, err := settings.Level()
	if err != nil {
		return &cli.ExitError{Code: 2, Message: fmt.Sprintf("invalid log level %q", settings.LogLevel)}
	}
	lg := logrus.New()
	lg.SetOutput(logOut)
	lg.SetLevel(level)
	studentreg.SetLogger(lg)

	lg.WithFields(logrus.Fields{
		"adapter": settings.Adapter,
		"command": config.Command,
	}).Debug("starting")

	backend, err := settings.Open()
	if err != nil {
		return fmt.Errorf("open %s backend: %w", settings.Adapter, err)
	}
	defer backend.Close()

	manager, err := studentreg.NewManager(ctx, studentreg.NewStore(backend))
	if err != nil {
		return err
	}

	app := cli.NewApp(out, manager, studentreg.NewHandoff(backend))
	err = app.Run(config.Command, config.Args)

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) && exitErr.Code == 0 {
		return nil
	}
	return err
}
