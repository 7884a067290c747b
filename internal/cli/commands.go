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

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/internal/view"
	"github.com/sirupsen/logrus"
)

// App runs registry commands against a manager and an edit handoff sharing
// one backend.
type App struct {
	out     io.Writer
	manager *studentreg.Manager
	handoff *studentreg.Handoff
	log     logrus.FieldLogger
}

// NewApp returns an App writing to out.
func NewApp(out io.Writer, manager *studentreg.Manager, handoff *studentreg.Handoff) *App {
	return &App{
		out:     out,
		manager: manager,
		handoff: handoff,
		log:     studentreg.Logger(),
	}
}

type command func(a *App, args []string) error

var commands map[string]command

func init() {
	commands = map[string]command{
		"register": (*App).register,
		"edit":     (*App).edit,
		"cancel":   (*App).cancel,
		"list":     (*App).list,
		"search":   (*App).search,
		"delete":   (*App).delete,
		"stats":    (*App).stats,
		"adapters": (*App).adapters,
	}
}

// Run executes the named command.
func (a *App) Run(name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return usageError("unknown command %q", name)
	}
	a.log.WithField("command", name).Debug("running command")
	return cmd(a, args)
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return &ExitError{Code: 0}
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return nil
}

func parsePosition(fs *flag.FlagSet) (int, error) {
	if fs.NArg() != 1 {
		return 0, usageError("%s: expecting exactly one position", fs.Name())
	}
	pos, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return 0, usageError("%s: invalid position %q", fs.Name(), fs.Arg(0))
	}
	return pos, nil
}

// register consumes the pending edit, if any, and submits the form. Fields
// left out are prefilled from the record being edited.
func (a *App) register(args []string) error {
	fs := a.flagSet("register")

	var raw studentreg.RawRecord
	fs.StringVar(&raw.Name, "name", "", "Full name, letters and spaces only.")
	fs.StringVar(&raw.ID, "id", "", "Student ID, digits only.")
	fs.StringVar(&raw.Class, "class", "", "Class.")
	fs.StringVar(&raw.Email, "email", "", "Email address.")
	fs.StringVar(&raw.Contact, "contact", "", "Contact number, at least 10 digits.")
	fs.StringVar(&raw.Address, "address", "", "Postal address.")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError("register: unexpected argument %q", fs.Arg(0))
	}

	ctx := a.manager.Context()

	editing := studentreg.NoPosition
	pos, ok, err := a.handoff.ConsumePendingEdit(ctx)
	if err != nil {
		return err
	}
	if ok {
		prev, err := a.manager.Get(pos)
		switch {
		case errors.Is(err, studentreg.ErrOutOfRange):
			a.log.WithField("position", pos).Warn("pending edit no longer exists, adding a new student")
		case err != nil:
			return err
		default:
			editing = pos
			raw = raw.Merge(prev.Raw())
		}
	}

	rec, errs, err := a.manager.Submit(raw, editing)
	if err != nil || errs != nil {
		if editing != studentreg.NoPosition {
			// Keep the edit pending so the next attempt updates the same
			// record.
			if merr := a.handoff.MarkForEdit(ctx, editing); merr != nil {
				a.log.WithError(merr).WithField("position", editing).Error("could not keep edit pending")
			}
		}
	}
	if err != nil {
		return err
	}
	if errs != nil {
		if err := view.FieldErrors(a.out, errs); err != nil {
			return err
		}
		return &ExitError{Code: 1, Message: "student not saved"}
	}

	if editing == studentreg.NoPosition {
		fmt.Fprintf(a.out, "Student %s added.\n", view.Sanitize(rec.ID))
	} else {
		fmt.Fprintf(a.out, "Student %s updated.\n", view.Sanitize(rec.ID))
	}
	return view.Stats(a.out, a.manager.Len(), a.manager.TodayCount())
}

func (a *App) edit(args []string) error {
	fs := a.flagSet("edit")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	pos, err := parsePosition(fs)
	if err != nil {
		return err
	}

	rec, err := a.manager.Get(pos)
	if errors.Is(err, studentreg.ErrOutOfRange) {
		fmt.Fprintf(a.out, "No student at position %d.\n", pos)
		return a.list(nil)
	}
	if err != nil {
		return err
	}

	if err := a.handoff.MarkForEdit(a.manager.Context(), pos); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Editing student at position %d. Run register with the fields to change.\n", pos)
	return view.Record(a.out, rec)
}

func (a *App) cancel(args []string) error {
	fs := a.flagSet("cancel")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	_, ok, err := a.handoff.ConsumePendingEdit(a.manager.Context())
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(a.out, "Edit cancelled.")
	} else {
		fmt.Fprintln(a.out, "No edit pending.")
	}
	return nil
}

func (a *App) list(args []string) error {
	fs := a.flagSet("list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := view.Table(a.out, a.manager.Search("")); err != nil {
		return err
	}
	if err := view.Stats(a.out, a.manager.Len(), a.manager.TodayCount()); err != nil {
		return err
	}
	return view.Fingerprint(a.out, a.manager.Fingerprint())
}

func (a *App) search(args []string) error {
	fs := a.flagSet("search")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	query := strings.Join(fs.Args(), " ")
	if err := view.Table(a.out, a.manager.Search(query)); err != nil {
		return err
	}
	return view.Fingerprint(a.out, a.manager.Fingerprint())
}

func (a *App) delete(args []string) error {
	fs := a.flagSet("delete")
	expect := fs.String("expect", "", "Fingerprint printed by list or search; refuse to delete if the list changed since.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	pos, err := parsePosition(fs)
	if err != nil {
		return err
	}

	if *expect != "" {
		fp, err := strconv.ParseUint(*expect, 16, 64)
		if err != nil {
			return usageError("delete: invalid fingerprint %q", *expect)
		}
		if err := a.manager.CheckFingerprint(fp); err != nil {
			fmt.Fprintln(a.out, "The list changed since it was shown; nothing deleted.")
			return a.list(nil)
		}
	}

	prev, err := a.manager.Get(pos)
	if err == nil {
		err = a.manager.DeleteAt(pos)
	}
	if errors.Is(err, studentreg.ErrOutOfRange) {
		fmt.Fprintf(a.out, "No student at position %d.\n", pos)
		return a.list(nil)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Student %s deleted.\n", view.Sanitize(prev.ID))
	return a.list(nil)
}

func (a *App) stats(args []string) error {
	fs := a.flagSet("stats")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return view.Stats(a.out, a.manager.Len(), a.manager.TodayCount())
}

func (a *App) adapters(args []string) error {
	fs := a.flagSet("adapters")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	for _, name := range studentreg.Adapters() {
		fmt.Fprintln(a.out, name)
	}
	return nil
}
