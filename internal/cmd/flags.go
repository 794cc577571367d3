// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bushyice/rind/internal/config"
	"github.com/bushyice/rind/internal/ipc"
	"github.com/bushyice/rind/internal/unit"
	flags "github.com/jessevdk/go-flags"
)

// parseArgs parses the given args into data. The first arg is the program
// name. Errors are printed to output.
func parseArgs(args []string, data any, output io.Writer) error {
	name := "rind"
	if len(args) > 0 {
		name = filepath.Base(args[0])
		args = args[1:]
	}

	parser := flags.NewParser(data, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = name

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(output, flagsErr.Message)
			return ErrHelp
		}

		fmt.Fprintf(output, "Error [%s]: %v\n", name, err)

		return &ParseArgsError{msg: "parse flags", err: err}
	}

	if len(rest) > 0 {
		err := fmt.Errorf("%w: %q", ErrUnexpectedArgs, rest)
		fmt.Fprintf(output, "Error [%s]: %v\n", name, err)

		return &ParseArgsError{msg: "parse flags", err: err}
	}

	if validator, ok := data.(interface{ validate() error }); ok {
		if err := validator.validate(); err != nil {
			fmt.Fprintf(output, "Error [%s]: %v\n", name, err)
			return &ParseArgsError{msg: "validate flags", err: err}
		}
	}

	return nil
}

type action int

const (
	actionList action = iota
	actionStart
	actionStop
	actionEnable
	actionDisable
	actionUmount
)

// ctlFlags are the flags of the control client.
type ctlFlags struct {
	List    bool   `short:"L" long:"list" description:"List units (default)"`
	Start   bool   `short:"S" long:"start" description:"Start the service given with -s"`
	Stop    bool   `short:"X" long:"stop" description:"Stop the service given with -s"`
	Force   bool   `long:"force" description:"Kill instead of terminate with --stop"`
	Enable  bool   `long:"enable" description:"Enable the unit given with -u"`
	Disable bool   `long:"disable" description:"Disable the unit given with -u"`
	Umount  bool   `short:"U" long:"umount" description:"Unmount the mount given with -m"`
	Unit    string `short:"u" long:"unit" value-name:"UNIT" description:"Unit to act on; limits --list to it and shows its services"`
	Service string `short:"s" long:"service" value-name:"SERVICE" description:"Service to act on"`
	Mount   string `short:"m" long:"mount" value-name:"TARGET" description:"Mount target to act on"`
	Socket  string `long:"socket" value-name:"PATH" default:"/tmp/rind.sock" description:"Control socket of the daemon"`
	Debug   bool   `short:"d" long:"debug" description:"Enable debug logging"`
}

func (f *ctlFlags) action() (action, error) {
	selected := actionList
	count := 0

	for act, set := range map[action]bool{
		actionList:    f.List,
		actionStart:   f.Start,
		actionStop:    f.Stop,
		actionEnable:  f.Enable,
		actionDisable: f.Disable,
		actionUmount:  f.Umount,
	} {
		if set {
			selected = act
			count++
		}
	}

	if count > 1 {
		return actionList, ErrConflictingActions
	}

	return selected, nil
}

func (f *ctlFlags) validate() error {
	act, err := f.action()
	if err != nil {
		return err
	}

	switch act {
	case actionStart, actionStop:
		if f.Service == "" {
			return fmt.Errorf("%w: service (-s)", ErrMissingArg)
		}
	case actionEnable, actionDisable:
		if f.Unit == "" {
			return fmt.Errorf("%w: unit (-u)", ErrMissingArg)
		}
	case actionUmount:
		if f.Mount == "" {
			return fmt.Errorf("%w: mount (-m)", ErrMissingArg)
		}
	case actionList:
	}

	if f.Force && act != actionStop {
		return fmt.Errorf("%w: --force requires --stop", ErrConflictingActions)
	}

	return nil
}

// qualifier returns the service qualifier built from -u and -s.
func (f *ctlFlags) qualifier() unit.Qualifier {
	return f.memberQualifier(f.Service)
}

func (f *ctlFlags) memberQualifier(member string) unit.Qualifier {
	if f.Unit == "" {
		return unit.ParseQualifier(member)
	}

	return unit.ParseQualifier(f.Unit + "@" + member)
}

// request returns the request for the selected action.
func (f *ctlFlags) request() ipc.Message {
	act, _ := f.action()

	switch act {
	case actionStart:
		return ipc.NewMessage(ipc.KindStart, f.qualifier().String())
	case actionStop:
		if f.Force {
			return ipc.NewMessage(ipc.KindKill, f.qualifier().String())
		}

		return ipc.NewMessage(ipc.KindStop, f.qualifier().String())
	case actionEnable:
		return ipc.NewMessage(ipc.KindEnable, f.Unit)
	case actionDisable:
		return ipc.NewMessage(ipc.KindDisable, f.Unit)
	case actionUmount:
		return ipc.NewMessage(ipc.KindUmount, f.memberQualifier(f.Mount).String())
	default:
		return ipc.NewRequest(ipc.KindList)
	}
}

// initFlags are the flags of the init program.
type initFlags struct {
	Config        string `short:"c" long:"config" value-name:"PATH" description:"Configuration file"`
	NoPidOneCheck bool   `long:"no-pid-one-check" description:"Run even if not running as PID 1"`
}

func (f *initFlags) configPath() string {
	if f.Config == "" {
		return config.DefaultPath
	}

	return f.Config
}
