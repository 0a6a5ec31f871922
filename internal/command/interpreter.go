package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

// Logger defines the logging interface used by the Interpreter.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

const (
	cmdSetInitialTime = "SetInitialTime"
	cmdZReport        = "ZReport"

	fieldSeparator = "\t"
	terminateNote  = " Program is going to terminate!"
)

// Summary describes one interpreter run.
type Summary struct {
	Commands int
	Errors   int

	// Terminated is set when the run stopped because no valid initial time
	// was given.
	Terminated bool
}

// Interpreter executes command scripts against a Simulation and writes the
// textual log.
type Interpreter struct {
	sim    *simulation.Simulation
	logger Logger
}

// New creates an interpreter driving sim.
func New(sim *simulation.Simulation) *Interpreter {
	return &Interpreter{sim: sim, logger: noopLogger{}}
}

// SetLogger sets the logger for the interpreter.
func (i *Interpreter) SetLogger(logger Logger) {
	i.logger = logger
}

// run holds the per-script state.
type run struct {
	out            *bufio.Writer
	started        bool
	printedZReport bool
	summary        Summary
}

func (r *run) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *run) fail(err error) {
	r.summary.Errors++
	r.printf("ERROR: %s!\n", message(err))
}

// Run reads tab-separated commands from in and writes the log to out.
//
// The first command must be a successful SetInitialTime; otherwise the run
// stops after printing the termination notice. When the script does not end
// with ZReport, a final report is appended.
//
// Returns an error only for I/O failures or context cancellation. Command
// failures are part of the log.
func (i *Interpreter) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	r := &run{out: bufio.NewWriter(out)}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return r.summary, fmt.Errorf("interpreting commands: %w", err)
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Split(strings.TrimSpace(line), fieldSeparator)
		name, args := fields[0], fields[1:]
		if name == "" {
			continue
		}

		r.printedZReport = false
		r.summary.Commands++
		r.printf("COMMAND: %s\n", line)
		i.logger.Debug("executing command", "command", name, "args", len(args))

		if !r.started {
			if !i.start(ctx, r, name, args) {
				r.summary.Terminated = true
				break
			}
			continue
		}

		if err := i.execute(ctx, r, name, args); err != nil {
			i.logger.Debug("command failed", "command", name, "error", err)
			r.fail(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return r.summary, fmt.Errorf("reading commands: %w", err)
	}

	if !r.printedZReport && i.sim.ClockSet() {
		r.printf("ZReport:\n")
		if err := i.zreport(r); err != nil {
			r.fail(err)
		}
	}

	if err := r.out.Flush(); err != nil {
		return r.summary, fmt.Errorf("writing output: %w", err)
	}

	i.logger.Info("command script finished",
		"commands", r.summary.Commands,
		"errors", r.summary.Errors,
		"terminated", r.summary.Terminated,
	)
	return r.summary, nil
}

// start handles the first command. Reports whether the run may continue.
func (i *Interpreter) start(ctx context.Context, r *run, name string, args []string) bool {
	if name != cmdSetInitialTime || len(args) != 1 {
		r.summary.Errors++
		r.printf("ERROR: First command must be set initial time!%s\n", terminateNote)
		i.logger.Warn("script does not start with a valid initial time", "command", name)
		return false
	}

	if err := i.setInitialTime(ctx, r, args[0]); err != nil {
		r.summary.Errors++
		r.printf("ERROR: Format of the initial date is wrong!%s\n", terminateNote)
		i.logger.Warn("initial time rejected", "value", args[0], "error", err)
		return false
	}

	r.started = true
	return true
}

// execute dispatches one command after the initial time is set.
func (i *Interpreter) execute(ctx context.Context, r *run, name string, args []string) error {
	switch name {
	case cmdSetInitialTime:
		return clock.ErrInitialTime
	case cmdZReport:
		if len(args) != 0 {
			return ErrArity
		}
		if err := i.zreport(r); err != nil {
			return err
		}
		r.printedZReport = true
		return nil
	case "Add":
		return i.add(ctx, args)
	case "Remove":
		if len(args) != 1 {
			return ErrArity
		}
		return i.remove(ctx, r, args[0])
	}

	h, ok := handlers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if len(args) != h.arity {
		return ErrArity
	}
	return h.fn(ctx, i.sim, args)
}

func (i *Interpreter) zreport(r *run) error {
	report, err := i.sim.Report()
	if err != nil {
		return err
	}
	r.printf("%s", report)
	return nil
}

func (i *Interpreter) remove(ctx context.Context, r *run, name string) error {
	removed, err := i.sim.Remove(ctx, name)
	if err != nil {
		return err
	}
	r.printf("SUCCESS: Information about removed smart device is as follows:\n%s\n", removed.Describe())
	return nil
}
