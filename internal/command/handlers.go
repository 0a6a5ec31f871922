package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

// handler executes a fixed-arity command.
type handler struct {
	arity int
	fn    func(ctx context.Context, sim *simulation.Simulation, args []string) error
}

var handlers = map[string]handler{
	"SetTime":       {arity: 1, fn: setTime},
	"SkipMinutes":   {arity: 1, fn: skipMinutes},
	"Nop":           {arity: 0, fn: nop},
	"PlugOut":       {arity: 1, fn: plugOut},
	"SetSwitchTime": {arity: 2, fn: setSwitchTime},
	"Switch":        {arity: 2, fn: switchDevice},
	"ChangeName":    {arity: 2, fn: changeName},
	"PlugIn":        {arity: 2, fn: plugIn},
	"SetKelvin":     {arity: 2, fn: setKelvin},
	"SetBrightness": {arity: 2, fn: setBrightness},
	"SetColorCode":  {arity: 2, fn: setColorCode},
	"SetWhite":      {arity: 3, fn: setWhite},
	"SetColor":      {arity: 3, fn: setColor},
}

func (i *Interpreter) setInitialTime(ctx context.Context, r *run, value string) error {
	t, err := clock.Parse(value)
	if err != nil {
		return err
	}
	if err := i.sim.SetInitialTime(ctx, t); err != nil {
		return err
	}
	r.printf("SUCCESS: Time has been set to %s!\n", clock.Format(t))
	return nil
}

func setTime(ctx context.Context, sim *simulation.Simulation, args []string) error {
	t, err := clock.Parse(args[0])
	if err != nil {
		return err
	}
	_, err = sim.SetTime(ctx, t)
	return err
}

func skipMinutes(ctx context.Context, sim *simulation.Simulation, args []string) error {
	minutes, err := parseInt(args[0])
	if err != nil {
		return err
	}
	_, err = sim.SkipMinutes(ctx, minutes)
	return err
}

func nop(ctx context.Context, sim *simulation.Simulation, _ []string) error {
	_, err := sim.Nop(ctx)
	return err
}

func plugOut(ctx context.Context, sim *simulation.Simulation, args []string) error {
	return sim.PlugOut(ctx, args[0])
}

// setSwitchTime resolves the device before parsing the time, so an unknown
// device is reported ahead of a malformed time.
func setSwitchTime(ctx context.Context, sim *simulation.Simulation, args []string) error {
	if _, err := sim.Device(args[0]); err != nil {
		return err
	}
	t, err := clock.Parse(args[1])
	if err != nil {
		return err
	}
	return sim.SetSwitchTime(ctx, args[0], &t)
}

func switchDevice(ctx context.Context, sim *simulation.Simulation, args []string) error {
	if _, err := sim.Device(args[0]); err != nil {
		return err
	}
	status, err := device.ParseStatus(args[1])
	if err != nil {
		return err
	}
	if err := sim.Switch(ctx, args[0], status); err != nil {
		if errors.Is(err, device.ErrRedundantStatus) {
			return &redundantStatusError{status: status}
		}
		return err
	}
	return nil
}

func changeName(ctx context.Context, sim *simulation.Simulation, args []string) error {
	return sim.Rename(ctx, args[0], args[1])
}

func plugIn(ctx context.Context, sim *simulation.Simulation, args []string) error {
	if _, err := sim.Device(args[0]); err != nil {
		return err
	}
	ampere, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	return sim.PlugIn(ctx, args[0], ampere)
}

func setKelvin(ctx context.Context, sim *simulation.Simulation, args []string) error {
	kelvin, err := parseInt(args[1])
	if err != nil {
		return err
	}
	return sim.SetKelvin(ctx, args[0], kelvin)
}

func setBrightness(ctx context.Context, sim *simulation.Simulation, args []string) error {
	brightness, err := parseInt(args[1])
	if err != nil {
		return err
	}
	return sim.SetBrightness(ctx, args[0], brightness)
}

func setColorCode(ctx context.Context, sim *simulation.Simulation, args []string) error {
	return sim.SetColorCode(ctx, args[0], args[1])
}

func setWhite(ctx context.Context, sim *simulation.Simulation, args []string) error {
	kelvin, err := parseInt(args[1])
	if err != nil {
		return err
	}
	brightness, err := parseInt(args[2])
	if err != nil {
		return err
	}
	return sim.SetWhite(ctx, args[0], kelvin, brightness)
}

// setColor checks the color before parsing brightness, so a bad color is
// reported even when the brightness is also malformed.
func setColor(ctx context.Context, sim *simulation.Simulation, args []string) error {
	if _, err := device.ParseColor(args[1]); err != nil {
		return err
	}
	brightness, err := parseInt(args[2])
	if err != nil {
		return err
	}
	return sim.SetColor(ctx, args[0], args[1], brightness)
}

// add handles "Add <Kind> name ...". The accepted forms are:
//
//	SmartPlug      name [status [ampere]]
//	SmartCamera    name mbPerMinute [status]
//	SmartLamp      name [status [kelvin brightness]]
//	SmartColorLamp name [status [kelvin|0xHEX brightness]]
func (i *Interpreter) add(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 5 {
		return ErrArity
	}
	kind, err := device.ParseKind(args[0])
	if err != nil {
		return err
	}
	name, props := args[1], args[2:]

	opts, err := parseAddOptions(kind, props)
	if err != nil {
		return err
	}
	_, err = i.sim.Add(ctx, kind, name, opts)
	return err
}

func parseAddOptions(kind device.Kind, props []string) (device.Options, error) {
	var opts device.Options

	switch kind {
	case device.KindPlug:
		if len(props) > 2 {
			return opts, ErrArity
		}
		if len(props) >= 1 {
			if err := parseStatusInto(&opts, props[0]); err != nil {
				return opts, err
			}
		}
		if len(props) == 2 {
			ampere, err := parseFloat(props[1])
			if err != nil {
				return opts, err
			}
			opts.Ampere = &ampere
		}

	case device.KindCamera:
		if len(props) < 1 || len(props) > 2 {
			return opts, ErrArity
		}
		mb, err := parseFloat(props[0])
		if err != nil {
			return opts, err
		}
		opts.MBPerMinute = mb
		if len(props) == 2 {
			if err := parseStatusInto(&opts, props[1]); err != nil {
				return opts, err
			}
		}

	case device.KindLamp, device.KindColorLamp:
		if len(props) == 2 || len(props) > 3 {
			return opts, ErrArity
		}
		if len(props) >= 1 {
			if err := parseStatusInto(&opts, props[0]); err != nil {
				return opts, err
			}
		}
		if len(props) == 3 {
			if kind == device.KindColorLamp && device.IsColorLiteral(props[1]) {
				color := props[1]
				opts.Color = &color
			} else {
				kelvin, err := parseInt(props[1])
				if err != nil {
					return opts, err
				}
				opts.Kelvin = &kelvin
			}
			brightness, err := parseInt(props[2])
			if err != nil {
				return opts, err
			}
			opts.Brightness = &brightness
		}
	}

	return opts, nil
}

func parseStatusInto(opts *device.Options, value string) error {
	status, err := device.ParseStatus(value)
	if err != nil {
		return err
	}
	opts.Status = &status
	return nil
}

func parseInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, value)
	}
	return n, nil
}

func parseFloat(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, value)
	}
	return f, nil
}
