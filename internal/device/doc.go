// Package device provides the simulated smart devices and their registry.
//
// A Device is a tagged variant: shared fields (name, status, switch time)
// live on Device and kind-specific state lives in exactly one payload,
// selected by Kind. Operations dispatch on Kind instead of overriding
// methods per type.
//
// # Key Types
//
//   - Device: one smart device with its on/off state machine
//   - Plug: energy accounting (220 V * ampere * hours while on and busy)
//   - Lamp: kelvin and brightness, plus an optional color for color lamps
//   - Camera: storage accounting (MB per minute while on)
//   - Registry: the ordered, name-unique collection of devices
//
// # State Machine
//
// Every status change goes through one transition path that runs the
// kind's accounting. SetStatus rejects redundant requests; Toggle, used by
// the scheduler, always flips.
//
// # Usage
//
//	reg := device.NewRegistry()
//
//	on := device.StatusOn
//	plug, err := device.New(device.KindPlug, "Kettle", device.Options{Status: &on}, now)
//	if err != nil {
//	    return err
//	}
//	if err := reg.Add(plug); err != nil {
//	    return err // ErrNameTaken
//	}
//	_ = plug.PlugIn(now, 10)
//
//	fmt.Println(plug.Describe())
//
// # Thread Safety
//
// Nothing in this package is synchronised. The simulation package owns the
// registry and the clock and serialises every call.
package device
