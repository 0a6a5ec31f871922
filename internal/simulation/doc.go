// Package simulation runs the smart-home simulation: one logical clock,
// one device registry and the scheduler that fires due switch times.
//
// # Scheduling
//
// Time only moves when a caller sets or skips it. Every movement runs the
// due-sweep synchronously:
//
//  1. Find the earliest switch time t* among all devices.
//  2. If t* is after now, stop.
//  3. Otherwise clear and toggle every device scheduled exactly at t*
//     (the tie group), first-added first, with accounting at now.
//  4. Repeat, since a later group may also be due.
//
// Nop jumps the clock to the earliest switch time through the same path.
//
// # Recorders
//
// Each operation queues the transitions it causes and hands them to the
// registered Recorder sinks (history database, MQTT, InfluxDB) before it
// returns. Recorder errors are logged and otherwise ignored.
//
// # Usage
//
//	sim := simulation.New()
//	sim.SetLogger(log)
//	sim.AddRecorder(historyRecorder)
//
//	_ = sim.SetInitialTime(ctx, t0)
//	_, _ = sim.Add(ctx, device.KindLamp, "Desk", device.Options{})
//	_ = sim.SetSwitchTime(ctx, "Desk", &t1)
//	_, _ = sim.Nop(ctx) // clock jumps to t1, Desk switches on
//
//	report, _ := sim.Report()
//	fmt.Print(report)
package simulation
