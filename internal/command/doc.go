// Package command interprets simulator command scripts.
//
// A script is a sequence of lines, each a command name followed by
// tab-separated arguments:
//
//	SetInitialTime	2023-03-31_14:00:00
//	Add	SmartPlug	Kettle	On	10
//	SetSwitchTime	Kettle	2023-03-31_15:00:00
//	Nop
//	ZReport
//
// Every non-blank line is echoed as "COMMAND: <line>" and followed by its
// outcome: nothing on silent success, a "SUCCESS: ..." line for commands
// that report, or an "ERROR: ...!" line. Arity and number parsing are
// checked here; value semantics are left to the simulation.
package command
