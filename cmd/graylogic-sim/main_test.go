package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/config"
)

const testScript = "SetInitialTime\t2023-03-31_14:00:00\n" +
	"Add\tSmartPlug\tKettle\tOn\t10\n" +
	"SkipMinutes\t60\n" +
	"Switch\tKettle\tOff\n"

const wantLog = "COMMAND: SetInitialTime\t2023-03-31_14:00:00\n" +
	"SUCCESS: Time has been set to 2023-03-31_14:00:00!\n" +
	"COMMAND: Add\tSmartPlug\tKettle\tOn\t10\n" +
	"COMMAND: SkipMinutes\t60\n" +
	"COMMAND: Switch\tKettle\tOff\n" +
	"ZReport:\n" +
	"Time is:\t2023-03-31_15:00:00\n" +
	"Smart Plug Kettle is off and consumed 2200.00W so far (excluding current device), and its time to switch its status is null.\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeConfig writes a quiet configuration, optionally with history enabled.
func writeConfig(t *testing.T, dir string, historyPath string) string {
	t.Helper()
	content := `
site:
  id: test-site
logging:
  level: error
  format: text
  output: stderr
`
	if historyPath != "" {
		content += `
history:
  enabled: true
  path: ` + historyPath + `
  wal_mode: true
  busy_timeout: 5
`
	}
	return writeFile(t, dir, "config.yaml", content)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunSimulation_Files(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{
		configPath: writeConfig(t, dir, ""),
		input:      writeFile(t, dir, "input.txt", testScript),
		output:     filepath.Join(dir, "output.txt"),
	}

	if err := runSimulation(testContext(t), opts, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("runSimulation() error = %v", err)
	}

	got, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(got) != wantLog {
		t.Errorf("output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, wantLog)
	}
}

func TestRunSimulation_StandardStreams(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{configPath: writeConfig(t, dir, ""), input: stdStream}

	var stdout bytes.Buffer
	if err := runSimulation(testContext(t), opts, strings.NewReader(testScript), &stdout); err != nil {
		t.Fatalf("runSimulation() error = %v", err)
	}
	if stdout.String() != wantLog {
		t.Errorf("stdout mismatch\n--- got ---\n%s", stdout.String())
	}
}

func TestRunSimulation_ConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", testScript)
	output := filepath.Join(dir, "out.txt")
	configPath := writeFile(t, dir, "config.yaml", `
site:
  id: test-site
simulation:
  input: `+input+`
  output: `+output+`
logging:
  level: error
`)

	if err := runSimulation(testContext(t), runOptions{configPath: configPath}, nil, nil); err != nil {
		t.Fatalf("runSimulation() error = %v", err)
	}
	if got, _ := os.ReadFile(output); string(got) != wantLog {
		t.Errorf("configured output mismatch:\n%s", got)
	}
}

func TestRunSimulation_Errors(t *testing.T) {
	dir := t.TempDir()
	validConfig := writeConfig(t, dir, "")

	tests := []struct {
		name    string
		opts    runOptions
		wantErr string
	}{
		{
			name:    "missing config",
			opts:    runOptions{configPath: filepath.Join(dir, "nope.yaml")},
			wantErr: "loading config",
		},
		{
			name:    "missing input",
			opts:    runOptions{configPath: validConfig, input: filepath.Join(dir, "nope.txt")},
			wantErr: "opening input",
		},
		{
			name: "unwritable output",
			opts: runOptions{
				configPath: validConfig,
				input:      writeFile(t, dir, "in.txt", testScript),
				output:     filepath.Join(dir, "missing", "out.txt"),
			},
			wantErr: "creating output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runSimulation(testContext(t), tt.opts, strings.NewReader(""), &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("runSimulation() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunSimulation_TerminatedScriptIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	opts := runOptions{configPath: writeConfig(t, dir, "")}

	var stdout bytes.Buffer
	err := runSimulation(testContext(t), opts, strings.NewReader("Nop\n"), &stdout)
	if err != nil {
		t.Fatalf("runSimulation() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Program is going to terminate!") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

// TestHistoryRoundTrip records a run into SQLite and reads it back through
// the history subcommand.
func TestHistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, filepath.Join(dir, "data", "history.db"))

	opts := runOptions{configPath: configPath, runID: "run-1"}
	if err := runSimulation(testContext(t), opts, strings.NewReader(testScript), &bytes.Buffer{}); err != nil {
		t.Fatalf("runSimulation() error = %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"history", "run", "run-1", "--config", configPath})
	if err := root.ExecuteContext(testContext(t)); err != nil {
		t.Fatalf("history run error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("history lines = %d, want 2:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "2023-03-31_14:00:00") || !strings.HasSuffix(lines[0], "Kettle\toff -> on") {
		t.Errorf("first entry = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2023-03-31_15:00:00") || !strings.HasSuffix(lines[1], "Kettle\ton -> off") {
		t.Errorf("second entry = %q", lines[1])
	}
}

// execute runs the command tree with args and returns its output.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	if err := root.ExecuteContext(testContext(t)); err != nil {
		t.Fatalf("%v error = %v", args, err)
	}
	return out.String()
}

func TestHistoryMigrateCommands(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, filepath.Join(dir, "history.db"))

	const pending = "pending\t20260301_120000\ttransitions\n"

	if got := execute(t, "history", "migrate", "status", "-c", configPath); got != pending {
		t.Errorf("status on a new database = %q, want %q", got, pending)
	}

	got := execute(t, "history", "migrate", "up", "-c", configPath)
	if !strings.HasPrefix(got, "applied\t20260301_120000\t") || strings.Contains(got, "pending") {
		t.Errorf("up = %q, want the migration applied", got)
	}

	if got := execute(t, "history", "migrate", "down", "-c", configPath); got != pending {
		t.Errorf("down = %q, want %q", got, pending)
	}

	// Down with nothing applied is a no-op.
	if got := execute(t, "history", "migrate", "down", "-c", configPath); got != pending {
		t.Errorf("second down = %q, want %q", got, pending)
	}
}

func TestHistoryCmd_RejectsMemoryDatabase(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "")

	// History is disabled, so the path override is not validated on load.
	t.Setenv("GRAYLOGIC_HISTORY_PATH", ":memory:")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"history", "device", "abc", "--config", configPath})
	if err := root.ExecuteContext(testContext(t)); err != errHistoryPath {
		t.Errorf("history device error = %v, want %v", err, errHistoryPath)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "graylogic-sim "+version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestDefaultConfigDisablesSinks(t *testing.T) {
	cfg := config.Default()
	if cfg.History.Enabled || cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("a bare run must not need external services")
	}
}
