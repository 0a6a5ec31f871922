package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
site:
  id: "test-site"
simulation:
  input: "in.txt"
  output: "out.txt"
history:
  enabled: true
  path: "/tmp/history.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
    client_id: "test-client"
  qos: 1
influxdb:
  enabled: true
  url: "http://influx:8086"
  org: "home"
  bucket: "sim"
  flush_interval: 5
logging:
  level: "debug"
  format: "json"
  output: "stdout"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-site" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-site")
	}
	if cfg.Simulation.Input != "in.txt" || cfg.Simulation.Output != "out.txt" {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if !cfg.History.Enabled || cfg.History.Path != "/tmp/history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.InfluxDB.GetFlushInterval() != 5*time.Second {
		t.Errorf("GetFlushInterval() = %v, want 5s", cfg.InfluxDB.GetFlushInterval())
	}
	// Untouched values keep their defaults.
	if cfg.Logging.File.MaxBackups != 5 {
		t.Errorf("Logging.File.MaxBackups = %d, want default 5", cfg.Logging.File.MaxBackups)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.History.Enabled || cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("external sinks should be disabled by default")
	}
	if cfg.Site.ID != Default().Site.ID {
		t.Errorf("Site.ID = %q, want default", cfg.Site.ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRAYLOGIC_SITE_ID", "env-site")
	t.Setenv("GRAYLOGIC_HISTORY_ENABLED", "true")
	t.Setenv("GRAYLOGIC_HISTORY_PATH", "/var/lib/sim.db")
	t.Setenv("GRAYLOGIC_MQTT_HOST", "mqtt.env")
	t.Setenv("GRAYLOGIC_MQTT_ENABLED", "not-a-bool")
	t.Setenv("GRAYLOGIC_INFLUXDB_TOKEN", "secret")
	t.Setenv("GRAYLOGIC_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "site:\n  id: file-site\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "env-site" {
		t.Errorf("Site.ID = %q, want env-site", cfg.Site.ID)
	}
	if !cfg.History.Enabled || cfg.History.Path != "/var/lib/sim.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.MQTT.Broker.Host != "mqtt.env" {
		t.Errorf("MQTT.Broker.Host = %q", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Enabled {
		t.Error("unparsable GRAYLOGIC_MQTT_ENABLED should be ignored")
	}
	if cfg.InfluxDB.Token != "secret" {
		t.Errorf("InfluxDB.Token = %q", cfg.InfluxDB.Token)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing site", mutate: func(c *Config) { c.Site.ID = "" }, wantErr: "site.id"},
		{name: "history without path", mutate: func(c *Config) {
			c.History.Enabled = true
			c.History.Path = ""
		}, wantErr: "history.path"},
		{name: "bad qos", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: "mqtt.qos"},
		{name: "mqtt bad port", mutate: func(c *Config) {
			c.MQTT.Enabled = true
			c.MQTT.Broker.Port = 0
		}, wantErr: "mqtt.broker.port"},
		{name: "disabled mqtt ignores port", mutate: func(c *Config) { c.MQTT.Broker.Port = 0 }},
		{name: "influx without bucket", mutate: func(c *Config) {
			c.InfluxDB.Enabled = true
			c.InfluxDB.Bucket = ""
		}, wantErr: "influxdb.org"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "logging.level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "file output without path", mutate: func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.File.Path = ""
		}, wantErr: "logging.file.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

// TestLoad_ShippedConfig keeps configs/config.yaml in step with the defaults.
func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("../../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("shipped config differs from defaults:\n got  %+v\n want %+v", *cfg, *want)
	}
}
