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
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: inspector
  password: secret
  name: inspections
  sslMode: require
openai:
  apiKey: sk-test
  analysisModel: gpt-5
inspection:
  standardsDir: /data/standards
  examplesDir: /data/examples
  framesDir: /tmp/frames
  sampleInterval: 2s
  cacheTTL: 30m
  pollInterval: 5s
  maxWait: 3m
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Inspection.SampleInterval.Std() != 2*time.Second {
		t.Errorf("sampleInterval = %s", cfg.Inspection.SampleInterval.Std())
	}
	if cfg.Inspection.CacheTTL.Std() != 30*time.Minute {
		t.Errorf("cacheTTL = %s", cfg.Inspection.CacheTTL.Std())
	}
	dsn := cfg.PostgresDSN()
	if !strings.Contains(dsn, "db.internal:5432") || !strings.Contains(dsn, "sslmode=require") {
		t.Errorf("postgres dsn = %q", dsn)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `server: {}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("default driver = %q", cfg.Database.Driver)
	}
	if cfg.Inspection.SampleInterval.Std() != 5*time.Second {
		t.Errorf("default sampleInterval = %s", cfg.Inspection.SampleInterval.Std())
	}
	if cfg.Inspection.CacheTTL.Std() != 60*time.Minute {
		t.Errorf("default cacheTTL = %s", cfg.Inspection.CacheTTL.Std())
	}
	if cfg.Inspection.PollInterval.Std() != 10*time.Second {
		t.Errorf("default pollInterval = %s", cfg.Inspection.PollInterval.Std())
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, `
inspection:
  sampleInterval: soon
`))
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Fatalf("err = %v", err)
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	cfg, err := Load(writeConfig(t, `
openai:
  apiKey: sk-from-yaml
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("apiKey = %q, env must win", cfg.OpenAI.APIKey)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 3306
	cfg.Database.Name = "inspections"

	dsn := cfg.MySQLDSN()
	if !strings.HasPrefix(dsn, "u:p@tcp(localhost:3306)/inspections?") {
		t.Errorf("dsn = %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("dsn missing parseTime: %q", dsn)
	}
}
