package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// APIKeys maps a client name to its key; empty disables auth
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey        string `yaml:"apiKey"`
		AnalysisModel string `yaml:"analysisModel"`
	} `yaml:"openai"`

	Inspection struct {
		StandardsDir   string   `yaml:"standardsDir"`
		ExamplesDir    string   `yaml:"examplesDir"`
		FramesDir      string   `yaml:"framesDir"`
		SampleInterval Duration `yaml:"sampleInterval"` // default 5s
		CacheTTL       Duration `yaml:"cacheTTL"`       // default 60m
		PollInterval   Duration `yaml:"pollInterval"`   // default 10s
		MaxWait        Duration `yaml:"maxWait"`        // default 10m
	} `yaml:"inspection"`
}

// Duration wraps time.Duration so yaml values like "5s" parse directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	// api key boleh dari env, jangan taruh di yaml kalau gak perlu
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Inspection.StandardsDir == "" {
		c.Inspection.StandardsDir = "building_standards"
	}
	if c.Inspection.ExamplesDir == "" {
		c.Inspection.ExamplesDir = "examples"
	}
	if c.Inspection.FramesDir == "" {
		c.Inspection.FramesDir = "extracted_frames"
	}
	if c.Inspection.SampleInterval <= 0 {
		c.Inspection.SampleInterval = Duration(5 * time.Second)
	}
	if c.Inspection.CacheTTL <= 0 {
		c.Inspection.CacheTTL = Duration(60 * time.Minute)
	}
	if c.Inspection.PollInterval <= 0 {
		c.Inspection.PollInterval = Duration(10 * time.Second)
	}
	if c.Inspection.MaxWait <= 0 {
		c.Inspection.MaxWait = Duration(10 * time.Minute)
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		ssl,
	)
}
