package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Providers Providers `yaml:"providers"`
	Quiz      struct {
		PoolTTL      string `yaml:"pool_ttl"`
		FetchTimeout string `yaml:"fetch_timeout"`
	} `yaml:"quiz"`
}

// Providers selects and configures the model backends. Vision is one of
// gemini, vertex or claude; Images is gemini or vertex; Text is groq or gemini.
type Providers struct {
	Vision string `yaml:"vision"`
	Images string `yaml:"images"`
	Text   string `yaml:"text"`

	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
	Vertex struct {
		ProjectID       string `yaml:"project_id"`
		Location        string `yaml:"location"`
		Model           string `yaml:"model"`
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"vertex"`
	Claude struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"claude"`
	Groq struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"groq"`
}

// Load reads YAML config from path. A missing file yields an empty config so
// the service can run from environment variables alone. Values from a .env
// file in the working directory and from the environment override the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	// .env is optional; real environment variables take precedence over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	applyEnv(&cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Providers.Gemini.APIKey, "GEMINI_API_KEY")
	override(&cfg.Providers.Groq.APIKey, "GROQ_API_KEY")
	override(&cfg.Providers.Claude.APIKey, "CLAUDE_API_KEY")
	override(&cfg.Providers.Vertex.ProjectID, "GOOGLE_PROJECT_ID")
	override(&cfg.Providers.Vertex.Location, "GOOGLE_LOCATION")
	override(&cfg.Providers.Vertex.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	override(&cfg.Redis.Addr, "REDIS_ADDR")
	override(&cfg.Postgres.URL, "DATABASE_URL")
	override(&cfg.Log.Level, "LOG_LEVEL")
}

func (c *Config) applyDefaults() {
	if c.Providers.Vision == "" {
		c.Providers.Vision = "gemini"
	}
	if c.Providers.Images == "" {
		c.Providers.Images = "gemini"
	}
	if c.Providers.Text == "" {
		c.Providers.Text = "groq"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
