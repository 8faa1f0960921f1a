package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Ollama struct {
		BaseURL        string `yaml:"base_url"`
		ChatModel      string `yaml:"chat_model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"ollama"`
	Embeddings struct {
		TextModel string `yaml:"text_model"`
	} `yaml:"embeddings"`
	Processing struct {
		ChunkSize    int     `yaml:"chunk_size"`
		ChunkOverlap int     `yaml:"chunk_overlap"`
		TopK         int     `yaml:"top_k"`
		FetchK       int     `yaml:"fetch_k"`
		MMRLambda    float64 `yaml:"mmr_lambda"`
		PDFBackend   string  `yaml:"pdf_backend"`
	} `yaml:"processing"`
	Index struct {
		Backend string `yaml:"backend"`
	} `yaml:"index"`
	Database struct {
		ConnectionString string `yaml:"connection_string"`
	} `yaml:"database"`
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Display struct {
		SourceExcerptChars int `yaml:"source_excerpt_chars"`
	} `yaml:"display"`
	Log struct {
		Debug bool   `yaml:"debug"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Dir returns the per-user configuration directory.
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".pdfchat")
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load loads configuration from file or returns defaults.
// An empty path means DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks values that would make the pipeline misbehave.
func (c *Config) Validate() error {
	p := c.Processing
	if p.ChunkSize <= 0 {
		return fmt.Errorf("processing.chunk_size must be positive, got %d", p.ChunkSize)
	}
	if p.ChunkOverlap < 0 || p.ChunkOverlap >= p.ChunkSize {
		return fmt.Errorf("processing.chunk_overlap must be in [0, %d), got %d", p.ChunkSize, p.ChunkOverlap)
	}
	if p.TopK <= 0 {
		return fmt.Errorf("processing.top_k must be positive, got %d", p.TopK)
	}
	if p.FetchK < p.TopK {
		return fmt.Errorf("processing.fetch_k (%d) must be >= top_k (%d)", p.FetchK, p.TopK)
	}
	if p.MMRLambda < 0 || p.MMRLambda > 1 {
		return fmt.Errorf("processing.mmr_lambda must be in [0, 1], got %g", p.MMRLambda)
	}
	switch p.PDFBackend {
	case "fitz", "pure":
	default:
		return fmt.Errorf("unknown processing.pdf_backend %q", p.PDFBackend)
	}
	switch c.Index.Backend {
	case "memory":
	case "pgvector":
		if c.Database.ConnectionString == "" {
			return fmt.Errorf("index.backend pgvector needs database.connection_string")
		}
	default:
		return fmt.Errorf("unknown index.backend %q", c.Index.Backend)
	}
	if strings.TrimSpace(c.Ollama.ChatModel) == "" || strings.TrimSpace(c.Embeddings.TextModel) == "" {
		return fmt.Errorf("ollama.chat_model and embeddings.text_model are required")
	}
	return nil
}

// Timeout returns the HTTP timeout for Ollama calls.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Ollama.TimeoutSeconds) * time.Second
}

// applyEnv lets the environment override connection settings.
func (c *Config) applyEnv() {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			v = "http://" + v
		}
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv("PDFCHAT_DATABASE_URL"); v != "" {
		c.Database.ConnectionString = v
	}
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.Ollama.ChatModel = "llama3"
	cfg.Ollama.TimeoutSeconds = 300
	cfg.Embeddings.TextModel = "llama3"
	cfg.Processing.ChunkSize = 1000
	cfg.Processing.ChunkOverlap = 300
	cfg.Processing.TopK = 3
	cfg.Processing.FetchK = 20
	cfg.Processing.MMRLambda = 0.5
	cfg.Processing.PDFBackend = "fitz"
	cfg.Index.Backend = "memory"
	cfg.Database.ConnectionString = "postgres://postgres@localhost/postgres?sslmode=disable"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8501
	cfg.Display.SourceExcerptChars = 500
	cfg.Log.File = filepath.Join(Dir(), "pdfchat.log")

	return cfg
}
