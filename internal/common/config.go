package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig
	Server ServerConfig
	OCR    OCRConfig
	LLM    LLMConfig
	Search SearchConfig
}

// StoreConfig holds document store configuration
type StoreConfig struct {
	Driver           string // memory | sqlite | postgres
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Method        string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	PSM           int
	OEM           int
	TSVConfidence bool
}

// LLMConfig holds generative-AI configuration
type LLMConfig struct {
	Provider      string // openai | vertex
	Model         string
	VisionModel   string
	APIKey        string
	BaseURL       string
	Temperature   float32
	Timeout       time.Duration
	VertexProject string
	VertexRegion  string
	VertexModel   string
}

// SearchConfig holds search behavior defaults
type SearchConfig struct {
	Enhance        bool
	MaxEnhanced    int
	RequestTimeout time.Duration
}

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory is applied first when present; real env vars win.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("config.dotenv.load_failed", "error", err)
	}
	return &Config{
		Store: StoreConfig{
			Driver:           strings.ToLower(getEnv("STORE_DRIVER", "memory")),
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Method:        getEnv("OCR_METHOD", "auto"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("TESSERACT_PSM", 0),
			OEM:           getEnvAsInt("TESSERACT_OEM", 0),
			TSVConfidence: getEnvAsBool("TESSERACT_TSV_CONFIDENCE", true),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			VisionModel:   getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			BaseURL:       getEnv("OPENAI_BASE_URL", ""),
			Temperature:   getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:       getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			VertexProject: getEnv("VERTEX_PROJECT_ID", ""),
			VertexRegion:  getEnv("VERTEX_AI_REGION", "us-central1"),
			VertexModel:   getEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		},
		Search: SearchConfig{
			Enhance:        getEnvAsBool("SEARCH_ENHANCE", false),
			MaxEnhanced:    getEnvAsInt("SEARCH_MAX_ENHANCED", 5),
			RequestTimeout: getEnvAsDuration("SEARCH_AI_TIMEOUT", 20*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// HasLLMCredential reports whether the configured provider can be reached at all.
func (c *Config) HasLLMCredential() bool {
	switch c.LLM.Provider {
	case "vertex":
		return c.LLM.VertexProject != ""
	default:
		return c.LLM.APIKey != ""
	}
}

// Validate validates the loaded configuration. A missing LLM credential is not
// an error: search and summaries degrade to their local fallbacks.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for store driver "+c.Store.Driver, ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "STORE_DRIVER must be one of memory, sqlite, postgres", ErrInvalidInput)
	}
	switch c.LLM.Provider {
	case "openai", "vertex":
	default:
		return NewAppError("CONFIG_ERROR", "LLM_PROVIDER must be openai or vertex", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.Search.MaxEnhanced < 0 {
		return NewAppError("CONFIG_ERROR", "SEARCH_MAX_ENHANCED must not be negative", ErrInvalidInput)
	}
	return nil
}
