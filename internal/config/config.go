package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
	R2        R2Config
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type EngineConfig struct {
	Binary         string
	OutputDir      string
	TimeoutSec     int // max processing duration for one mastering run
	StderrTailSize int // bytes of stderr retained for diagnostics
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxAttempts int
	BackoffMs   int // base delay; actual delay is base * attempt²
}

type RateLimitConfig struct {
	GenerateCapacity  int
	GenerateWindowSec int
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("LLM_API_KEY")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("engine.binary", "ENGINE_BINARY")
	_ = viper.BindEnv("engine.output_dir", "ENGINE_OUTPUT_DIR")
	_ = viper.BindEnv("engine.timeout", "ENGINE_PROCESS_TIMEOUT")
	_ = viper.BindEnv("engine.stderr_tail", "ENGINE_STDERR_TAIL")
	_ = viper.BindEnv("llm.api_key", "LLM_API_KEY")
	_ = viper.BindEnv("llm.base_url", "LLM_BASE_URL")
	_ = viper.BindEnv("llm.model", "LLM_MODEL")
	_ = viper.BindEnv("llm.max_attempts", "LLM_MAX_ATTEMPTS")
	_ = viper.BindEnv("llm.backoff_ms", "LLM_BACKOFF_MS")
	_ = viper.BindEnv("ratelimit.generate_capacity", "RATELIMIT_GENERATE_CAPACITY")
	_ = viper.BindEnv("ratelimit.generate_window", "RATELIMIT_GENERATE_WINDOW")
	_ = viper.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = viper.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = viper.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = viper.BindEnv("r2.public_url", "R2_PUBLIC_URL")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")

	// Engine defaults
	viper.SetDefault("engine.binary", "mastering-engine")
	viper.SetDefault("engine.output_dir", "./output")
	viper.SetDefault("engine.timeout", 600)
	viper.SetDefault("engine.stderr_tail", 800)

	// LLM defaults
	viper.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("llm.model", "llama-3.3-70b-versatile")
	viper.SetDefault("llm.max_attempts", 3)
	viper.SetDefault("llm.backoff_ms", 500)

	// Rate limit defaults
	viper.SetDefault("ratelimit.generate_capacity", 10)
	viper.SetDefault("ratelimit.generate_window", 60)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Engine: EngineConfig{
			Binary:         viper.GetString("engine.binary"),
			OutputDir:      viper.GetString("engine.output_dir"),
			TimeoutSec:     viper.GetInt("engine.timeout"),
			StderrTailSize: viper.GetInt("engine.stderr_tail"),
		},
		LLM: LLMConfig{
			APIKey:      viper.GetString("llm.api_key"),
			BaseURL:     viper.GetString("llm.base_url"),
			Model:       viper.GetString("llm.model"),
			MaxAttempts: viper.GetInt("llm.max_attempts"),
			BackoffMs:   viper.GetInt("llm.backoff_ms"),
		},
		RateLimit: RateLimitConfig{
			GenerateCapacity:  viper.GetInt("ratelimit.generate_capacity"),
			GenerateWindowSec: viper.GetInt("ratelimit.generate_window"),
		},
		R2: R2Config{
			AccountID:       viper.GetString("r2.account_id"),
			AccessKeyID:     viper.GetString("r2.access_key_id"),
			SecretAccessKey: viper.GetString("r2.secret_access_key"),
			BucketName:      viper.GetString("r2.bucket_name"),
			PublicURL:       viper.GetString("r2.public_url"),
		},
	}

	return cfg, nil
}
