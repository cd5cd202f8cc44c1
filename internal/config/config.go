package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Config aggregates the configuration for the whole service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Assistant AssistantConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Assistant: assistant}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Gemini model settings.
type AIConfig struct {
	APIKey         string
	Model          string
	Temperature    *float64
	MaxTokens      *int
	StreamResponse bool
}

// Enabled reports whether a credential is present. Absence is a supported
// mode, not an error: the assistant then answers from canned rules only.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// NewClient creates a Gemini API client from the configuration.
func (c AIConfig) NewClient(ctx context.Context) (*genai.Client, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("GEMINI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("GEMINI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("GEMINI_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		StreamResponse: stream,
	}, nil
}

// AssistantConfig tunes the response router.
type AssistantConfig struct {
	// MockLatency is the simulated round-trip delay applied before a canned
	// reply when no live model is reachable. Zero disables the delay.
	MockLatency time.Duration
}

func loadAssistantConfig() (AssistantConfig, error) {
	latencyMS, err := parseOptionalIntEnv("ASSISTANT_MOCK_LATENCY_MS")
	if err != nil {
		return AssistantConfig{}, err
	}

	latency := 600 * time.Millisecond
	if latencyMS != nil {
		if *latencyMS < 0 {
			return AssistantConfig{}, fmt.Errorf("ASSISTANT_MOCK_LATENCY_MS must not be negative")
		}
		latency = time.Duration(*latencyMS) * time.Millisecond
	}

	return AssistantConfig{MockLatency: latency}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
