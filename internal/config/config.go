package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/logger"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Emotion EmotionConfig
	Mood    MoodConfig
	Log     LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	emotion, err := loadEmotionConfig(ai)
	if err != nil {
		return nil, err
	}

	moodCfg, err := loadMoodConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Emotion: emotion,
		Mood:    moodCfg,
		Log:     loadLogConfig(),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址与 CORS 来源。
func loadServerConfig() (ServerConfig, error) {
	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey            string
	AccessKey         string
	SecretKey         string
	Model             string
	BaseURL           string
	Region            string
	Temperature       *float64
	TopP              *float64
	MaxTokens         *int
	StreamResponse    bool
	EmotionLLMEnabled bool
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("chat model credentials missing: set ARK_API_KEY (or ARK_ACCESS_KEY + ARK_SECRET_KEY) and Model")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		val := 0.75
		temperature = &val
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		val := 512
		maxTokens = &val
	}

	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	emotionEnabled, err := parseBoolEnv("AI_EMOTION_LLM_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	modelName := strings.TrimSpace(os.Getenv("Model"))
	if modelName == "" {
		modelName = strings.TrimSpace(os.Getenv("ARK_MODEL"))
	}

	return AIConfig{
		APIKey:            strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:         strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:         strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:             modelName,
		BaseURL:           getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:            getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:       temperature,
		TopP:              topP,
		MaxTokens:         maxTokens,
		StreamResponse:    stream,
		EmotionLLMEnabled: emotionEnabled,
	}, nil
}

// 情绪识别的提供方与失败回退策略。
const (
	ProviderHuggingFace = "huggingface"
	ProviderLLM         = "llm"
	ProviderLexicon     = "lexicon"

	FallbackNeutral = "neutral"
	FallbackLexicon = "lexicon"
)

// DefaultHuggingFaceURL 为默认的情绪分类模型推理地址。
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/j-hartmann/emotion-english-distilroberta-base"

// EmotionConfig 描述情绪识别相关配置。
type EmotionConfig struct {
	Provider          string
	HuggingFaceAPIKey string
	HuggingFaceURL    string
	Timeout           time.Duration
	Fallback          string
}

func loadEmotionConfig(ai AIConfig) (EmotionConfig, error) {
	timeout, err := parseOptionalIntEnv("EMOTION_TIMEOUT")
	if err != nil {
		return EmotionConfig{}, err
	}
	timeoutSeconds := 10
	if timeout != nil && *timeout > 0 {
		timeoutSeconds = *timeout
	}

	cfg := EmotionConfig{
		HuggingFaceAPIKey: strings.TrimSpace(os.Getenv("HUGGINGFACE_API_KEY")),
		HuggingFaceURL:    getEnvOrDefault("HUGGINGFACE_EMOTION_URL", DefaultHuggingFaceURL),
		Timeout:           time.Duration(timeoutSeconds) * time.Second,
	}

	switch fallback := strings.ToLower(getEnvOrDefault("EMOTION_FALLBACK", FallbackNeutral)); fallback {
	case FallbackNeutral, FallbackLexicon:
		cfg.Fallback = fallback
	default:
		return EmotionConfig{}, fmt.Errorf("invalid EMOTION_FALLBACK value: %q", fallback)
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("EMOTION_PROVIDER")))
	switch provider {
	case ProviderHuggingFace, ProviderLLM, ProviderLexicon:
	case "":
		// 未显式指定时按可用凭证自动选择。
		switch {
		case cfg.HuggingFaceAPIKey != "":
			provider = ProviderHuggingFace
		case ai.EmotionLLMEnabled && ai.Enabled():
			provider = ProviderLLM
		default:
			provider = ProviderLexicon
		}
	default:
		return EmotionConfig{}, fmt.Errorf("invalid EMOTION_PROVIDER value: %q", provider)
	}
	cfg.Provider = provider

	return cfg, nil
}

// MoodConfig 描述情绪统计相关的产品开关。
type MoodConfig struct {
	Scoring       mood.Scoring
	CascadeDelete bool
	Extended      bool
}

// Lexicon 返回配置对应的本地关键词分类器。
func (c MoodConfig) Lexicon() *mood.Lexicon {
	if c.Extended {
		return mood.ExtendedLexicon()
	}
	return mood.BasicLexicon()
}

func loadMoodConfig() (MoodConfig, error) {
	scoring, err := mood.ParseScoring(os.Getenv("MOOD_SCORING"))
	if err != nil {
		return MoodConfig{}, fmt.Errorf("invalid MOOD_SCORING value: %w", err)
	}

	cascade, err := parseBoolEnv("MOOD_CASCADE_DELETE", false)
	if err != nil {
		return MoodConfig{}, err
	}

	var extended bool
	switch lexicon := strings.ToLower(getEnvOrDefault("MOOD_LEXICON", "basic")); lexicon {
	case "basic":
	case "extended":
		extended = true
	default:
		return MoodConfig{}, fmt.Errorf("invalid MOOD_LEXICON value: %q", lexicon)
	}

	return MoodConfig{Scoring: scoring, CascadeDelete: cascade, Extended: extended}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Logger 转换为 logger 包的配置。
func (c LogConfig) Logger() logger.Config {
	return logger.Config{Level: c.Level, Format: c.Format, File: c.File}
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
		File:   strings.TrimSpace(os.Getenv("LOG_FILE")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
