package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session backends.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	Env  string
	Port int

	API        APIConfig
	Pagination PaginationConfig
	Session    SessionConfig
	Redis      RedisConfig
	Cache      CacheConfig
	CORS       CORSConfig
	Log        LogConfig
	Knowledge  KnowledgeConfig
}

// APIConfig points the console at the remote admission and knowledge services.
type APIConfig struct {
	BaseURL          string
	KnowledgeBaseURL string
	Timeout          time.Duration
}

// PaginationConfig holds list defaults shared by every page.
type PaginationConfig struct {
	PageSize    int
	DefaultYear int
}

// SessionConfig selects where the operator session is persisted.
type SessionConfig struct {
	Backend   string
	Dir       string
	KeyPrefix string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs the reference-data cache in front of list requests.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// KnowledgeConfig controls document upload validation and the background upload queue.
type KnowledgeConfig struct {
	MaxUploadBytes    int64
	AllowedExtensions []string
	Workers           int
	Retries           int
	RetryDelay        time.Duration
	KeepFinished      int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.API = APIConfig{
		BaseURL:          strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		KnowledgeBaseURL: strings.TrimRight(v.GetString("KNOWLEDGE_API_BASE_URL"), "/"),
		Timeout:          parseDuration(v.GetString("API_TIMEOUT"), 30*time.Second),
	}

	pageSize := v.GetInt("PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.Pagination = PaginationConfig{
		PageSize:    pageSize,
		DefaultYear: v.GetInt("DEFAULT_YEAR"),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("SESSION_BACKEND")))
	switch backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		backend = SessionBackendFile
	}
	cfg.Session = SessionConfig{
		Backend:   backend,
		Dir:       v.GetString("SESSION_DIR"),
		KeyPrefix: v.GetString("SESSION_KEY_PREFIX"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("KNOWLEDGE_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		maxUpload = 50 * 1024 * 1024
	}
	cfg.Knowledge = KnowledgeConfig{
		MaxUploadBytes:    maxUpload,
		AllowedExtensions: normaliseExtensions(splitAndTrim(v.GetString("KNOWLEDGE_ALLOWED_EXTENSIONS"))),
		Workers:           v.GetInt("UPLOAD_WORKERS"),
		Retries:           v.GetInt("UPLOAD_RETRIES"),
		RetryDelay:        parseDuration(v.GetString("UPLOAD_RETRY_DELAY"), 2*time.Second),
		KeepFinished:      v.GetInt("UPLOAD_HISTORY"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("API_BASE_URL", "https://core-tuyensinh-production.up.railway.app/api/v1")
	v.SetDefault("KNOWLEDGE_API_BASE_URL", "https://agent-tuyensinh-production.up.railway.app/v1/api")
	v.SetDefault("API_TIMEOUT", "30s")

	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("DEFAULT_YEAR", 2025)

	v.SetDefault("SESSION_BACKEND", SessionBackendFile)
	v.SetDefault("SESSION_DIR", "./.session")
	v.SetDefault("SESSION_KEY_PREFIX", "admission-admin:session:")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("KNOWLEDGE_MAX_UPLOAD_BYTES", 50*1024*1024)
	v.SetDefault("KNOWLEDGE_ALLOWED_EXTENSIONS", ".md,.pdf,.docx,.txt,.json")
	v.SetDefault("UPLOAD_WORKERS", 2)
	v.SetDefault("UPLOAD_RETRIES", 3)
	v.SetDefault("UPLOAD_RETRY_DELAY", "2s")
	v.SetDefault("UPLOAD_HISTORY", 100)
}

// isMissingFile treats an absent .env as "use the environment only".
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func normaliseExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
