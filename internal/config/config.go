package config

import (
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"product-catalog/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort                string
	AppName                string
	MongoURI               string
	MongoDBName            string
	RateLimitMax           int64
	RateLimitWindowMs      int64
	RemoteLogHttpURI       string
	RemoteTraceRpcURI      string
	RemoteProfilingHttpURI string
}

// SafeConfig is the loggable view of Config, without connection strings.
type SafeConfig struct {
	AppPort                string `json:"app_port"`
	AppName                string `json:"app_name"`
	MongoDBName            string `json:"mongo_db_name"`
	RateLimitMax           int64  `json:"rate_limit_max"`
	RateLimitWindowMs      int64  `json:"rate_limit_window_ms"`
	RemoteLogHttpURI       string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string `json:"remote_profiling_http_uri"`
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "4200"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

// Prefer the `json:"..."` tag name; fall back to camelCase->snake.
func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		MongoDBName:            c.MongoDBName,
		RateLimitMax:           c.RateLimitMax,
		RateLimitWindowMs:      c.RateLimitWindowMs,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

var log = logger.Instance()
var (
	configInstance *Config
	configOnce     sync.Once
)

func setInt64(varName string, fallback int64) int64 {
	val := os.Getenv(varName)
	if val == "" {
		return fallback
	}

	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Warn("Invalid value, using fallback", slog.String("var", varName), slog.Int64("fallback", fallback))
		return fallback
	}

	return num
}

func Instance() *Config {
	configOnce.Do(func() {

		// Load .env file (optional)
		if err := godotenv.Load(); err != nil {
			log.Warn("No .env file found, using system environment variables")
		}

		configInstance = &Config{
			AppPort:                os.Getenv("APP_PORT"),
			AppName:                os.Getenv("APP_NAME"),
			MongoURI:               os.Getenv("MONGO_URI"),
			MongoDBName:            os.Getenv("MONGO_DB_NAME"),
			RateLimitMax:           setInt64("RATE_LIMIT_MAX", 100),
			RateLimitWindowMs:      setInt64("RATE_LIMIT_WINDOW_MS", 60_000),
			RemoteLogHttpURI:       os.Getenv("REMOTE_LOG_HTTP_URI"),
			RemoteTraceRpcURI:      os.Getenv("REMOTE_TRACE_RPC_URI"),
			RemoteProfilingHttpURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
		}

		// Optional but recommended
		if configInstance.RemoteLogHttpURI == "" {
			log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
		}
		if configInstance.RemoteTraceRpcURI == "" {
			log.Warn("Missing REMOTE_TRACE_RPC_URI will export traces to stdout")
		}
		if configInstance.RemoteProfilingHttpURI == "" {
			log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip profiling")
		}

		// Validate required env
		var missing []string
		if configInstance.AppPort == "" {
			missing = append(missing, "APP_PORT")
		}
		if configInstance.AppName == "" {
			missing = append(missing, "APP_NAME")
		}
		if configInstance.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if configInstance.MongoDBName == "" {
			missing = append(missing, "MONGO_DB_NAME")
		}

		if len(missing) > 0 {
			log.Error("Missing required environment variables", slog.Any("missing", missing))
			os.Exit(1)
		}

		attrs := StructAttrs("data", configInstance.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		log.Info("Configuration loaded successfully", anyAttrs...)
	})

	return configInstance
}
