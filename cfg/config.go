package cfg

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type BackendConfig struct {
	BaseURL string
}

type PollConfig struct {
	IntervalSeconds int
	MaxAttempts     int
}

type ObservabilityConfig struct {
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type Config struct {
	AppEnv          string
	AppPort         string
	RedisConfig     RedisConfig
	BackendConfig   BackendConfig
	PollConfig      PollConfig
	Observability   ObservabilityConfig
	CacheTTLMinutes int
}

func Load() (*Config, error) {
	var errs []error

	err := godotenv.Load()
	if err != nil {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)
	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := mustEnv("REDIS_PASSWORD", &errs)

	backendBaseURL := mustEnv("BACKEND_BASE_URL", &errs)

	cacheTTLMinutes := mustIntEnv("CACHE_TTL_MINUTES", &errs)
	pollInterval := mustIntEnv("POLL_INTERVAL_SECONDS", &errs)
	pollMaxAttempts := mustIntEnv("POLL_MAX_ATTEMPTS", &errs)

	otlpEndpoint := mustEnv("OTLP_ENDPOINT", &errs)
	serviceName := mustEnv("SERVICE_NAME", &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		BackendConfig: BackendConfig{
			BaseURL: backendBaseURL,
		},
		PollConfig: PollConfig{
			IntervalSeconds: pollInterval,
			MaxAttempts:     pollMaxAttempts,
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: otlpEndpoint,
			ServiceName:  serviceName,
			Environment:  appEnv,
		},
		CacheTTLMinutes: cacheTTLMinutes,
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func mustIntEnv(key string, errs *[]error) int {
	value := mustEnv(key, errs)
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
	}
	return n
}
