package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server holds the hostpulse-server settings read from HOSTPULSE_* variables.
type Server struct {
	HTTPAddr       string
	GRPCAddr       string // empty when gRPC is disabled
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	ProbeInterval  time.Duration
	CORSOrigins    []string
	RunJWTSecret   string
	SuccessRate    float64
}

// DefaultSuccessRate is the probability that a flaky run succeeds.
const DefaultSuccessRate = 0.4

// LoadServer reads the server configuration from the environment.
func LoadServer() (Server, error) {
	requestTimeout, err := durationEnv("HOSTPULSE_REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return Server{}, err
	}
	probeInterval, err := durationEnv("HOSTPULSE_PROBE_INTERVAL", 10*time.Second)
	if err != nil {
		return Server{}, err
	}

	successRate := DefaultSuccessRate
	if v := strings.TrimSpace(os.Getenv("HOSTPULSE_SUCCESS_RATE")); v != "" {
		successRate, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return Server{}, fmt.Errorf("invalid HOSTPULSE_SUCCESS_RATE: %w", err)
		}
		if math.IsNaN(successRate) || successRate < 0 || successRate > 1 {
			return Server{}, fmt.Errorf("invalid HOSTPULSE_SUCCESS_RATE: %v not in [0, 1]", successRate)
		}
	}

	grpcAddr := env("HOSTPULSE_GRPC_ADDR", ":9090")
	if strings.EqualFold(grpcAddr, "off") {
		grpcAddr = ""
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("HOSTPULSE_CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Server{
		HTTPAddr:       env("HOSTPULSE_HTTP_ADDR", ":8080"),
		GRPCAddr:       grpcAddr,
		LogLevel:       env("HOSTPULSE_LOG_LEVEL", "info"),
		LogFormat:      env("HOSTPULSE_LOG_FORMAT", "text"),
		RequestTimeout: requestTimeout,
		ProbeInterval:  probeInterval,
		CORSOrigins:    origins,
		RunJWTSecret:   os.Getenv("HOSTPULSE_RUN_JWT_SECRET"),
		SuccessRate:    successRate,
	}, nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
