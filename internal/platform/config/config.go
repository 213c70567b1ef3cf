package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	AdminPrincipal string
	JWTSigningKey  string
	ConsentBackend string

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	ZKP      ZKPConfig
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL selects
// the in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds event publishing settings. Empty brokers disable the
// outbox worker; events still accumulate in the outbox.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// ZKPConfig locates the Groth16 verifying key produced by cmd/zksetup.
type ZKPConfig struct {
	VerifyingKeyPath string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CREDVAULT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	admin := os.Getenv("CREDVAULT_ADMIN_PRINCIPAL")
	if admin == "" {
		admin = "admin"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	consentBackend := os.Getenv("CONSENT_BACKEND")
	if consentBackend == "" {
		consentBackend = "auto"
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "credvault.domain.events"
	}

	vkPath := os.Getenv("ZKP_VERIFYING_KEY")
	if vkPath == "" {
		vkPath = "keys/verifying.key"
	}

	return Server{
		Addr:           addr,
		AdminPrincipal: admin,
		JWTSigningKey:  jwtSigningKey,
		ConsentBackend: consentBackend,
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   topic,
		},
		ZKP: ZKPConfig{
			VerifyingKeyPath: vkPath,
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
