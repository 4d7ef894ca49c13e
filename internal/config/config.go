package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/support-portal/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Zammad       ZammadConfig
	Dispatch     DispatchConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig configures the optional event stream. Empty Brokers keeps
// event publication in-process.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token verification parameters. Tokens are issued by
// the portal's session service; this service only verifies them.
type AuthConfig struct {
	JWTSecret string
}

// ZammadConfig points at the ticketing backend.
type ZammadConfig struct {
	BaseURL        string
	Token          string
	TimeoutSeconds int
}

// DispatchConfig carries the region topology and the assignment exclusion
// rules. All of it is injected so tests can substitute fixtures.
type DispatchConfig struct {
	RegionGroups         map[domain.Region]int
	UsersGroupID         int
	AdminRoleID          int
	UnassignedOwnerID    int
	ExcludedEmails       []string
	StateCacheTTLSeconds int
	AssignedTicketState  string
}

// NotificationConfig holds the delivery stub endpoints.
type NotificationConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	regionGroups, err := parseRegionGroups(getEnv("DISPATCH_REGION_GROUPS", "asia-pacific:5,europe:6,americas:7"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_REGION_GROUPS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "support-portal.assignments"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "dev-secret"),
		},
		Zammad: ZammadConfig{
			BaseURL:        getEnv("ZAMMAD_URL", "http://127.0.0.1:3000"),
			Token:          os.Getenv("ZAMMAD_TOKEN"),
			TimeoutSeconds: getEnvAsInt("ZAMMAD_TIMEOUT_SECONDS", 30),
		},
		Dispatch: DispatchConfig{
			RegionGroups:         regionGroups,
			UsersGroupID:         getEnvAsInt("DISPATCH_USERS_GROUP_ID", 1),
			AdminRoleID:          getEnvAsInt("DISPATCH_ADMIN_ROLE_ID", 1),
			UnassignedOwnerID:    getEnvAsInt("DISPATCH_UNASSIGNED_OWNER_ID", 1),
			ExcludedEmails:       splitNonEmpty(getEnv("DISPATCH_EXCLUDED_EMAILS", "system@example.com,noreply@example.com")),
			StateCacheTTLSeconds: getEnvAsInt("DISPATCH_STATE_CACHE_TTL_SECONDS", 300),
			AssignedTicketState:  getEnv("DISPATCH_ASSIGNED_TICKET_STATE", "open"),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// RegionMap materializes the configured region topology.
func (d DispatchConfig) RegionMap() *domain.RegionMap {
	return domain.NewRegionMap(d.RegionGroups, d.UsersGroupID)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the backend client timeout.
func (z ZammadConfig) Timeout() time.Duration {
	if z.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(z.TimeoutSeconds) * time.Second
}

// StateCacheTTL returns the active-state cache TTL.
func (d DispatchConfig) StateCacheTTL() time.Duration {
	if d.StateCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(d.StateCacheTTLSeconds) * time.Second
}

// parseRegionGroups parses "region:groupID" pairs separated by commas.
func parseRegionGroups(raw string) (map[domain.Region]int, error) {
	groups := make(map[domain.Region]int)
	for _, pair := range splitNonEmpty(raw) {
		name, idStr, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, fmt.Errorf("malformed group id in %q", pair)
		}
		groups[domain.Region(strings.TrimSpace(name))] = id
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no region mappings")
	}
	return groups, nil
}

func splitNonEmpty(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
