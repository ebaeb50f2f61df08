package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config is read once at start-up. Nothing else in the process reads the environment.
type Config struct {
	Port string
	Mode string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string

	RedisURL          string
	CacheTTL          time.Duration
	ViewFlushInterval time.Duration

	JWTSecret         []byte
	AdminUsername     string
	AdminPasswordHash string

	// ShowSampleContent renders placeholder documents when a detail page
	// cannot load its content, instead of answering 404.
	ShowSampleContent bool
	ImageFallbackText string
	ImageProbe        bool

	UploadDir      string
	PublicBaseURL  string
	AllowedOrigins []string
	// TrustedProxies are CIDRs or addresses whose X-Forwarded-For is believed.
	TrustedProxies []string

	ContactRatePerMinute int
}

// Load reads .env (when present) and the process environment.
// It reports whether a .env file was found.
func Load() (Config, bool) {
	found := godotenv.Load() == nil

	port := getenv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	cfg := Config{
		Port:                 port,
		Mode:                 getenv("APP_MODE", "development"),
		StoreDriver:          strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		MongoURI:             getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getenv("MONGODB_DATABASE", "portfolio26"),
		SQLitePath:           getenv("SQLITE_PATH", "portfolio26.db"),
		RedisURL:             os.Getenv("REDIS_URL"),
		CacheTTL:             duration("CACHE_TTL", 5*time.Minute),
		ViewFlushInterval:    duration("VIEW_FLUSH_INTERVAL", 15*time.Second),
		JWTSecret:            []byte(os.Getenv("JWT_SECRET")),
		AdminUsername:        getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		ShowSampleContent:    boolean("SHOW_SAMPLE_CONTENT", false),
		ImageFallbackText:    getenv("IMAGE_FALLBACK_TEXT", "Image not available"),
		ImageProbe:           boolean("IMAGE_PROBE", false),
		UploadDir:            getenv("UPLOAD_DIR", "static/uploads"),
		PublicBaseURL:        strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		TrustedProxies:       list("TRUSTED_PROXIES", nil),
		ContactRatePerMinute: integer("CONTACT_RATE_PER_MINUTE", 5),
	}
	cfg.AllowedOrigins = list("ALLOWED_ORIGINS", []string{cfg.PublicBaseURL})
	return cfg, found
}

func (c Config) Production() bool {
	m := strings.ToLower(c.Mode)
	return m == "production" || m == "prod"
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolean(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func integer(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func duration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func list(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
