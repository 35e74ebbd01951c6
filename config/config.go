package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Storage    StorageConfig    `yaml:"storage"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Media      MediaConfig      `yaml:"media"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	PublicURL      string   `yaml:"public_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// RedisConfig is optional; an empty Address disables caching and event publishing.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	Secret        string `yaml:"secret"`
	ReceiptSecret string `yaml:"receipt_secret"`
	CookieName    string `yaml:"cookie_name"`
	SecureCookie  bool   `yaml:"secure_cookie"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
}

// ReceiptKey is the HMAC key for receipt QR payloads. It falls back to the
// token secret when no receipt secret is configured.
func (s SessionConfig) ReceiptKey() string {
	if s.ReceiptSecret != "" {
		return s.ReceiptSecret
	}
	return s.Secret
}

type StorageConfig struct {
	Provider   string `yaml:"provider"` // "cloudinary" or "local"
	Folder     string `yaml:"folder"`
	ScratchDir string `yaml:"scratch_dir"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

type MediaConfig struct {
	DownloadTimeout   time.Duration `yaml:"download_timeout"`
	MaxDownloadBytes  int64         `yaml:"max_download_bytes"`
	MaxUploadFiles    int           `yaml:"max_upload_files"`
	MaxImageDimension int           `yaml:"max_image_dimension"`
}

type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

const (
	ProviderCloudinary = "cloudinary"
	ProviderLocal      = "local"
)

// Default returns the configuration used when nothing overrides a field.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           ":4000",
			PublicURL:      "http://localhost:4000",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "roomradar",
		},
		Redis: RedisConfig{PoolSize: 10},
		Session: SessionConfig{
			CookieName: "token",
			BcryptCost: 10,
		},
		Storage: StorageConfig{
			Provider:   ProviderLocal,
			Folder:     "uploads",
			ScratchDir: os.TempDir(),
		},
		Media: MediaConfig{
			DownloadTimeout:   10 * time.Second,
			MaxDownloadBytes:  20 << 20,
			MaxUploadFiles:    100,
			MaxImageDimension: 2560,
		},
		RateLimit: RateLimitConfig{PerSecond: 5, Burst: 10},
	}
}

// Load reads .env (if present), then the optional YAML file at path with
// environment variables expanded, then applies direct env overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.Server.Port = normalizePort(cfg.Server.Port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.PublicURL, "PUBLIC_URL")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	setString(&cfg.Mongo.URI, "MONGO_URL")
	setString(&cfg.Mongo.Database, "MONGO_DB")

	setString(&cfg.Redis.Address, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Session.Secret, "JWT_SECRET")
	setString(&cfg.Session.ReceiptSecret, "RECEIPT_SECRET")
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Session.SecureCookie = b
		}
	}

	setString(&cfg.Storage.Provider, "STORAGE_PROVIDER")
	setString(&cfg.Storage.ScratchDir, "SCRATCH_DIR")

	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
}

// Validate reports missing settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session secret is required (JWT_SECRET)"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo uri is required (MONGO_URL)"))
	}
	switch c.Storage.Provider {
	case ProviderLocal:
	case ProviderCloudinary:
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			errs = append(errs, errors.New("cloudinary provider needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage provider %q", c.Storage.Provider))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePort(port string) string {
	if port == "" {
		return ":4000"
	}
	if port[0] != ':' && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
