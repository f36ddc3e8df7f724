package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultConfigFile = "config.yaml"
	minSecretLength   = 32
)

type Config struct {
	Env                string         `yaml:"env"`
	Port               string         `yaml:"port"`
	DatabaseURL        string         `yaml:"database_url"`
	SessionSecret      string         `yaml:"session_secret"`
	UploadDir          string         `yaml:"upload_dir"`
	AllowedOrigins     []string       `yaml:"allowed_origins"`
	DBMaxOpenConns     int            `yaml:"db_max_open_conns"`
	LoginRatePerMinute int            `yaml:"login_rate_per_minute"`
	TrustProxyHeaders  bool           `yaml:"trust_proxy_headers"`
	Firebase           FirebaseConfig `yaml:"firebase"`
}

type FirebaseConfig struct {
	CredentialsFile   string `yaml:"credentials_file"`
	CredentialsBase64 string `yaml:"credentials_base64"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// read builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins).
func read() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	cfg := defaults()

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load builds the server configuration and validates every key.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is for operator commands that only talk to the database; the
// session secret is not needed there.
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	if cfg.DBMaxOpenConns <= 0 {
		return nil, errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Env:                EnvProduction,
		Port:               "8080",
		UploadDir:          "./uploads",
		DBMaxOpenConns:     10,
		LoginRatePerMinute: 10,
		Firebase: FirebaseConfig{
			CredentialsFile: "./firebase-service-account.json",
		},
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	expanded := os.Expand(string(data), expandWithDefault)
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	log.Printf("✅ Config file loaded: %s", path)
	return nil
}

// expandWithDefault resolves ${NAME} and ${NAME:-fallback}.
func expandWithDefault(name string) string {
	key, fallback, _ := strings.Cut(name, ":-")
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() error {
	if _, ok := os.LookupEnv("AUTH_SKIP_PASSWORD_CHECK"); ok {
		return errors.New("AUTH_SKIP_PASSWORD_CHECK is not supported: password verification cannot be disabled")
	}

	setString(&c.Env, "APP_ENV")
	setString(&c.Port, "PORT")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.SessionSecret, "APP_SESSION_SECRET")
	setString(&c.UploadDir, "UPLOAD_DIR")
	setString(&c.Firebase.CredentialsFile, "FIREBASE_CREDENTIALS_FILE")
	setString(&c.Firebase.CredentialsBase64, "FIREBASE_CREDENTIALS_BASE64")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}
	if err := setInt(&c.DBMaxOpenConns, "DB_MAX_OPEN_CONNS"); err != nil {
		return err
	}
	if err := setInt(&c.LoginRatePerMinute, "LOGIN_RATE_PER_MINUTE"); err != nil {
		return err
	}
	return setBool(&c.TrustProxyHeaders, "TRUST_PROXY_HEADERS")
}

func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("APP_SESSION_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.DBMaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.LoginRatePerMinute <= 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	if len(c.AllowedOrigins) == 0 && c.IsDevelopment() {
		c.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s must be true or false: %w", key, err)
	}
	*dst = b
	return nil
}
