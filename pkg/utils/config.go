package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	SeedFile string
}

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	Debug           bool
	LogPath         string
	ImagesDir       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host          string
	Port          string
	Name          string
	User          string
	Password      string
	SSLMode       string
	MaxConns      int32
	RunMigrations bool
}

// RedisConfig kosong (Addr == "") berarti cache dimatikan
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// AMQPConfig kosong (URL == "") berarti event tidak dipublish
type AMQPConfig struct {
	URL      string
	Exchange string
}

// LoadConfig membaca .env (opsional), environment, dan flag command line.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "course-booking")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("IMAGES_DIR", "public/images")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "course_app")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_RUN_MIGRATIONS", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 30)
	v.SetDefault("AMQP_EXCHANGE", "course_booking")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	flags := pflag.NewFlagSet("course-booking", pflag.ContinueOnError)
	flags.String("seed", "", "replace the courses collection from a {\"Courses\": [...]} JSON file and exit")
	flags.String("port", "", "HTTP port (overrides PORT)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("SEED_FILE", flags.Lookup("seed")); err != nil {
		return nil, err
	}
	if port, _ := flags.GetString("port"); port != "" {
		v.Set("PORT", port)
	}

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Env:             v.GetString("APP_ENV"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ImagesDir:       v.GetString("IMAGES_DIR"),
			CORSOrigins:     splitList(v.GetString("CORS_ALLOW_ORIGINS")),
			ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			Name:          v.GetString("DB_NAME"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASS"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			MaxConns:      v.GetInt32("DB_MAX_CONNS"),
			RunMigrations: v.GetBool("DB_RUN_MIGRATIONS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		SeedFile: v.GetString("SEED_FILE"),
	}

	return config, nil
}

// splitList parses "a, b,c" into [a b c]; viper's GetStringSlice splits on spaces only.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
