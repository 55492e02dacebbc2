package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverCSV      = "csv"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Storage
	FacesDir       string `envconfig:"FACES_DIR" default:"faces"`
	AttendanceFile string `envconfig:"ATTENDANCE_FILE" default:"attendance.csv"`
	SummaryFile    string `envconfig:"SUMMARY_FILE" default:"summarize.csv"`
	StoreDriver    string `envconfig:"STORE_DRIVER" default:"csv"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Provider
	FaceProvider     string `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL      string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceModel    string `envconfig:"DEEPFACE_MODEL" default:"Dlib"`
	DeepFaceDetector string `envconfig:"DEEPFACE_DETECTOR" default:"dlib"`

	// Attendance
	AttendancePolicy string `envconfig:"ATTENDANCE_POLICY" default:"every"`
	SummaryCron      string `envconfig:"SUMMARY_CRON" default:"5 17 * * *"`
	Timezone         string `envconfig:"TIMEZONE" default:"Local"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverCSV:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (supported: %s, %s)", c.StoreDriver, StoreDriverCSV, StoreDriverPostgres)
	}

	if c.FacesDir == "" {
		return errors.New("FACES_DIR must not be empty")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves TIMEZONE. Attendance timestamps and day boundaries use it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
