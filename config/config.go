package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceFile      = "file"
	SourceHTTP      = "http"
	SourceFirestore = "firestore"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Data       DataConfig      `yaml:"data"`
	Display    DisplayConfig   `yaml:"display"`
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
	Log        LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type DataConfig struct {
	Source              string `yaml:"source"`
	Path                string `yaml:"path"`
	URL                 string `yaml:"url"`
	FirestoreProject    string `yaml:"firestore_project"`
	FirestoreCollection string `yaml:"firestore_collection"`
	CredentialsFile     string `yaml:"credentials_file"`
}

type DisplayConfig struct {
	TimeLayout string `yaml:"time_layout"`
	Timezone   string `yaml:"timezone"`
}

type ThumbnailConfig struct {
	Height uint `yaml:"height"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Data: DataConfig{
			Source:              SourceFile,
			Path:                "Data/recipes.json",
			FirestoreCollection: "recipes",
		},
		Display: DisplayConfig{
			TimeLayout: "1/2/2006, 3:04:05 PM",
			Timezone:   "Local",
		},
		Thumbnails: ThumbnailConfig{Height: 500},
		Log:        LogConfig{Level: "info"},
	}
}

// Load builds a Config from defaults, the YAML file at path (if non-empty)
// and RECIPEVIEWER_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "RECIPEVIEWER_ADDR")
	setString(&cfg.Data.Source, "RECIPEVIEWER_DATA_SOURCE")
	setString(&cfg.Data.Path, "RECIPEVIEWER_DATA_PATH")
	setString(&cfg.Data.URL, "RECIPEVIEWER_DATA_URL")
	setString(&cfg.Data.FirestoreProject, "RECIPEVIEWER_FIRESTORE_PROJECT")
	setString(&cfg.Data.FirestoreCollection, "RECIPEVIEWER_FIRESTORE_COLLECTION")
	setString(&cfg.Data.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.Log.Level, "RECIPEVIEWER_LOG_LEVEL")
	setString(&cfg.Display.Timezone, "RECIPEVIEWER_TIMEZONE")
	if v, ok := os.LookupEnv("RECIPEVIEWER_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate reports the first problem found in the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Data.Source {
	case SourceFile:
		if c.Data.Path == "" {
			return errors.New("data.path is required for the file source")
		}
	case SourceHTTP:
		if c.Data.URL == "" {
			return errors.New("data.url is required for the http source")
		}
	case SourceFirestore:
		if c.Data.FirestoreProject == "" {
			return errors.New("data.firestore_project is required for the firestore source")
		}
		if c.Data.FirestoreCollection == "" {
			return errors.New("data.firestore_collection is required for the firestore source")
		}
	default:
		return fmt.Errorf("unknown data.source %q", c.Data.Source)
	}
	if c.Thumbnails.Height == 0 {
		return errors.New("thumbnails.height must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves display.timezone; empty and "Local" mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Display.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("display.timezone: %w", err)
	}
	return loc, nil
}
