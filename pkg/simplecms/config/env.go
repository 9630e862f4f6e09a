package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv applies environment variable overrides on top of the current values.
// Only variables that are set take effect.
//
// Besides the field-level variables (see the env tags on ServerConfig), two
// connection strings are understood:
//
//	DATABASE_URL - "memory" or "postgres[ql]://..." (sets DATABASE_TYPE)
//	STORAGE_URL  - "memory://", "file:///path/to/media" or
//	               "s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true"
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return c.applyConnectionStrings()
	}
}

// WithFile reads a yaml, json, toml or env file and then the environment,
// the same way cleanenv.ReadConfig layers them.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return c.applyConnectionStrings()
	}
}

// applyConnectionStrings derives database and storage settings from the URL forms
func (c *ServerConfig) applyConnectionStrings() error {
	if err := c.applyDatabaseURL(); err != nil {
		return err
	}
	return c.applyStorageURL()
}

func (c *ServerConfig) applyDatabaseURL() error {
	dbURL := c.DatabaseURL
	switch {
	case dbURL == "":
		return nil
	case dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
	return nil
}

func (c *ServerConfig) applyStorageURL() error {
	raw := c.StorageURL
	if raw == "" {
		return nil
	}
	if raw == "memory" || raw == "memory://" {
		c.StorageType = "memory"
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		path := u.Host + u.Path
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.StorageType = "fs"
		c.FS.BaseDir = path
		if prefix := u.Query().Get("url_prefix"); prefix != "" {
			c.FS.URLPrefix = prefix
		}
		return nil

	case "s3":
		if u.Host == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}
		q := u.Query()
		c.StorageType = "s3"
		c.S3.Bucket = u.Host
		if v := q.Get("region"); v != "" {
			c.S3.Region = v
		}
		if v := q.Get("endpoint"); v != "" {
			c.S3.Endpoint = v
		}
		if v := q.Get("public_base_url"); v != "" {
			c.S3.PublicBaseURL = v
		}
		if v := q.Get("path_style"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid path_style in STORAGE_URL: %w", err)
			}
			c.S3.UsePathStyle = b
		}
		return nil
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", raw)
}
