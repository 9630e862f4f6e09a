package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/api"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	repopg "github.com/tendant/simple-cms/pkg/simplecms/repo/postgres"
	fsstorage "github.com/tendant/simple-cms/pkg/simplecms/storage/fs"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
	s3storage "github.com/tendant/simple-cms/pkg/simplecms/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DBSchema:     "public",
		StorageType:  "memory",
		FS: FSConfig{
			BaseDir:   "./data/media",
			URLPrefix: "/media",
		},
		S3: S3Config{
			Region:       "us-east-1",
			SSEAlgorithm: "AES256",
		},
		DefaultAuthor:      simplecms.DefaultAuthor,
		BlogImageFolder:    simplecms.DefaultBlogImageFolder,
		ProjectImageFolder: simplecms.DefaultProjectImageFolder,
		KeyGenerator:       "folder",
		MaxUploadBytes:     10 << 20,
		RateLimitRequests:  100,
		RateLimitWindow:    15 * time.Minute,
		CORSOrigins:        []string{"*"},
		RequestTimeout:     60 * time.Second,
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the simple-cms service.
// Struct tags drive cleanenv for both environment variables and config files.
type ServerConfig struct {
	Port        string `yaml:"port" env:"PORT"`
	Environment string `yaml:"environment" env:"ENVIRONMENT"` // development, production, testing

	// Database configuration
	DatabaseURL  string `yaml:"database_url" env:"DATABASE_URL"`
	DatabaseType string `yaml:"database_type" env:"DATABASE_TYPE"` // "memory", "postgres"
	DBSchema     string `yaml:"db_schema" env:"DB_SCHEMA"`
	AutoMigrate  bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`

	// Storage configuration
	StorageURL  string   `yaml:"storage_url" env:"STORAGE_URL"`
	StorageType string   `yaml:"storage_type" env:"STORAGE_TYPE"` // "memory", "fs", "s3"
	FS          FSConfig `yaml:"fs" env-prefix:"FS_"`
	S3          S3Config `yaml:"s3" env-prefix:"S3_"`

	// Access gate
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`

	// Publishing defaults
	DefaultAuthor      string `yaml:"default_author" env:"DEFAULT_AUTHOR"`
	DefaultPublished   bool   `yaml:"default_published" env:"DEFAULT_PUBLISHED"`
	BlogImageFolder    string `yaml:"blog_image_folder" env:"BLOG_IMAGE_FOLDER"`
	ProjectImageFolder string `yaml:"project_image_folder" env:"PROJECT_IMAGE_FOLDER"`
	KeyGenerator       string `yaml:"key_generator" env:"OBJECT_KEY_GENERATOR"` // "folder", "hashed"

	// HTTP limits
	MaxUploadBytes    int64         `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
	RateLimitRequests int           `yaml:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW"`
	CORSOrigins       []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:","`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`

	EnableEventLogging bool `yaml:"event_logging" env:"EVENT_LOGGING"`
}

// FSConfig configures the filesystem blob store
type FSConfig struct {
	BaseDir   string `yaml:"base_dir" env:"BASE_DIR"`
	URLPrefix string `yaml:"url_prefix" env:"URL_PREFIX"`
}

// S3Config configures the S3 blob store
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	Region          string `yaml:"region" env:"REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"USE_PATH_STYLE"`
	PublicBaseURL   string `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
	EnableSSE       bool   `yaml:"enable_sse" env:"ENABLE_SSE"`
	SSEAlgorithm    string `yaml:"sse_algorithm" env:"SSE_ALGORITHM"`
	SSEKMSKeyID     string `yaml:"sse_kms_key_id" env:"SSE_KMS_KEY_ID"`
	CreateBucket    bool   `yaml:"create_bucket" env:"CREATE_BUCKET"`
}

// IsProduction reports whether the service runs in production mode
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FS.BaseDir == "" {
			return errors.New("fs base_dir is required when using fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	switch c.KeyGenerator {
	case "folder", "hashed":
	default:
		return fmt.Errorf("unsupported object key generator: %s", c.KeyGenerator)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("jwt_secret is required in production")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if c.RateLimitRequests < 0 || (c.RateLimitRequests > 0 && c.RateLimitWindow <= 0) {
		return errors.New("rate limit requires a positive window")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout cannot be negative")
	}

	return nil
}

// RouterOptions returns the HTTP settings for api.NewRouter
func (c *ServerConfig) RouterOptions() api.RouterOptions {
	return api.RouterOptions{
		JWTSecret:         c.JWTSecret,
		MaxUploadBytes:    c.MaxUploadBytes,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitWindow:   c.RateLimitWindow,
		CORSOrigins:       c.CORSOrigins,
		RequestTimeout:    c.RequestTimeout,
	}
}

// Components holds everything BuildService wires together
type Components struct {
	Service    simplecms.Service
	Repository simplecms.Repository
	BlobStore  simplecms.BlobStore

	closers []func()
}

// Close releases database pools and other resources
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// BuildService creates the publishing service and its backends from the configuration
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repo, closeRepo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	comps := &Components{Repository: repo, closers: []func(){closeRepo}}

	store, err := c.BuildBlobStore(ctx)
	if err != nil {
		comps.Close()
		return nil, fmt.Errorf("failed to build storage backend %s: %w", c.StorageType, err)
	}
	comps.BlobStore = store

	options := []simplecms.Option{
		simplecms.WithRepository(repo),
		simplecms.WithBlobStore(store),
		simplecms.WithKeyGenerator(c.buildKeyGenerator()),
		simplecms.WithLogger(logger),
		simplecms.WithDefaultAuthor(c.DefaultAuthor),
		simplecms.WithDefaultPublished(c.DefaultPublished),
		simplecms.WithImageFolders(c.BlogImageFolder, c.ProjectImageFolder),
	}
	if c.EnableEventLogging {
		options = append(options, simplecms.WithEventSink(simplecms.NewLogEventSink(logger)))
	}

	svc, err := simplecms.New(options...)
	if err != nil {
		comps.Close()
		return nil, err
	}
	comps.Service = svc
	return comps, nil
}

// BuildRepository creates a Repository based on the configuration. The
// returned func releases the connection pool.
func (c *ServerConfig) BuildRepository(ctx context.Context) (simplecms.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := c.newPool(ctx)
		if err != nil {
			return nil, nil, err
		}
		if c.AutoMigrate {
			if err := repopg.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return repopg.NewWithPool(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) newPool(ctx context.Context) (*pgxpool.Pool, error) {
	if c.DatabaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	schema := c.DBSchema
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres with the configured schema.
func (c *ServerConfig) PingPostgres(ctx context.Context) error {
	pool, err := c.newPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// BuildBlobStore creates a BlobStore based on the storage configuration
func (c *ServerConfig) BuildBlobStore(ctx context.Context) (simplecms.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FS.BaseDir,
			URLPrefix: c.FS.URLPrefix,
		})

	case "s3":
		return s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PublicBaseURL:          c.S3.PublicBaseURL,
			EnableSSE:              c.S3.EnableSSE,
			SSEAlgorithm:           c.S3.SSEAlgorithm,
			SSEKMSKeyID:            c.S3.SSEKMSKeyID,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.StorageType)
	}
}

func (c *ServerConfig) buildKeyGenerator() objectkey.Generator {
	if c.KeyGenerator == "hashed" {
		return objectkey.NewHashedGenerator()
	}
	return objectkey.NewFolderGenerator()
}
