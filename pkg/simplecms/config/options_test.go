package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabaseType != "memory" || cfg.StorageType != "memory" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.DefaultAuthor != "Admin" || cfg.DefaultPublished {
		t.Errorf("unexpected publishing defaults: author=%q published=%v", cfg.DefaultAuthor, cfg.DefaultPublished)
	}
	if cfg.BlogImageFolder != "blog-images" || cfg.ProjectImageFolder != "portfolio-projects" {
		t.Errorf("unexpected folders: %q %q", cfg.BlogImageFolder, cfg.ProjectImageFolder)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("expected 10 MiB upload cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RateLimitRequests != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("unexpected rate limit %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
}

func TestWithPort(t *testing.T) {
	cfg, err := Load(WithPort("9090"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Port)
	}

	if _, err := Load(WithPort("")); err == nil {
		t.Error("expected error for empty port, got nil")
	}
}

func TestWithDatabase(t *testing.T) {
	tests := []struct {
		name      string
		dbType    string
		url       string
		wantError bool
	}{
		{"memory valid", "memory", "", false},
		{"postgres valid", "postgres", "postgresql://localhost/test", false},
		{"postgres missing url", "postgres", "", true},
		{"invalid type", "mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(WithDatabase(tt.dbType, tt.url))
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if cfg.DatabaseType != tt.dbType {
				t.Errorf("expected database type %s, got: %s", tt.dbType, cfg.DatabaseType)
			}
		})
	}
}

func TestWithStorage(t *testing.T) {
	cfg, err := Load(WithFilesystemStorage("/tmp/media", ""))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.StorageType != "fs" || cfg.FS.URLPrefix != "/media" {
		t.Errorf("unexpected fs config: %s %+v", cfg.StorageType, cfg.FS)
	}

	cfg, err = Load(
		WithS3Storage("bucket", "eu-central-1"),
		WithS3Credentials("key", "secret"),
		WithS3Endpoint("http://localhost:9000", true),
		WithS3PublicBaseURL("https://cdn.example.com"),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.S3.Bucket != "bucket" || cfg.S3.Region != "eu-central-1" || !cfg.S3.UsePathStyle {
		t.Errorf("unexpected s3 config: %+v", cfg.S3)
	}

	if _, err := Load(WithS3Storage("", "")); err == nil {
		t.Error("expected error for empty bucket")
	}
	if _, err := Load(WithS3Credentials("key", "")); err == nil {
		t.Error("expected error for partial credentials")
	}
	if _, err := Load(WithFilesystemStorage("", "")); err == nil {
		t.Error("expected error for empty base dir")
	}
}

func TestWithLimits(t *testing.T) {
	cfg, err := Load(
		WithMaxUploadBytes(1024),
		WithRateLimit(10, time.Second),
		WithRequestTimeout(2*time.Second),
		WithCORSOrigins("https://example.com"),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.MaxUploadBytes != 1024 || cfg.RateLimitRequests != 10 || cfg.RequestTimeout != 2*time.Second {
		t.Errorf("unexpected limits: %+v", cfg)
	}

	if _, err := Load(WithMaxUploadBytes(0)); err == nil {
		t.Error("expected error for zero upload cap")
	}
	if _, err := Load(WithRateLimit(10, 0)); err == nil {
		t.Error("expected error for rate limit without window")
	}
	if _, err := Load(WithRateLimit(0, 0)); err != nil {
		t.Errorf("disabled rate limit should be valid, got %v", err)
	}
}

func TestWithPublishingDefaults(t *testing.T) {
	cfg, err := Load(
		WithDefaultAuthor("Editor"),
		WithDefaultPublished(true),
		WithImageFolders("posts", ""),
		WithObjectKeyGenerator("hashed"),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cfg.DefaultAuthor != "Editor" || !cfg.DefaultPublished {
		t.Errorf("unexpected publishing defaults: %+v", cfg)
	}
	if cfg.BlogImageFolder != "posts" || cfg.ProjectImageFolder != "portfolio-projects" {
		t.Errorf("unexpected folders %q %q", cfg.BlogImageFolder, cfg.ProjectImageFolder)
	}
	if cfg.KeyGenerator != "hashed" {
		t.Errorf("expected hashed generator, got %q", cfg.KeyGenerator)
	}

	if _, err := Load(WithObjectKeyGenerator("random")); err == nil {
		t.Error("expected error for unknown key generator")
	}
	if _, err := Load(WithDefaultAuthor("")); err == nil {
		t.Error("expected error for empty default author")
	}
}
