package config

import (
	"fmt"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithAutoMigrate creates the tables at startup when enabled
func WithAutoMigrate(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.AutoMigrate = enabled
		return nil
	}
}

// WithMemoryStorage keeps uploaded images in process memory
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.StorageType = "memory"
		return nil
	}
}

// WithFilesystemStorage stores uploaded images under baseDir and serves them under urlPrefix
func WithFilesystemStorage(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.StorageType = "fs"
		c.FS.BaseDir = baseDir
		if urlPrefix != "" {
			c.FS.URLPrefix = urlPrefix
		}
		return nil
	}
}

// WithS3Storage stores uploaded images in an S3 bucket
func WithS3Storage(bucket, region string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		c.StorageType = "s3"
		c.S3.Bucket = bucket
		if region != "" {
			c.S3.Region = region
		}
		return nil
	}
}

// WithS3Credentials sets static S3 credentials
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		if accessKeyID == "" || secretAccessKey == "" {
			return fmt.Errorf("both access key ID and secret access key are required")
		}
		c.S3.AccessKeyID = accessKeyID
		c.S3.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithS3Endpoint points the S3 client at an S3-compatible service such as MinIO
func WithS3Endpoint(endpoint string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		if endpoint == "" {
			return fmt.Errorf("S3 endpoint cannot be empty")
		}
		c.S3.Endpoint = endpoint
		c.S3.UsePathStyle = usePathStyle
		return nil
	}
}

// WithS3PublicBaseURL sets the prefix of returned image URLs, e.g. a CDN
func WithS3PublicBaseURL(baseURL string) Option {
	return func(c *ServerConfig) error {
		c.S3.PublicBaseURL = baseURL
		return nil
	}
}

// WithJWTSecret sets the HS256 secret admin tokens are verified with
func WithJWTSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.JWTSecret = secret
		return nil
	}
}

// WithDefaultAuthor sets the author recorded when a token carries no name
func WithDefaultAuthor(name string) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			return fmt.Errorf("default author cannot be empty")
		}
		c.DefaultAuthor = name
		return nil
	}
}

// WithDefaultPublished sets the published flag for posts created without one
func WithDefaultPublished(published bool) Option {
	return func(c *ServerConfig) error {
		c.DefaultPublished = published
		return nil
	}
}

// WithImageFolders sets the storage folders for blog and project images
func WithImageFolders(blogFolder, projectFolder string) Option {
	return func(c *ServerConfig) error {
		if blogFolder != "" {
			c.BlogImageFolder = blogFolder
		}
		if projectFolder != "" {
			c.ProjectImageFolder = projectFolder
		}
		return nil
	}
}

// WithObjectKeyGenerator selects "folder" or "hashed" object keys
func WithObjectKeyGenerator(generator string) Option {
	return func(c *ServerConfig) error {
		switch generator {
		case "folder", "hashed":
			c.KeyGenerator = generator
			return nil
		default:
			return fmt.Errorf("unknown object key generator: %s", generator)
		}
	}
}

// WithMaxUploadBytes caps request bodies on write routes
func WithMaxUploadBytes(n int64) Option {
	return func(c *ServerConfig) error {
		if n <= 0 {
			return fmt.Errorf("max upload bytes must be positive, got: %d", n)
		}
		c.MaxUploadBytes = n
		return nil
	}
}

// WithRateLimit allows requests per window per client IP. Zero requests disables limiting.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(c *ServerConfig) error {
		c.RateLimitRequests = requests
		c.RateLimitWindow = window
		return nil
	}
}

// WithCORSOrigins sets the allowed CORS origins
func WithCORSOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.CORSOrigins = origins
		return nil
	}
}

// WithRequestTimeout bounds each request, including the image upload
func WithRequestTimeout(d time.Duration) Option {
	return func(c *ServerConfig) error {
		c.RequestTimeout = d
		return nil
	}
}

// WithEventLogging enables or disables lifecycle event logging
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
