package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	JWTSecret         string
	MaxUploadBytes    int64
	RateLimitRequests int // zero disables rate limiting
	RateLimitWindow   time.Duration
	CORSOrigins       []string
	RequestTimeout    time.Duration // zero disables the timeout
}

// DefaultMaxUploadBytes caps request bodies when RouterOptions leaves it unset
const DefaultMaxUploadBytes = 10 << 20

// NewRouter builds the HTTP surface: /blogs and /projects behind the
// common middleware stack.
func NewRouter(service simplecms.Service, opts RouterOptions) *chi.Mux {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	r.Use(middleware.SetHeader("Referrer-Policy", "no-referrer"))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(opts.CORSOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if opts.RateLimitRequests > 0 {
		r.Use(httprate.Limit(
			opts.RateLimitRequests,
			opts.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				respond(w, r, http.StatusTooManyRequests, nil, "Too many requests, please try again later")
			}),
		))
	}
	r.Use(middleware.RequestSize(opts.MaxUploadBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusNotFound, nil, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusMethodNotAllowed, nil, "Method not allowed")
	})

	auth := NewJWTAuth(opts.JWTSecret)
	// Multipart parts beyond this spill to temp files; the body cap still applies.
	maxMemory := opts.MaxUploadBytes

	r.Mount("/blogs", NewBlogHandler(service, auth, maxMemory).Routes())
	r.Mount("/projects", NewProjectHandler(service, auth, maxMemory).Routes())

	return r
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
