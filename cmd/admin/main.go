package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/api"
	"github.com/tendant/simple-cms/pkg/simplecms/config"
)

const usage = `Simple CMS Admin CLI

A lightweight admin tool for the blog and project store.

USAGE:
  admin <command> [options]

COMMANDS:
  token      Issue an admin JWT signed with JWT_SECRET
  blogs      List blog posts (drafts included)
  projects   List projects
  migrate    Create the postgres tables if they do not exist
  ping       Check database connectivity

ENVIRONMENT VARIABLES:
  DATABASE_URL      "memory" or a PostgreSQL connection string
  DATABASE_TYPE     Database type: postgres or memory (default: memory)
  DB_SCHEMA         PostgreSQL schema name (default: public)
  JWT_SECRET        HMAC secret shared with the server (required for token)
  CONFIG_FILE       Optional yaml/json/toml config file

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # Issue a token valid for 24 hours
  admin token --name="Jane Doe" --ttl=24h

  # List only published posts
  admin blogs --published=true

  # Output as JSON
  admin projects --json

OPTIONS:
  --sub=<id>             Token subject (token only, default: admin)
  --name=<name>          Display name recorded as post author (token only)
  --ttl=<duration>       Token lifetime (token only, default: 12h)
  --published=<bool>     Filter by published flag (blogs only)
  --json                 Output as JSON
`

type options struct {
	sub       string
	name      string
	ttl       time.Duration
	published *bool
	json      bool
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "--help" || command == "-h" {
		fmt.Print(usage + "\n")
		os.Exit(0)
	}

	cfg, err := config.Load(
		config.WithFile(os.Getenv("CONFIG_FILE")),
		config.WithEnv(),
	)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts, err := parseOptions(os.Args[2:])
	if err != nil {
		log.Fatalf("Invalid option: %v", err)
	}

	ctx := context.Background()

	switch command {
	case "token":
		handleToken(cfg, opts)
	case "blogs":
		handleBlogs(ctx, cfg, opts)
	case "projects":
		handleProjects(ctx, cfg, opts)
	case "migrate":
		handleMigrate(ctx, cfg)
	case "ping":
		if cfg.DatabaseType != "postgres" {
			log.Fatalf("ping requires DATABASE_TYPE=postgres (got %q)", cfg.DatabaseType)
		}
		if err := cfg.PingPostgres(ctx); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		fmt.Println("OK")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	opts := options{sub: "admin", ttl: 12 * time.Hour}

	for _, arg := range args {
		key, value := parseFlag(arg)
		switch key {
		case "json":
			opts.json = true
		case "sub":
			opts.sub = value
		case "name":
			opts.name = value
		case "ttl":
			d, err := time.ParseDuration(value)
			if err != nil {
				return opts, fmt.Errorf("--ttl: %w", err)
			}
			opts.ttl = d
		case "published":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return opts, fmt.Errorf("--published: %w", err)
			}
			opts.published = &b
		}
	}

	return opts, nil
}

func parseFlag(arg string) (string, string) {
	if len(arg) > 2 && arg[:2] == "--" {
		arg = arg[2:]
		for i, c := range arg {
			if c == '=' {
				return arg[:i], arg[i+1:]
			}
		}
		return arg, "true"
	}
	return "", ""
}

func handleToken(cfg *config.ServerConfig, opts options) {
	ja := api.NewJWTAuth(cfg.JWTSecret)
	if ja == nil {
		log.Fatal("JWT_SECRET is required to issue tokens")
	}

	token, err := api.IssueToken(ja, simplecms.Identity{
		Subject: opts.sub,
		Name:    opts.name,
		Admin:   true,
	}, opts.ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	if opts.json {
		printJSON(map[string]interface{}{
			"token":     token,
			"expiresAt": time.Now().Add(opts.ttl).UTC(),
		})
		return
	}
	fmt.Println(token)
}

func handleBlogs(ctx context.Context, cfg *config.ServerConfig, opts options) {
	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		log.Fatalf("Failed to open repository: %v", err)
	}
	defer closeRepo()

	blogs, err := repo.ListBlogs(ctx, simplecms.BlogFilter{Published: opts.published})
	if err != nil {
		log.Fatalf("Failed to list blogs: %v", err)
	}

	if opts.json {
		printJSON(blogs)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tAUTHOR\tPUBLISHED\tREAD\tCREATED\n")
	for _, b := range blogs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%dm\t%s\n",
			b.ID.String()[:8]+"...",
			truncate(b.Title, 30),
			truncate(b.Author, 15),
			b.Published,
			b.ReadTime,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d\n", len(blogs))
}

func handleProjects(ctx context.Context, cfg *config.ServerConfig, opts options) {
	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		log.Fatalf("Failed to open repository: %v", err)
	}
	defer closeRepo()

	projects, err := repo.ListProjects(ctx)
	if err != nil {
		log.Fatalf("Failed to list projects: %v", err)
	}

	if opts.json {
		printJSON(projects)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tSTACK\tCREATED\n")
	for _, p := range projects {
		stack := "-"
		if len(p.TechStack) > 0 {
			stack = fmt.Sprint(p.TechStack)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID.String()[:8]+"...",
			truncate(p.Title, 30),
			truncate(stack, 30),
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d\n", len(projects))
}

func handleMigrate(ctx context.Context, cfg *config.ServerConfig) {
	if cfg.DatabaseType != "postgres" {
		log.Fatalf("migrate requires DATABASE_TYPE=postgres (got %q)", cfg.DatabaseType)
	}

	cfg.AutoMigrate = true
	_, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer closeRepo()

	fmt.Println("Schema is up to date")
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
