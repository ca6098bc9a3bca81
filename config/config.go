package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	SSLMode  string
	Verbose  bool
}

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

type Config struct {
	Port        string
	Prod        bool
	UseHTTPS    bool
	TLSCert     string
	TLSKey      string
	FrontendURL string
	SessionKey  string
	DebugSocket bool

	DatabaseDriver  string
	SQLitePath      string
	MigrateDatabase bool
	Postgres        PostgresConfig

	RedisURL string

	Gemini GeminiConfig
}

func (c *Config) Validate() error {
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %s", c.Port)
	}
	if c.UseHTTPS && (c.TLSCert == "" || c.TLSKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided when --use-https is set")
	}
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q (want %s or %s)", c.DatabaseDriver, DriverPostgres, DriverSQLite)
	}
	if c.SessionKey == "" {
		return errors.New("session key can't be empty")
	}
	return nil
}

// NewCommand builds the server command. Every flag can also be set through
// the environment variable of the same name in upper snake case (--redis-url
// is REDIS_URL).
func NewCommand(cfg *Config, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "excusas",
		Short: "Real-time absurd excuse generator and excuse battles.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Port, "port", "p", "3000", "port to listen on (env: PORT)")
	fs.BoolVar(&cfg.Prod, "prod", false, "run gin in release mode (env: PROD)")
	fs.BoolVar(&cfg.UseHTTPS, "use-https", false, "serve over TLS (env: USE_HTTPS)")
	fs.StringVar(&cfg.TLSCert, "tls-cert", "", "path to tls certificate (env: TLS_CERT)")
	fs.StringVar(&cfg.TLSKey, "tls-key", "", "path to tls keyfile (env: TLS_KEY)")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", "http://localhost:5173", "allowed CORS origin (env: FRONTEND_URL)")
	fs.StringVar(&cfg.SessionKey, "key", "excusas-dev-key", "cookie session secret (env: KEY)")
	fs.BoolVar(&cfg.DebugSocket, "debug-socket", false, "enable engine.io debug logs (env: DEBUG_SOCKET)")

	fs.StringVar(&cfg.DatabaseDriver, "database-driver", DriverPostgres, "postgres or sqlite (env: DATABASE_DRIVER)")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", "excusas.db", "sqlite database file (env: SQLITE_PATH)")
	fs.BoolVar(&cfg.MigrateDatabase, "migrate-postgres", true, "run schema migrations at startup (env: MIGRATE_POSTGRES)")
	fs.StringVar(&cfg.Postgres.User, "postgres-user", "excusas", "(env: POSTGRES_USER)")
	fs.StringVar(&cfg.Postgres.Password, "postgres-password", "excusas", "(env: POSTGRES_PASSWORD)")
	fs.StringVar(&cfg.Postgres.Host, "postgres-host", "localhost", "(env: POSTGRES_HOST)")
	fs.StringVar(&cfg.Postgres.Port, "postgres-port", "5432", "(env: POSTGRES_PORT)")
	fs.StringVar(&cfg.Postgres.Database, "postgres-database", "excusas", "(env: POSTGRES_DATABASE)")
	fs.StringVar(&cfg.Postgres.SSLMode, "postgres-sslmode", "disable", "(env: POSTGRES_SSLMODE)")
	fs.BoolVar(&cfg.Postgres.Verbose, "verbose-postgres", false, "log every SQL statement (env: VERBOSE_POSTGRES)")

	fs.StringVar(&cfg.RedisURL, "redis-url", "", "redis address or URL for room state, empty keeps it in memory (env: REDIS_URL)")

	fs.StringVar(&cfg.Gemini.APIKey, "gemini-api-key", "", "(env: GEMINI_API_KEY)")
	fs.StringVar(&cfg.Gemini.BaseURL, "gemini-base-url", "https://generativelanguage.googleapis.com/v1beta", "(env: GEMINI_BASE_URL)")
	fs.StringVar(&cfg.Gemini.TextModel, "gemini-text-model", "gemini-2.0-flash-exp", "(env: GEMINI_TEXT_MODEL)")
	fs.StringVar(&cfg.Gemini.ImageModel, "gemini-image-model", "gemini-2.5-flash-image", "(env: GEMINI_IMAGE_MODEL)")
	fs.DurationVar(&cfg.Gemini.Timeout, "gemini-timeout", 60*time.Second, "(env: GEMINI_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
