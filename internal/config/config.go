// Package config holds the settings of the contacts service. Every flag can also be set through
// the environment variable named in its env tag.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-sql-driver/mysql"
)

// Config is the command line of cmd/service.
type Config struct {
	Port             int      `help:"HTTP port to listen on." env:"PORT" default:"8080"`
	Database         Database `embed:"" prefix:"db-"`
	GinLogging       string   `help:"Set to 'off' to disable request logging." env:"GIN_LOGGING" default:"on"`
	LogMode          string   `help:"Log output format." env:"LOG_MODE" enum:"development,production" default:"development"`
	AuditActor       string   `help:"Identity recorded in the audit fields of API writes." env:"AUDIT_ACTOR" default:"system"`
	Seed             bool     `help:"Insert sample contacts into an empty database." env:"SEED" default:"true" negatable:""`
	CorsOrigins      []string `help:"Origins allowed by CORS." env:"CORS_ORIGINS" default:"*"`
	OtelExporter     string   `help:"Trace exporter." env:"OTEL_EXPORTER" enum:"none,stdout,otlp" default:"none"`
	OtelSamplerRatio float64  `help:"Fraction of traces to sample." env:"OTEL_SAMPLER_RATIO" default:"1"`
}

// Database selects the gateway and where it connects to.
type Database struct {
	Driver string `help:"Database driver." env:"DBDRIVER" enum:"mysql,postgres,sqlite" default:"mysql"`
	Host   string `help:"Database host and port." env:"DBHOST" default:"localhost:3306"`
	User   string `help:"Database user." env:"DBUSER"`
	Pwd    string `help:"Database password." env:"DBPWD"`
	Name   string `help:"Database name." env:"DBNAME" default:"test"`
	DSN    string `help:"Complete data source name, overrides the other database settings." env:"DSN"`
}

// Parse reads the configuration from args and the environment.
func Parse(args []string, options ...kong.Option) (*Config, error) {
	var cfg Config
	options = append([]kong.Option{
		kong.Name("contacts-service"),
		kong.Description("REST API for managing contacts."),
	}, options...)
	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequestLoggingEnabled reports whether gin requests are logged.
func (c *Config) RequestLoggingEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.GinLogging), "off")
}

// TracingEnabled reports whether an exporter was chosen.
func (c *Config) TracingEnabled() bool {
	return c.OtelExporter != "" && c.OtelExporter != "none"
}

// DataSourceName returns the DSN for the configured driver. MySQL connections parse times and
// report matched instead of changed rows, which the update statement relies on.
func (d Database) DataSourceName() (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}
	switch d.Driver {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Pwd
		cfg.Net = "tcp"
		cfg.Addr = d.Host
		cfg.DBName = d.Name
		cfg.ParseTime = true
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	case "postgres":
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Pwd),
			Host:     d.Host,
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return dsn.String(), nil
	case "sqlite":
		return fmt.Sprintf("file:%s.db?_foreign_keys=on", d.Name), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}
