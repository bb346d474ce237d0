package configuration

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/schedule-import/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load(".env", ".env.local")
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, looking in the working directory
// first and then in the enclosing module root.
func LoadEnv(envFiles []string) (int, error) {
	root := moduleRoot()
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		switch {
		case fs.FileExists(file):
			existingFiles = append(existingFiles, file)
		case root != "" && fs.FileExists(filepath.Join(root, file)):
			existingFiles = append(existingFiles, filepath.Join(root, file))
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Driver   string `env:"DATABASE_DRIVER" envDefault:"pgx"`
	URL      string `env:"DATABASE_URL"`
	Name     string `env:"DB_NAME" envDefault:"schedule"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

// ConnectionString returns DATABASE_URL when set. Otherwise it builds a
// postgres keyword string, or uses DB_NAME as the sqlite file.
func (d *DatabaseOptions) ConnectionString() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return d.Name
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type StagingOptions struct {
	Driver  string `env:"STAGING_DRIVER" envDefault:"sqlite"`
	DSN     string `env:"STAGING_DSN" envDefault:"staging.db"`
	Table   string `env:"STAGING_TABLE" envDefault:"schedule_staging"`
	OrderBy string `env:"STAGING_ORDER_BY" envDefault:"crn"`
}

type ImportOptions struct {
	Driver              string `env:"IMPORT_DRIVER" envDefault:"spreadsheet"`
	Source              string `env:"IMPORT_SOURCE"`
	Sheet               string `env:"IMPORT_SHEET"`
	ColumnsFile         string `env:"IMPORT_COLUMNS_FILE"`
	IncludeOnline       bool   `env:"IMPORT_INCLUDE_ONLINE" envDefault:"false"`
	BatchSize           int    `env:"IMPORT_BATCH_SIZE" envDefault:"500"`
	TolerateLineEndings bool   `env:"IMPORT_TOLERATE_LINE_ENDINGS" envDefault:"true"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"schedule-import"`
}

type PrometheusOptions struct {
	PushgatewayURL string `env:"PROMETHEUS_PUSHGATEWAY_URL"`
	Job            string `env:"PROMETHEUS_JOB" envDefault:"schedule_import"`
}

type Configuration struct {
	Database      DatabaseOptions
	Staging       StagingOptions
	Import        ImportOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"text"`
	// Empty writes logs to stderr only.
	LogPath string `env:"LOG_PATH"`

	logFile io.Closer
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

// Load builds a configuration from the environment and the given env files
// without touching the process-wide singleton.
func Load(envFiles ...string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && len(envFiles) > 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.validate(); err != nil {
		return err
	}

	if c.LogPath != "" {
		f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogFormat, c.LogPath)
		if err != nil {
			return err
		}
		c.logFile = f
		c.logger = logger
	} else {
		c.logger = logging.New(c.LogrusLogLevel(), c.LogFormat, os.Stderr)
	}

	c.Database.Opts = c.Database.ConnectionString()
	return nil
}

func (c *Configuration) validate() error {
	checks := []struct {
		name    string
		value   *string
		allowed []string
	}{
		{"DATABASE_DRIVER", &c.Database.Driver, []string{"pgx", "sqlite"}},
		{"STAGING_DRIVER", &c.Staging.Driver, []string{"pgx", "sqlite"}},
		{"IMPORT_DRIVER", &c.Import.Driver, []string{"spreadsheet", "database"}},
		{"LOG_LEVEL", &c.LogLevel, []string{"silent", "error", "warn", "info", "debug"}},
		{"LOG_FORMAT", &c.LogFormat, []string{"text", "json"}},
	}
	for _, check := range checks {
		v := strings.ToLower(strings.TrimSpace(*check.value))
		if !slices.Contains(check.allowed, v) {
			return fmt.Errorf("invalid %s=%q (expected %s)", check.name, *check.value, strings.Join(check.allowed, "|"))
		}
		*check.value = v
	}
	if c.Import.BatchSize < 0 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be non-negative, got %d", c.Import.BatchSize)
	}
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
