package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	Data     DataConfig
	Pipeline PipelineConfig
	Archive  ArchiveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig holds the on-disk data layout. All folders are scoped per tenant
// so that one tenant's raw files can never be ingested into another tenant's
// pipeline run.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// RawDir returns the inbox folder for a tenant's unprocessed spreadsheets.
func (d *DataConfig) RawDir(tenantID string) string {
	return filepath.Join(d.Dir, "raw", tenantID)
}

// ProcessedDir returns the archive folder for a tenant's consumed files.
func (d *DataConfig) ProcessedDir(tenantID string) string {
	return filepath.Join(d.Dir, "processed", tenantID)
}

// OutputDir returns the folder for a tenant's generated artifacts
// (status records, the enriched master workbook).
func (d *DataConfig) OutputDir(tenantID string) string {
	return filepath.Join(d.Dir, "output", tenantID)
}

// MasterFile returns the path of a tenant's customer master spreadsheet.
func (d *DataConfig) MasterFile(tenantID string) string {
	return filepath.Join(d.Dir, "masters", tenantID, "customer_master.xlsx")
}

// EnsureTenantDirs creates the per-tenant folder layout.
func (d *DataConfig) EnsureTenantDirs(tenantID string) error {
	for _, dir := range []string{
		d.RawDir(tenantID),
		d.ProcessedDir(tenantID),
		d.OutputDir(tenantID),
		filepath.Dir(d.MasterFile(tenantID)),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// GroupMapping rewrites a material group label when its pattern matches.
// Mappings apply in declared order; a later mapping may re-match the
// replacement written by an earlier one.
type GroupMapping struct {
	Pattern     string
	Replacement string
}

// PipelineConfig holds the ETL business policy.
type PipelineConfig struct {
	FYStartMonth    int            `mapstructure:"fy_start_month"`
	CompanyState    string         `mapstructure:"company_state"`
	TaxRate         float64        `mapstructure:"tax_rate"`
	ExcludeKeywords []string       `mapstructure:"exclude_keywords"`
	GroupMappings   []GroupMapping `mapstructure:"-"`
}

// ArchiveConfig selects how consumed input files are archived.
type ArchiveConfig struct {
	Mode      string `mapstructure:"mode"` // "local" or "s3"
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// defaultExcludeKeywords lists material groups that are not sales of finished
// goods (services, raw material, packing, internal accounts) and a handful of
// one-off SKUs the business asked to keep out of the dashboard.
var defaultExcludeKeywords = []string{
	"SERVICE", "AIR VENT", "PACKING", "RAW", "BRASS", "PANEL",
	"SALES ACCOUNT", "MASTER BATCH", "SEMI", "PPCP", "FIXED",
	"PROTECTION", "HIPS", "ABS", "INDIRECT", "NYLOAN", "PP BLACK",
	"NASER MILES PARIS", "DOCUMENT HOLDER",
	"SWISS MILITARY MODLE MAZE",
	"SELF ADHESIVE TIE MOUNT", "SCREW TYPE TIE MOUNT",
}

// defaultGroupMappings standardizes material group spellings. Order matters:
// mappings chain, so REVER rewrites first and the misspelling rule below it
// still sees the rewritten value.
var defaultGroupMappings = []GroupMapping{
	{Pattern: `CONDUIT.*GLAND`, Replacement: "POLYAMIDE CONDUIT GLAND"},
	{Pattern: `REVER`, Replacement: "REVERSE FORWARD"},
	{Pattern: `REVERSE FORWORD`, Replacement: "REVERSE FORWARD"},
}

// Load reads configuration from environment variables with the SALESIQ_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "salesiq")
	v.SetDefault("db.password", "salesiq_secret")
	v.SetDefault("db.name", "salesiq_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Data defaults
	v.SetDefault("data.dir", "./data")

	// Pipeline defaults
	v.SetDefault("pipeline.fy_start_month", 4)
	v.SetDefault("pipeline.company_state", "MAHARASHTRA")
	v.SetDefault("pipeline.tax_rate", 0.18)
	v.SetDefault("pipeline.exclude_keywords", strings.Join(defaultExcludeKeywords, ","))
	v.SetDefault("pipeline.group_mappings", "")

	// Archive defaults
	v.SetDefault("archive.mode", "local")
	v.SetDefault("archive.region", "ap-south-1")
	v.SetDefault("archive.bucket", "salesiq-archive")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.prefix", "processed")

	envBindings := map[string]string{
		"server.port":               "SALESIQ_SERVER_PORT",
		"server.read_timeout":       "SALESIQ_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "SALESIQ_SERVER_WRITE_TIMEOUT",
		"server.environment":        "SALESIQ_SERVER_ENVIRONMENT",
		"db.host":                   "SALESIQ_DB_HOST",
		"db.port":                   "SALESIQ_DB_PORT",
		"db.user":                   "SALESIQ_DB_USER",
		"db.password":               "SALESIQ_DB_PASSWORD",
		"db.name":                   "SALESIQ_DB_NAME",
		"db.sslmode":                "SALESIQ_DB_SSLMODE",
		"db.max_open":               "SALESIQ_DB_MAX_OPEN",
		"db.max_idle":               "SALESIQ_DB_MAX_IDLE",
		"log.level":                 "SALESIQ_LOG_LEVEL",
		"log.format":                "SALESIQ_LOG_FORMAT",
		"data.dir":                  "SALESIQ_DATA_DIR",
		"pipeline.fy_start_month":   "SALESIQ_PIPELINE_FY_START_MONTH",
		"pipeline.company_state":    "SALESIQ_PIPELINE_COMPANY_STATE",
		"pipeline.tax_rate":         "SALESIQ_PIPELINE_TAX_RATE",
		"pipeline.exclude_keywords": "SALESIQ_PIPELINE_EXCLUDE_KEYWORDS",
		"pipeline.group_mappings":   "SALESIQ_PIPELINE_GROUP_MAPPINGS",
		"archive.mode":              "SALESIQ_ARCHIVE_MODE",
		"archive.region":            "SALESIQ_ARCHIVE_REGION",
		"archive.bucket":            "SALESIQ_ARCHIVE_BUCKET",
		"archive.endpoint":          "SALESIQ_ARCHIVE_ENDPOINT",
		"archive.access_key":        "SALESIQ_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":        "SALESIQ_ARCHIVE_SECRET_KEY",
		"archive.prefix":            "SALESIQ_ARCHIVE_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SALESIQ_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SALESIQ_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Data = DataConfig{
		Dir: v.GetString("data.dir"),
	}

	cfg.Pipeline = PipelineConfig{
		FYStartMonth:    v.GetInt("pipeline.fy_start_month"),
		CompanyState:    strings.ToUpper(strings.TrimSpace(v.GetString("pipeline.company_state"))),
		TaxRate:         v.GetFloat64("pipeline.tax_rate"),
		ExcludeKeywords: splitList(v.GetString("pipeline.exclude_keywords")),
		GroupMappings:   parseGroupMappings(v.GetString("pipeline.group_mappings")),
	}

	cfg.Archive = ArchiveConfig{
		Mode:      v.GetString("archive.mode"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
		Prefix:    v.GetString("archive.prefix"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseGroupMappings parses "pattern=>replacement;pattern=>replacement".
// An empty string keeps the built-in mappings.
func parseGroupMappings(s string) []GroupMapping {
	if strings.TrimSpace(s) == "" {
		return defaultGroupMappings
	}
	var out []GroupMapping
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=>", 2)
		if len(parts) != 2 {
			continue
		}
		out = append(out, GroupMapping{
			Pattern:     strings.TrimSpace(parts[0]),
			Replacement: strings.TrimSpace(parts[1]),
		})
	}
	if len(out) == 0 {
		return defaultGroupMappings
	}
	return out
}
