package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Ledger  LedgerConfig
	Cache   CacheConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	LogLevel       string
	ReportTimezone string // zona horaria con la que se cortan los días de los reportes
}

// Location resuelve la zona horaria de reportes.
func (c AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("zona horaria de reportes %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// DBConfig configuración del almacén.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | sqlite
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SQLitePath  string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LedgerConfig reglas ajustables del libro de movimientos.
type LedgerConfig struct {
	// LargeDispatchThreshold: una salida con cantidad mayor se marca para revisión (nunca se rechaza).
	LargeDispatchThreshold decimal.Decimal
}

// CacheConfig caché de vistas (dashboard, listado de productos). RedisURL vacío = sin caché.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// MetricsConfig exposición de métricas Prometheus.
type MetricsConfig struct {
	Enabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	threshold, err := decimal.NewFromString(getString(v, "LEDGER_LARGE_DISPATCH_THRESHOLD", "20"))
	if err != nil {
		return nil, fmt.Errorf("LEDGER_LARGE_DISPATCH_THRESHOLD inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:            getString(v, "APP_ENV", "development"),
			Name:           getString(v, "APP_NAME", "bodega-api"),
			LogLevel:       getString(v, "LOG_LEVEL", "info"),
			ReportTimezone: getString(v, "APP_REPORT_TIMEZONE", "Asia/Kolkata"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", DriverPostgres)),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "bodega"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			SQLitePath:  getString(v, "SQLITE_PATH", "bodega.db"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "bodega-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Ledger: LedgerConfig{
			LargeDispatchThreshold: threshold,
		},
		Cache: CacheConfig{
			RedisURL: getString(v, "REDIS_URL", ""),
			TTL:      time.Duration(getInt(v, "CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER no soportado: %q (postgres | sqlite)", c.DB.Driver)
	}
	if c.Ledger.LargeDispatchThreshold.IsNegative() {
		return fmt.Errorf("LEDGER_LARGE_DISPATCH_THRESHOLD no puede ser negativo")
	}
	if _, err := c.App.Location(); err != nil {
		return err
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return n
	}
	return v.GetInt(key)
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	return v.GetBool(key)
}
