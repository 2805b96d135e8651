package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-required:"true"`
	Database    `yaml:"database"`
	HTTPServer  `yaml:"http_server"`
	API         API         `yaml:"api"`
	Catalog     Catalog     `yaml:"catalog"`
	Session     Session     `yaml:"session"`
	SearchCache SearchCache `yaml:"search_cache"`
}

type Database struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	Host       string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"PORT" env-required:"true"`
	UsernameDB string `yaml:"username-db" env:"USERNAMEDB" env-required:"true"`
	Password   string `yaml:"password" env:"PASSWORD"`
	DBName     string `yaml:"dbname" env:"DBNAME" env-default:"playfolio"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	Cors        []string      `yaml:"cors" env-default:"http://localhost:3000"`
}

// API points the page controllers at the application's own REST endpoints.
type API struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL" env-default:"localhost:8080"`
	Secure  bool          `yaml:"secure" env:"API_SECURE" env-default:"false"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Catalog struct {
	BaseURL string        `yaml:"base_url" env:"RAWG_URL" env-default:"https://api.rawg.io/api"`
	APIKey  string        `yaml:"api_key" env:"RAWG_API_KEY" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Session struct {
	Secret       string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL          time.Duration `yaml:"ttl" env-default:"720h"`
	CookieName   string        `yaml:"cookie_name" env-default:"playfolio_session"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
	SignInPath   string        `yaml:"sign_in_path" env-default:"/auth/signIn"`
}

// SearchCache bounds the on-disk search results store. Entries older than
// TTL are dropped, and the oldest go first once MaxEntries is exceeded.
type SearchCache struct {
	Path          string        `yaml:"path" env:"SEARCH_CACHE_PATH" env-default:"./data/search"`
	TTL           time.Duration `yaml:"ttl" env-default:"24h"`
	MaxEntries    int           `yaml:"max_entries" env-default:"10000"`
	PruneInterval time.Duration `yaml:"prune_interval" env-default:"10m"`
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}
	if *configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s - %s", *configPath, err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Driver != DriverMySQL && cfg.Database.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	// A game page waits on the catalog and then on the internal API.
	if chained := cfg.Catalog.Timeout + cfg.API.Timeout; cfg.HTTPServer.Timeout <= chained {
		return nil, fmt.Errorf("http_server.timeout %s must exceed catalog and api timeouts combined (%s)", cfg.HTTPServer.Timeout, chained)
	}

	return &cfg, nil
}

func (cfg *Database) GetDSN() string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host,
			cfg.Port,
			cfg.UsernameDB,
			cfg.Password,
			cfg.DBName,
		)
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.UsernameDB,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)
}

// URL returns the internal API origin with the protocol picked by Secure.
func (a API) URL() string {
	protocol := "http://"
	if a.Secure {
		protocol = "https://"
	}
	return protocol + a.BaseURL
}
