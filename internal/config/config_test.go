package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, `
env: local
database:
  port: 3306
  username-db: playfolio
catalog:
  api_key: rawg-key
session:
  secret: s3cret
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, "playfolio", cfg.Database.DBName)
		assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, "/auth/signIn", cfg.Session.SignInPath)
		assert.Equal(t, "http://localhost:8080", cfg.API.URL())
		assert.Equal(t, 15*time.Second, cfg.HTTPServer.Timeout)
		assert.Greater(t, cfg.HTTPServer.Timeout, cfg.Catalog.Timeout+cfg.API.Timeout)
		assert.Equal(t, "./data/search", cfg.SearchCache.Path)
		assert.Equal(t, 24*time.Hour, cfg.SearchCache.TTL)
		assert.Equal(t, 10000, cfg.SearchCache.MaxEntries)
		assert.Equal(t, 10*time.Minute, cfg.SearchCache.PruneInterval)
	})

	t.Run("postgres dsn", func(t *testing.T) {
		path := writeConfig(t, `
env: prod
database:
  driver: postgres
  host: db
  port: 5432
  username-db: play
  password: pw
  dbname: games
catalog:
  api_key: rawg-key
session:
  secret: s3cret
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "host=db port=5432 user=play password=pw dbname=games sslmode=disable", cfg.Database.GetDSN())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		path := writeConfig(t, `
env: local
database:
  driver: sqlite
  port: 1
  username-db: x
catalog:
  api_key: rawg-key
session:
  secret: s3cret
`)

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("server timeout shorter than chained client calls", func(t *testing.T) {
		path := writeConfig(t, `
env: local
database:
  port: 3306
  username-db: playfolio
http_server:
  timeout: 4s
catalog:
  api_key: rawg-key
session:
  secret: s3cret
`)

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http_server.timeout")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestDatabase_GetDSN_MySQL(t *testing.T) {
	db := Database{Driver: DriverMySQL, Host: "localhost", Port: 3306, UsernameDB: "root", Password: "pw", DBName: "playfolio"}

	assert.Equal(t, "root:pw@tcp(localhost:3306)/playfolio?parseTime=true", db.GetDSN())
}

func TestAPI_URL(t *testing.T) {
	assert.Equal(t, "https://playfolio.example", API{BaseURL: "playfolio.example", Secure: true}.URL())
}
