package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "config-test-secret-0123456789"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkpage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("TEST_LINKPAGE_SECRET", testSecret)
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
database:
  driver: sqlite
  path: /tmp/links.db
auth:
  token_secret: "${TEST_LINKPAGE_SECRET}"
  token_ttl: "720h"
  admins:
    - "root:hunter2"
  guests:
    - "friend:hello"
site:
  title: "Links"
  subtitle: "Everything"
  max_upload_bytes: 2048
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/links.db", cfg.Database.Path)
	assert.Equal(t, testSecret, cfg.Auth.TokenSecret)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Contains(t, cfg.Auth.Admins, "root:hunter2")
	assert.Contains(t, cfg.Auth.Guests, "friend:hello")
	assert.Equal(t, "Links", cfg.Site.Title)
	assert.Equal(t, 2048, cfg.Site.MaxUploadBytes)
	assert.Equal(t, "json", cfg.Logging.Format)

	admins, guests, err := cfg.Auth.Pairs()
	require.NoError(t, err)
	assert.Equal(t, "root", admins[0].Username)
	assert.Equal(t, "hello", guests[0].Password)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("LINKPAGE_TOKEN_SECRET", testSecret)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "我的导航", cfg.Site.Title)
	assert.Zero(t, cfg.Auth.TokenTTL)
}

func TestLoad_EnvCredentials(t *testing.T) {
	t.Setenv("LINKPAGE_TOKEN_SECRET", testSecret)
	t.Setenv("ADMIN_2", "second:pw2")
	t.Setenv("ADMIN_1", "first:pw1")
	t.Setenv("USER_GUEST", "visitor:pw")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Subset(t, cfg.Auth.Admins, []string{"first:pw1", "second:pw2"})
	assert.Contains(t, cfg.Auth.Guests, "visitor:pw")

	first, second := -1, -1
	for i, a := range cfg.Auth.Admins {
		switch a {
		case "first:pw1":
			first = i
		case "second:pw2":
			second = i
		}
	}
	assert.Less(t, first, second)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short secret", "auth:\n  token_secret: short\n"},
		{"bad ttl", "auth:\n  token_secret: " + testSecret + "\n  token_ttl: soon\n"},
		{"negative ttl", "auth:\n  token_secret: " + testSecret + "\n  token_ttl: -1h\n"},
		{"bad driver", "auth:\n  token_secret: " + testSecret + "\ndatabase:\n  driver: mongo\n"},
		{"postgres without dsn", "auth:\n  token_secret: " + testSecret + "\ndatabase:\n  driver: postgres\n"},
		{"bad admin entry", "auth:\n  token_secret: " + testSecret + "\n  admins: [\"nocolon\"]\n"},
		{"bad yaml", "server: [unclosed"},
		{"empty addr", "auth:\n  token_secret: " + testSecret + "\nserver:\n  addr: \"\"\n"},
		{"negative upload", "auth:\n  token_secret: " + testSecret + "\nsite:\n  max_upload_bytes: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCredentialsFromEnv(t *testing.T) {
	admins, guests := credentialsFromEnv([]string{
		"USER=root",
		"ADMIN_B=b:2",
		"PATH=/usr/bin",
		"ADMIN_A=a:1",
		"USER_X=x:y",
	})
	assert.Equal(t, []string{"a:1", "b:2"}, admins)
	assert.Equal(t, []string{"x:y"}, guests)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND", "value")
	assert.Equal(t, "a value b", expandEnvVars("a ${TEST_EXPAND} b"))
	assert.Equal(t, "a  b", expandEnvVars("a ${TEST_UNSET_VARIABLE_XYZ} b"))
}
