package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"output_dir": "out",
		"language": "es",
		"concurrency": 4,
		"port": 9090,
		"verbose": true,
		"logger": {"level": "debug", "encoding": "json"},
		"object_store": {"endpoint": "localhost:9000", "bucket": "decks", "link_ttl": "15m"}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "es", cfg.Language)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "decks", cfg.ObjectStore.Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unsupported language", Config{Language: "fr"}, "Language"},
		{"negative concurrency", Config{Concurrency: -1}, "Concurrency"},
		{"port out of range", Config{Port: 70000}, "Port"},
		{"unknown log level", Config{Logger: LoggerConfig{Level: "loud"}}, "Level"},
		{"bucket without endpoint", Config{ObjectStore: ObjectStoreConfig{Bucket: "decks"}}, "Endpoint"},
		{"bad link ttl", Config{ObjectStore: ObjectStoreConfig{Endpoint: "h", Bucket: "b", LinkTTL: "soon"}}, "link_ttl"},
		{"missing images dir", Config{ImagesDir: "/nonexistent/images"}, "images directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ImagesPathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := (&Config{ImagesDir: file}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		ImagesDir:   t.TempDir(),
		Language:    "en",
		Concurrency: 8,
		Port:        8080,
	}

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		OutputDir:   "decks",
		ImagesDir:   "images",
		Concurrency: 4,
		Logger:      LoggerConfig{Level: "warn", Encoding: "json"},
		ObjectStore: ObjectStoreConfig{Endpoint: "minio:9000", Bucket: "decks"},
	}

	partial := Config{
		Language: "es",
		Logger:   LoggerConfig{Level: "debug"},
	}

	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, "es", merged.Language)
	assert.Equal(t, "debug", merged.Logger.Level)

	assert.Equal(t, "decks", merged.OutputDir)
	assert.Equal(t, "images", merged.ImagesDir)
	assert.Equal(t, 4, merged.Concurrency)
	assert.Equal(t, "json", merged.Logger.Encoding)
	assert.Equal(t, "decks", merged.ObjectStore.Bucket)
	assert.Equal(t, DefaultPort, merged.Port)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})

	assert.Equal(t, DefaultOutputDir, merged.OutputDir)
	assert.Equal(t, DefaultLanguage, merged.Language)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultLogLevel, merged.Logger.Level)
	assert.Equal(t, 0, merged.Concurrency)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GEMINI_API_KEY":   "key-123",
		"MINIO_ENDPOINT":   "s3.local:9000",
		"MINIO_ACCESS_KEY": "ak",
		"MINIO_SECRET_KEY": "sk",
		"MINIO_BUCKET":     "reports",
		"MINIO_USE_SSL":    "true",
	}
	cfg := &Config{APIKey: "from-file", ObjectStore: ObjectStoreConfig{Region: "eu-west-1"}}

	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, "s3.local:9000", cfg.ObjectStore.Endpoint)
	assert.Equal(t, "reports", cfg.ObjectStore.Bucket)
	assert.Equal(t, "eu-west-1", cfg.ObjectStore.Region)
	assert.True(t, cfg.ObjectStore.UseSSL)
}

func TestObjectStoreConfig_Delivery(t *testing.T) {
	d := ObjectStoreConfig{Endpoint: "h:9000", Bucket: "b", Prefix: "decks", LinkTTL: "15m"}.Delivery()
	assert.True(t, d.Enabled())
	assert.Equal(t, 15*time.Minute, d.LinkTTL)
	assert.Equal(t, "decks", d.Prefix)

	assert.Zero(t, ObjectStoreConfig{}.Delivery().LinkTTL)
}

func TestLoggerConfig_Zap(t *testing.T) {
	z := LoggerConfig{Level: "warn", Mode: "development", Encoding: "console"}.Zap()
	assert.Equal(t, "warn", z.Level)
	assert.Equal(t, "development", z.Mode)
	assert.Equal(t, "console", z.Encoding)
}
