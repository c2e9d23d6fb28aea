package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)
}

func TestApplyDefaults(t *testing.T) {
	t.Run("Config struct defaults", func(t *testing.T) {
		config := &Config{}
		applyDefaults(config)

		if config.Server.Host != "0.0.0.0" {
			t.Errorf("Expected host '0.0.0.0', got %q", config.Server.Host)
		}
		if config.Server.Port != "8080" {
			t.Errorf("Expected port '8080', got %q", config.Server.Port)
		}

		if config.Upload.Dir != "upload/img" {
			t.Errorf("Expected upload dir 'upload/img', got %q", config.Upload.Dir)
		}
		if config.Upload.MaxBytes != 2*1024*1024 {
			t.Errorf("Expected max bytes 2 MiB, got %d", config.Upload.MaxBytes)
		}
		expectedTypes := []string{"image/jpeg", "image/png"}
		if !reflect.DeepEqual(config.Upload.AllowedTypes, expectedTypes) {
			t.Errorf("Expected allowed types %v, got %v", expectedTypes, config.Upload.AllowedTypes)
		}

		if config.Storage.Backend != "sqlite" {
			t.Errorf("Expected storage backend 'sqlite', got %q", config.Storage.Backend)
		}
		if config.Images.Backend != "fs" {
			t.Errorf("Expected images backend 'fs', got %q", config.Images.Backend)
		}
		if config.Images.Bucket != "" {
			t.Errorf("Expected empty bucket, got %q", config.Images.Bucket)
		}

		if config.Site.CodeTheme != "github" {
			t.Errorf("Expected code theme 'github', got %q", config.Site.CodeTheme)
		}

		if config.Logging.Level != "info" {
			t.Errorf("Expected logging level 'info', got %q", config.Logging.Level)
		}
	})

	t.Run("Custom struct with various field types", func(t *testing.T) {
		type TestStruct struct {
			StringField  string   `default:"test-string"`
			BoolField    bool     `default:"true"`
			IntField     int      `default:"42"`
			Int64Field   int64    `default:"4096"`
			Float64Field float64  `default:"3.14"`
			SliceField   []string `default:"a,b,c"`
			NoDefault    string
		}

		test := &TestStruct{}
		applyDefaults(test)

		if test.StringField != "test-string" {
			t.Errorf("Expected string field 'test-string', got %q", test.StringField)
		}
		if !test.BoolField {
			t.Error("Expected bool field to be true")
		}
		if test.IntField != 42 {
			t.Errorf("Expected int field 42, got %d", test.IntField)
		}
		if test.Int64Field != 4096 {
			t.Errorf("Expected int64 field 4096, got %d", test.Int64Field)
		}
		if test.Float64Field != 3.14 {
			t.Errorf("Expected float64 field 3.14, got %f", test.Float64Field)
		}
		expectedSlice := []string{"a", "b", "c"}
		if !reflect.DeepEqual(test.SliceField, expectedSlice) {
			t.Errorf("Expected slice %v, got %v", expectedSlice, test.SliceField)
		}
		if test.NoDefault != "" {
			t.Errorf("Expected no default field to be empty, got %q", test.NoDefault)
		}
	})

	t.Run("Invalid default values", func(t *testing.T) {
		type InvalidStruct struct {
			BadBool  bool    `default:"not-a-bool"`
			BadInt   int     `default:"not-an-int"`
			BadFloat float64 `default:"not-a-float"`
		}

		test := &InvalidStruct{}
		applyDefaults(test)

		if test.BadBool {
			t.Error("Expected invalid bool default to remain false")
		}
		if test.BadInt != 0 {
			t.Errorf("Expected invalid int default to remain 0, got %d", test.BadInt)
		}
		if test.BadFloat != 0.0 {
			t.Errorf("Expected invalid float default to remain 0.0, got %f", test.BadFloat)
		}
	})

	t.Run("Non-struct input", func(t *testing.T) {
		stringVar := "test"
		applyDefaults(&stringVar)
		applyDefaults(stringVar)
		applyDefaults(42)
		applyDefaults(nil)
	})
}

func TestLoadConfig(t *testing.T) {
	SetLogger(zerolog.Nop())

	t.Run("Missing file falls back to defaults", func(t *testing.T) {
		err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if AppConfig.Upload.MaxBytes != 2*1024*1024 {
			t.Errorf("Expected default max bytes, got %d", AppConfig.Upload.MaxBytes)
		}
	})

	t.Run("File overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "server:\n  port: \"9000\"\nupload:\n  dir: /var/typoteka/img\nstorage:\n  backend: mock\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		if err := LoadConfig(path); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if AppConfig.Server.Port != "9000" {
			t.Errorf("Expected port 9000, got %q", AppConfig.Server.Port)
		}
		if AppConfig.Upload.Dir != "/var/typoteka/img" {
			t.Errorf("Expected overridden upload dir, got %q", AppConfig.Upload.Dir)
		}
		if AppConfig.Storage.Backend != "mock" {
			t.Errorf("Expected mock backend, got %q", AppConfig.Storage.Backend)
		}
		// Untouched keys keep their defaults.
		if AppConfig.Server.Host != "0.0.0.0" {
			t.Errorf("Expected default host, got %q", AppConfig.Server.Host)
		}
		if AppConfig.Addr() != "0.0.0.0:9000" {
			t.Errorf("Expected addr 0.0.0.0:9000, got %q", AppConfig.Addr())
		}
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server: [unterminated"), 0o600); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if err := LoadConfig(path); err == nil {
			t.Error("Expected parse error")
		}
	})

	AppConfig = Defaults()
}
