// Package config loads psyker settings from config files, .env files and the
// environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/psyker-go/runtime/client"
)

// AppFs is the filesystem used when no other is given.
var AppFs = afero.NewOsFs()

// Config holds the application configuration.
type Config struct {
	Database   client.Config
	SchemaPath string
	Debug      bool
	// File is the config file that was read, if any.
	File string
}

// Load reads configuration. configFile overrides the search for .psyker.yaml
// in the working directory, the home directory and ~/.config/psyker.
// Environment variables use the PSYKER_ prefix (PSYKER_DATABASE_URL, ...);
// DATABASE_URL is honoured when no URL is configured.
func Load(fs afero.Fs, configFile string) (*Config, error) {
	if fs == nil {
		fs = AppFs
	}
	if err := loadDotEnv(fs); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".psyker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "psyker"))
		}
	}

	v.SetEnvPrefix("PSYKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("schema_path", "schema.psyker")
	v.SetDefault("debug", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_idle_time", "5m")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.server_version", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Database: client.Config{
			Driver:          v.GetString("database.driver"),
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxIdleTime: v.GetDuration("database.conn_max_idle_time"),
			ConnectTimeout:  v.GetDuration("database.connect_timeout"),
			ServerVersion:   v.GetString("database.server_version"),
		},
		SchemaPath: v.GetString("schema_path"),
		Debug:      v.GetBool("debug"),
		File:       v.ConfigFileUsed(),
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// loadDotEnv applies .env without overriding the environment, then
// .env.local which does override it.
func loadDotEnv(fs afero.Fs) error {
	for _, f := range []struct {
		name     string
		override bool
	}{
		{".env", false},
		{".env.local", true},
	} {
		vars, err := readDotEnv(fs, f.name)
		if err != nil {
			return err
		}
		for k, val := range vars {
			if _, set := os.LookupEnv(k); set && !f.override {
				continue
			}
			if err := os.Setenv(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func readDotEnv(fs afero.Fs, name string) (map[string]string, error) {
	file, err := fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return godotenv.Parse(file)
}
