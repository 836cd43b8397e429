package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Tournament struct {
		Name          string   `yaml:"name"`
		Tables        []string `yaml:"tables"`
		StructureFile string   `yaml:"structure_file"`
	} `yaml:"tournament"`
	Persistence struct {
		Backend string `yaml:"backend"` // file | postgres
		File    string `yaml:"file"`
	} `yaml:"persistence"`
	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnvOverrides(config)
	return config, nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.Tournament.Name = "Friday Night Tournament"
	c.Tournament.Tables = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	c.Persistence.Backend = "file"
	c.Persistence.File = "data/tournament.json"
	c.NATS.URL = "" // empty disables NATS, falls back to log transports
	c.NATS.SubjectPrefix = "railbird"
	return c
}

func applyEnvOverrides(c *Config) {
	c.Persistence.Backend = getEnv("PERSISTENCE_BACKEND", c.Persistence.Backend)
	c.Persistence.File = getEnv("PERSISTENCE_FILE", c.Persistence.File)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", c.NATS.SubjectPrefix)
	if tables := os.Getenv("TOURNAMENT_TABLES"); tables != "" {
		c.Tournament.Tables = splitCSV(tables)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func databaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Database: getEnv("DB_NAME", "railbird"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}
