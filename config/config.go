package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"krisha_importer/models"
)

type Config struct {
	DatabaseURL      string
	OpsDBPath        string
	LogPath          string
	DictionariesPath string
	ImportCron       string
	QueueInterval    time.Duration
	QueueBatchSize   int
	Sources          map[string]*SourceConfig
}

// SourceConfig describes one supported classifieds site: the domain the
// loader accepts, the marker element that signals a fully rendered advert,
// and the navigation budgets.
type SourceConfig struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Domain           string   `yaml:"domain"`
	MarkerSelector   string   `yaml:"marker_selector"`
	NavTimeoutMS     int      `yaml:"nav_timeout_ms"`
	MarkerTimeoutMS  int      `yaml:"marker_timeout_ms"`
	BlockedResources []string `yaml:"blocked_resources"`
	Headless         bool     `yaml:"headless"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		OpsDBPath:        getEnv("OPS_DB_PATH", "importer.db"),
		LogPath:          getEnv("LOG_PATH", "importer.log"),
		DictionariesPath: getEnv("DICTIONARIES_PATH", "config/dictionaries.yaml"),
		ImportCron:       os.Getenv("IMPORT_CRON"),
		QueueInterval:    time.Minute,
		QueueBatchSize:   getEnvInt("QUEUE_BATCH_SIZE", 5),
		Sources:          make(map[string]*SourceConfig),
	}

	if interval := os.Getenv("QUEUE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.QueueInterval = d
		}
	}

	if err := cfg.loadSourceConfigs(); err != nil {
		return nil, err
	}
	if len(cfg.Sources) == 0 {
		src := DefaultKrishaSource()
		cfg.Sources[src.ID] = src
	}

	return cfg, nil
}

// DefaultKrishaSource is the built-in krisha.kz profile, used when no
// config/sources directory is present.
func DefaultKrishaSource() *SourceConfig {
	return &SourceConfig{
		ID:               "krisha_kz",
		Name:             "Krisha.kz",
		Domain:           "krisha.kz",
		MarkerSelector:   ".offer__advert-title",
		NavTimeoutMS:     60000,
		MarkerTimeoutMS:  30000,
		BlockedResources: []string{"image", "stylesheet", "font", "media"},
		Headless:         true,
	}
}

func (c *Config) loadSourceConfigs() error {
	configDir := "config/sources"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		src := DefaultKrishaSource()
		if err := yaml.Unmarshal(data, src); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		c.Sources[src.ID] = src
	}

	return nil
}

// Source returns the profile with the given id, or the sole configured
// profile when id is empty.
func (c *Config) Source(id string) (*SourceConfig, error) {
	if id == "" && len(c.Sources) == 1 {
		for _, src := range c.Sources {
			return src, nil
		}
	}
	src, ok := c.Sources[id]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", id)
	}
	return src, nil
}

type dictionariesFile struct {
	Dictionaries map[string][]models.VocabEntry `yaml:"dictionaries"`
}

// LoadDictionaries reads the controlled-vocabulary seed file. Unknown
// dictionary names are an error so a typo cannot silently drop a table.
func LoadDictionaries(path string) (map[models.Dictionary][]models.VocabEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file dictionariesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	known := make(map[models.Dictionary]bool, len(models.Dictionaries))
	for _, d := range models.Dictionaries {
		known[d] = true
	}

	out := make(map[models.Dictionary][]models.VocabEntry, len(file.Dictionaries))
	for name, entries := range file.Dictionaries {
		dict := models.Dictionary(name)
		if !known[dict] {
			return nil, fmt.Errorf("unknown dictionary %q in %s", name, path)
		}
		out[dict] = entries
	}
	return out, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
