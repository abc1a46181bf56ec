package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/janekbaraniewski/synthload/internal/core"
)

const (
	DefaultCategory     = "H0"
	DefaultDownloadURL  = "https://www.apcs.at/apcs/clearing/lastprofile/synthload2024.zip"
	DefaultDataFileName = "synthload2024.xlsx"
	DefaultServerAddr   = "127.0.0.1:8050"
)

type ServerConfig struct {
	Addr                string `json:"addr"`
	Watch               bool   `json:"watch"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

type Config struct {
	DataFile         string       `json:"data_file"`
	CatalogFile      string       `json:"catalog_file,omitempty"`
	DataDir          string       `json:"data_dir"`
	DownloadURL      string       `json:"download_url"`
	DefaultCategory  string       `json:"default_category"`
	DefaultYearlySum float64      `json:"default_yearly_sum"`
	Theme            string       `json:"theme"`
	Server           ServerConfig `json:"server"`
}

func DefaultConfig() Config {
	dataDir := DefaultDataDir()
	return Config{
		DataFile:         filepath.Join(dataDir, DefaultDataFileName),
		DataDir:          dataDir,
		DownloadURL:      DefaultDownloadURL,
		DefaultCategory:  DefaultCategory,
		DefaultYearlySum: core.ReferenceAnnualEnergy,
		Theme:            "Catppuccin Mocha",
		Server: ServerConfig{
			Addr:                DefaultServerAddr,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "synthload")
	}
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "synthload")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "synthload")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// DefaultDataDir is where fetched workbooks land.
func DefaultDataDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "synthload")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "synthload")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaults.DataDir
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		cfg.DataFile = filepath.Join(cfg.DataDir, DefaultDataFileName)
	}
	if strings.TrimSpace(cfg.DownloadURL) == "" {
		cfg.DownloadURL = defaults.DownloadURL
	}
	if strings.TrimSpace(cfg.DefaultCategory) == "" {
		cfg.DefaultCategory = defaults.DefaultCategory
	}
	if cfg.DefaultYearlySum < 0 {
		cfg.DefaultYearlySum = defaults.DefaultYearlySum
	}
	if cfg.Theme == "" {
		cfg.Theme = defaults.Theme
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = defaults.Server.ReadTimeoutSeconds
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = defaults.Server.WriteTimeoutSeconds
	}

	return cfg, nil
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveDataFile points the config at a new data file (read-modify-write).
func SaveDataFile(dataFile string) error {
	return SaveDataFileTo(ConfigPath(), dataFile)
}

func SaveDataFileTo(path string, dataFile string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.DataFile = dataFile
	return SaveTo(path, cfg)
}

// SaveTheme stores the theme picked in the browser (read-modify-write).
func SaveTheme(theme string) error {
	return SaveThemeTo(ConfigPath(), theme)
}

func SaveThemeTo(path string, theme string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Theme = theme
	return SaveTo(path, cfg)
}
