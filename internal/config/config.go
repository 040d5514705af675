package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const appName = "budgetview"

// Source kinds.
const (
	SourceHTTP   = "http"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

type SourceConfig struct {
	Kind         string `json:"kind"`
	Endpoint     string `json:"endpoint"`
	Query        string `json:"query"`
	File         string `json:"file"`
	Database     string `json:"database"`
	Municipality string `json:"municipality"`
	Year         string `json:"year"`
}

type ChartConfig struct {
	Width            float64  `json:"width"`
	Height           float64  `json:"height"`
	Palette          []string `json:"palette,omitempty"`
	GrowMillis       int      `json:"grow_ms"`
	HoverMillis      int      `json:"hover_ms"`
	FadeMillis       int      `json:"fade_ms"`
	DisableAnimation bool     `json:"disable_animation"`
}

type UIConfig struct {
	Fragment          string `json:"fragment"`
	LoaderDelayMillis int    `json:"loader_delay_ms"`
	TickMillis        int    `json:"tick_ms"`
	Watch             bool   `json:"watch"`
	ShowTable         bool   `json:"show_table"`
}

type ServeConfig struct {
	Addr string `json:"addr"`
}

// UpdateConfig points the release check at a feed. Token is read from the
// environment only and never written back to settings.json.
type UpdateConfig struct {
	Disabled      bool   `json:"disabled"`
	Feed          string `json:"feed"`
	NotesURL      string `json:"notes_url"`
	TimeoutMillis int    `json:"timeout_ms"`
	Token         string `json:"-"`
}

type Config struct {
	Source SourceConfig `json:"source"`
	Chart  ChartConfig  `json:"chart"`
	UI     UIConfig     `json:"ui"`
	Serve  ServeConfig  `json:"serve"`
	Update UpdateConfig `json:"update"`
	Theme  string       `json:"theme"`
}

func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Kind:     SourceHTTP,
			Endpoint: "http://127.0.0.1:8080/api/comparison",
			Database: filepath.Join(ConfigDir(), "budget.db"),
		},
		Chart: ChartConfig{
			Width:       640,
			Height:      480,
			GrowMillis:  2000,
			HoverMillis: 150,
			FadeMillis:  150,
		},
		UI: UIConfig{
			Fragment:          "#odhodki",
			LoaderDelayMillis: 500,
			TickMillis:        50,
			ShowTable:         true,
		},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
		Update: UpdateConfig{
			Feed:          "https://api.github.com/repos/janekbaraniewski/budgetview/releases/latest",
			NotesURL:      "https://github.com/janekbaraniewski/budgetview/releases",
			TimeoutMillis: 1500,
		},
		Theme: "Catppuccin Mocha",
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
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

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	d := DefaultConfig()
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = d.Source.Kind
	}
	if c.Chart.Width <= 0 {
		c.Chart.Width = d.Chart.Width
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = d.Chart.Height
	}
	if c.Chart.GrowMillis <= 0 {
		c.Chart.GrowMillis = d.Chart.GrowMillis
	}
	if c.Chart.HoverMillis <= 0 {
		c.Chart.HoverMillis = d.Chart.HoverMillis
	}
	if c.Chart.FadeMillis <= 0 {
		c.Chart.FadeMillis = d.Chart.FadeMillis
	}
	if c.UI.LoaderDelayMillis <= 0 {
		c.UI.LoaderDelayMillis = d.UI.LoaderDelayMillis
	}
	if c.UI.TickMillis <= 0 {
		c.UI.TickMillis = d.UI.TickMillis
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = d.Serve.Addr
	}
	if strings.TrimSpace(c.Update.Feed) == "" {
		c.Update.Feed = d.Update.Feed
	}
	if c.Update.TimeoutMillis <= 0 {
		c.Update.TimeoutMillis = d.Update.TimeoutMillis
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
}

// Validate reports settings that cannot produce a working source.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceHTTP:
		if strings.TrimSpace(c.Source.Endpoint) == "" {
			return fmt.Errorf("config: http source needs an endpoint")
		}
	case SourceFile:
		if strings.TrimSpace(c.Source.File) == "" {
			return fmt.Errorf("config: file source needs a file")
		}
	case SourceSQLite:
		if strings.TrimSpace(c.Source.Database) == "" || strings.TrimSpace(c.Source.Municipality) == "" {
			return fmt.Errorf("config: sqlite source needs a database and a municipality")
		}
	default:
		return fmt.Errorf("config: unknown source kind %q", c.Source.Kind)
	}
	return nil
}

// GrowDuration and friends convert the millisecond settings. Disabling
// animation turns every transition into a jump.
func (c ChartConfig) GrowDuration() time.Duration {
	if c.DisableAnimation {
		return 0
	}
	return time.Duration(c.GrowMillis) * time.Millisecond
}

func (c ChartConfig) HoverDuration() time.Duration {
	if c.DisableAnimation {
		return 0
	}
	return time.Duration(c.HoverMillis) * time.Millisecond
}

func (c ChartConfig) FadeDuration() time.Duration {
	if c.DisableAnimation {
		return 0
	}
	return time.Duration(c.FadeMillis) * time.Millisecond
}

func (u UIConfig) LoaderDelay() time.Duration {
	return time.Duration(u.LoaderDelayMillis) * time.Millisecond
}

func (u UIConfig) TickInterval() time.Duration {
	return time.Duration(u.TickMillis) * time.Millisecond
}

func (u UpdateConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutMillis) * time.Millisecond
}

// LoadEnvFile loads a .env file into the process environment. A missing file
// is not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays BUDGETVIEW_* environment variables on cfg.
func ApplyEnv(cfg Config) Config {
	cfg.Source.Kind = strings.ToLower(getEnv("BUDGETVIEW_SOURCE", cfg.Source.Kind))
	cfg.Source.Endpoint = getEnv("BUDGETVIEW_ENDPOINT", cfg.Source.Endpoint)
	cfg.Source.Query = getEnv("BUDGETVIEW_QUERY", cfg.Source.Query)
	cfg.Source.File = getEnv("BUDGETVIEW_FILE", cfg.Source.File)
	cfg.Source.Database = getEnv("BUDGETVIEW_DB", cfg.Source.Database)
	cfg.Source.Municipality = getEnv("BUDGETVIEW_MUNICIPALITY", cfg.Source.Municipality)
	cfg.Source.Year = getEnv("BUDGETVIEW_YEAR", cfg.Source.Year)
	cfg.UI.Fragment = getEnv("BUDGETVIEW_FRAGMENT", cfg.UI.Fragment)
	cfg.UI.LoaderDelayMillis = getEnvInt("BUDGETVIEW_LOADER_DELAY_MS", cfg.UI.LoaderDelayMillis)
	cfg.UI.Watch = getEnvBool("BUDGETVIEW_WATCH", cfg.UI.Watch)
	cfg.Chart.DisableAnimation = getEnvBool("BUDGETVIEW_NO_ANIMATION", cfg.Chart.DisableAnimation)
	cfg.Serve.Addr = getEnv("BUDGETVIEW_ADDR", cfg.Serve.Addr)
	cfg.Update.Disabled = getEnvBool("BUDGETVIEW_NO_UPDATE_CHECK", cfg.Update.Disabled)
	cfg.Update.Feed = getEnv("BUDGETVIEW_UPDATE_FEED", cfg.Update.Feed)
	cfg.Update.Token = getEnv("BUDGETVIEW_GITHUB_TOKEN", cfg.Update.Token)
	cfg.Theme = getEnv("BUDGETVIEW_THEME", cfg.Theme)
	cfg.normalize()
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
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

// SaveTheme persists a theme name into the config file (read-modify-write).
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
