package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	appDirName            = "taskdeck"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Complete string `toml:"complete"`
	Delete   string `toml:"delete"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	Inbox    string `toml:"inbox"`
	Today    string `toml:"today"`
	Upcoming string `toml:"upcoming"`
	Projects string `toml:"projects"`
	Collapse string `toml:"collapse"`
	MoveUp   string `toml:"move_up"`
	MoveDown string `toml:"move_down"`
}

type Config struct {
	// DBPath selects the sqlite store; empty keeps everything in memory
	// for the session.
	DBPath      string `toml:"db_path"`
	DefaultView string `toml:"default_view"`
	SeedDemo    bool   `toml:"seed_demo"`
	Keys        Keymap `toml:"keys"`
}

// ResolveConfigPath returns the config file location under the user config
// dir, falling back to the working directory.
func ResolveConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appDirName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DefaultView == "" {
		cfg.DefaultView = "today"
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:      "",
		DefaultView: "today",
		SeedDemo:    true,
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Complete: " ",
			Delete:   "d",
			Confirm:  "enter",
			Cancel:   "esc",
			Inbox:    "i",
			Today:    "t",
			Upcoming: "u",
			Projects: "p",
			Collapse: "c",
			MoveUp:   "K",
			MoveDown: "J",
		},
	}
}
