package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration for Interactivebook.
// It is loaded from ~/.interactivebook/config.yaml and can be overridden by
// environment variables with the IBOOK_ prefix.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	Course  CourseConfig  `mapstructure:"course" yaml:"course"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// EditorConfig contains configuration for the exercise editor.
type EditorConfig struct {
	// DefaultFile is the file name used when saving an unnamed document
	DefaultFile string `mapstructure:"default_file" yaml:"default_file"`
	// Autosave persists the draft to the state database after every edit
	Autosave bool `mapstructure:"autosave" yaml:"autosave"`
	// IDMode selects how edits find their exercise: "ordinal" or "uid"
	IDMode string `mapstructure:"id_mode" yaml:"id_mode"`
	// TabWidth is the indentation inserted by the tab key
	TabWidth int `mapstructure:"tab_width" yaml:"tab_width"`
}

// PreviewConfig contains configuration for the rendered preview.
type PreviewConfig struct {
	// Style is the glamour style ("auto", "dark", "light", "notty")
	Style string `mapstructure:"style" yaml:"style"`
	// WordWrap is the wrap column of rendered output (0 = terminal width)
	WordWrap int `mapstructure:"word_wrap" yaml:"word_wrap"`
}

// CourseConfig locates the course structure.
type CourseConfig struct {
	// File is the course.yaml describing the lesson tree
	File string `mapstructure:"file" yaml:"file"`
	// ContentRoot is the directory lesson paths are resolved against
	ContentRoot string `mapstructure:"content_root" yaml:"content_root"`
}

// StorageConfig contains configuration for persisted state.
type StorageConfig struct {
	// DBPath is the path to the SQLite state database
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// TUIConfig contains configuration for the terminal user interface.
type TUIConfig struct {
	// Theme is the UI theme ("dark" or "light")
	Theme string `mapstructure:"theme" yaml:"theme"`
	// ShowHints is the initial state of exercise hints in the reader
	ShowHints bool `mapstructure:"show_hints" yaml:"show_hints"`
	// SidebarWidth is the width of the exercise list in characters
	SidebarWidth int `mapstructure:"sidebar_width" yaml:"sidebar_width"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// File is the path to the log file
	File string `mapstructure:"file" yaml:"file"`
}

// Correlation modes for editor.id_mode.
const (
	IDModeOrdinal = "ordinal"
	IDModeUID     = "uid"
)

// Default returns a Config populated with default values.
func Default() *Config {
	dataDir := DataDir()

	return &Config{
		Editor: EditorConfig{
			DefaultFile: "exercise.mdx",
			Autosave:    true,
			IDMode:      IDModeUID,
			TabWidth:    2,
		},
		Preview: PreviewConfig{
			Style:    "auto",
			WordWrap: 80,
		},
		Course: CourseConfig{
			File:        "course.yaml",
			ContentRoot: ".",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(dataDir, "interactivebook.db"),
		},
		TUI: TUIConfig{
			Theme:        "dark",
			ShowHints:    false,
			SidebarWidth: 28,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dataDir, "logs", "interactivebook.log"),
		},
	}
}

// DataDir returns ~/.interactivebook.
func DataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".interactivebook")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath())
}

// LoadFromPath reads the config at path, writing the defaults there first
// if the file does not exist.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// Example: IBOOK_PREVIEW_STYLE=light
	v.SetEnvPrefix("IBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Course.File = expandPath(cfg.Course.File)
	cfg.Course.ContentRoot = expandPath(cfg.Course.ContentRoot)

	return &cfg, nil
}

// setDefaults registers every key so older config files missing a section
// still pick up defaults and env overrides.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("editor.default_file", d.Editor.DefaultFile)
	v.SetDefault("editor.autosave", d.Editor.Autosave)
	v.SetDefault("editor.id_mode", d.Editor.IDMode)
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("preview.style", d.Preview.Style)
	v.SetDefault("preview.word_wrap", d.Preview.WordWrap)
	v.SetDefault("course.file", d.Course.File)
	v.SetDefault("course.content_root", d.Course.ContentRoot)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("tui.theme", d.TUI.Theme)
	v.SetDefault("tui.show_hints", d.TUI.ShowHints)
	v.SetDefault("tui.sidebar_width", d.TUI.SidebarWidth)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// SaveToPath writes the configuration to path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// EnsureDirectories creates the directories of the database and log file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Logging.File),
		filepath.Dir(c.Storage.DBPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Validate checks the configuration for unknown enum values and bad ranges.
func (c *Config) Validate() error {
	if c.Editor.IDMode != IDModeOrdinal && c.Editor.IDMode != IDModeUID {
		return fmt.Errorf("invalid id_mode '%s', must be one of: ordinal, uid", c.Editor.IDMode)
	}

	if c.Editor.TabWidth < 0 || c.Editor.TabWidth > 8 {
		return fmt.Errorf("tab_width must be between 0 and 8")
	}

	validStyles := map[string]bool{"auto": true, "dark": true, "light": true, "notty": true}
	if !validStyles[c.Preview.Style] {
		return fmt.Errorf("invalid preview style '%s', must be one of: auto, dark, light, notty", c.Preview.Style)
	}

	if c.Preview.WordWrap < 0 {
		return fmt.Errorf("word_wrap cannot be negative")
	}

	if c.TUI.Theme != "dark" && c.TUI.Theme != "light" {
		return fmt.Errorf("invalid theme '%s', must be 'dark' or 'light'", c.TUI.Theme)
	}

	if c.TUI.SidebarWidth < 10 || c.TUI.SidebarWidth > 100 {
		return fmt.Errorf("sidebar_width must be between 10 and 100")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// String renders the configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}

// writeConfigFile writes a Config struct to a YAML file using the yaml tags.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
