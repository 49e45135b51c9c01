package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/chatlog/internal/parse"
	"github.com/Zuo-Peng/chatlog/internal/stats"
)

type Words struct {
	StopWords []string `toml:"stop_words"`
	TopK      int      `toml:"top_k" validate:"gte=0"`
	MaxCount  int      `toml:"max_count" validate:"gte=0"`
	MinLength int      `toml:"min_length" validate:"gte=0"`
	Display   int      `toml:"display" validate:"gte=0"`
}

type Config struct {
	TranscriptDir string     `toml:"transcript_dir"`
	Extensions    []string   `toml:"extensions" validate:"required,min=1,dive,required"`
	Calendar      string     `toml:"calendar" validate:"oneof=en de"`
	LogLevel      string     `toml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat     string     `toml:"log_format" validate:"oneof=console json"`
	Workers       int        `toml:"workers" validate:"gte=0"`
	Aliases       [][]string `toml:"aliases"`
	AliasFile     string     `toml:"alias_file"`
	Words         Words      `toml:"words"`

	// Path is the file the config was read from, empty when defaults apply.
	Path string `toml:"-"`
}

// aliasFile is the shape of an external alias table in either format.
type aliasFile struct {
	Aliases [][]string `toml:"aliases" yaml:"aliases"`
}

func Default(home string) *Config {
	return &Config{
		TranscriptDir: filepath.Join(home, "chatlogs"),
		Extensions:    []string{".txt"},
		Calendar:      "en",
		LogLevel:      "info",
		LogFormat:     "console",
		Words: Words{
			StopWords: []string{"", "a", "an", "and", "the", "i", "to", "of", "is", "it", "in"},
			TopK:      20,
			MinLength: 6,
			Display:   20,
		},
	}
}

// DefaultPath is ~/.config/chatlog/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chatlog", "config.toml"), nil
}

// Load reads the config at path, or the default path when path is empty.
// A missing default file is not an error; a missing explicit one is.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := Default(home)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".config", "chatlog", "config.toml")
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Path = path
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	// expand ~ in paths
	cfg.TranscriptDir = expandHome(cfg.TranscriptDir, home)
	cfg.AliasFile = expandHome(cfg.AliasFile, home)

	if cfg.AliasFile != "" {
		if !filepath.IsAbs(cfg.AliasFile) && cfg.Path != "" {
			cfg.AliasFile = filepath.Join(filepath.Dir(cfg.Path), cfg.AliasFile)
		}
		classes, err := loadAliasFile(cfg.AliasFile)
		if err != nil {
			return nil, err
		}
		cfg.Aliases = append(cfg.Aliases, classes...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAliasFile(path string) ([][]string, error) {
	var af aliasFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read alias file: %w", err)
		}
		if err := yaml.Unmarshal(data, &af); err != nil {
			return nil, fmt.Errorf("parse alias file %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, &af); err != nil {
			return nil, fmt.Errorf("parse alias file %s: %w", path, err)
		}
	}
	return af.Aliases, nil
}

var validate = validator.New()

// Validate checks field constraints and that alias classes are non-empty and
// pairwise disjoint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.AliasTable(); err != nil {
		return err
	}
	return nil
}

// AliasTable builds the resolver's alias table from the configured classes.
func (c *Config) AliasTable() (*stats.AliasTable, error) {
	t, err := stats.NewAliasTable(c.Aliases)
	if err != nil {
		return nil, fmt.Errorf("invalid aliases: %w", err)
	}
	return t, nil
}

func (c *Config) ParserCalendar() (parse.Calendar, error) {
	return parse.CalendarByName(c.Calendar)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
