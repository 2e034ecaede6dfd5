package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"

	"termzero/engine"
	"termzero/log"
	"termzero/types"
)

var (
	cfgFile = "termzero/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// PieceColors are 256-colour palette indices for one game.
type PieceColors struct {
	Board             int `json:"board"`
	Line              int `json:"line"`
	PlayerOne         int `json:"player_one"`
	PlayerOneSelected int `json:"player_one_selected"`
	PlayerTwo         int `json:"player_two"`
	PlayerTwoSelected int `json:"player_two_selected"`
	Hint              int `json:"hint"`
}

type ConfigSymbols struct {
	Piece      rune `json:"piece"`
	Hint       rune `json:"hint"`
	EmptyCell  rune `json:"empty"`
	Cursor     rune `json:"cursor"`
	LastPlayed rune `json:"last_played"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	UseGridLines             bool          `json:"use_grid_lines"`
	CursorColorBG            int           `json:"cursor_bg"`
	LastPlayedColorBG        int           `json:"last_played_bg"`
	Ataxx                    PieceColors   `json:"ataxx"`
	Go                       PieceColors   `json:"go"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// Colors returns the palette used for variant v.
func (t Theme) Colors(v types.Variant) PieceColors {
	if v == types.Ataxx {
		return t.Ataxx
	}
	return t.Go
}

// GameDefaults seed the setup form and the command line flags.
type GameDefaults struct {
	Variant    string  `json:"variant" env:"TERMZERO_GAME"`
	BoardSize  int     `json:"board_size" env:"TERMZERO_SIZE"`
	Iterations int     `json:"iterations" env:"TERMZERO_ITERATIONS"`
	Komi       float64 `json:"komi" env:"TERMZERO_KOMI"`
	ModelDir   string  `json:"model_dir" env:"TERMZERO_MODEL_DIR"`
}

// GnuGoConfig holds GnuGo-specific settings.
type GnuGoConfig struct {
	Path  string `json:"gnugo_path" env:"TERMZERO_GNUGO"`
	Level int    `json:"level"`
}

type Config struct {
	Theme      Theme        `json:"theme"`
	Game       GameDefaults `json:"game"`
	GnuGo      GnuGoConfig  `json:"gnugo"`
	LogLevel   string       `json:"log_level" env:"TERMZERO_LOG_LEVEL"`
	HistoryDir string       `json:"history_dir" env:"TERMZERO_HISTORY_DIR"`
	DBPath     string       `json:"db_path" env:"TERMZERO_DB"`
}

// InitConfig starts from DefaultConfig, overlays the user's config file if one
// exists and then the environment.
func InitConfig() (*Config, error) {
	config := DefaultConfig()
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		err = cleanenv.ReadConfig(absPath, &config)
	} else {
		err = cleanenv.ReadEnv(&config)
	}
	if err != nil {
		return nil, &InvalidConfig{err.Error()}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load reads a specific config file, with the environment applied on top.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, &InvalidConfig{err.Error()}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Piece, c.Theme.Symbols.Hint, c.Theme.Symbols.EmptyCell, c.Theme.Symbols.Cursor, c.Theme.Symbols.LastPlayed} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	for _, colors := range []PieceColors{c.Theme.Ataxx, c.Theme.Go} {
		for _, n := range []int{colors.Board, colors.Line, colors.PlayerOne, colors.PlayerOneSelected, colors.PlayerTwo, colors.PlayerTwoSelected, colors.Hint} {
			if n < 0 || n > 255 {
				return &InvalidConfig{fmt.Sprintf("colour %d is outside the 256 colour palette", n)}
			}
		}
	}
	if _, err := types.ParseVariant(c.Game.Variant); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if err := c.GameConfig().Validate(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	return nil
}

// GameConfig turns the stored defaults into a game configuration.
// An unknown variant name falls back to Ataxx here and is reported by Validate.
func (c *Config) GameConfig() engine.GameConfig {
	gc := engine.DefaultConfig()
	if v, err := types.ParseVariant(c.Game.Variant); err == nil {
		gc.Variant = v
	}
	gc.BoardSize = c.Game.BoardSize
	gc.Iterations = c.Game.Iterations
	gc.Komi = c.Game.Komi
	gc.EnginePath = c.GnuGo.Path
	gc.EngineLevel = c.GnuGo.Level
	return gc
}

// ModelPath returns the model file for key inside ModelDir, or "" when there
// is none.
func (c *Config) ModelPath(key string) string {
	if c.Game.ModelDir == "" {
		return ""
	}
	path := filepath.Join(c.Game.ModelDir, key+".json")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return c.SaveTo(absPath)
}

func (c *Config) SaveTo(filePath string) error {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, 0664)
}
