package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

// Config is the runtime configuration of the game runner.
type Config struct {
	Game       GameConfig       `mapstructure:"game"`
	Tournament TournamentConfig `mapstructure:"tournament"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Replay     ReplayConfig     `mapstructure:"replay"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// GameConfig describes the table.
type GameConfig struct {
	Players   int      `mapstructure:"players"`
	Names     []string `mapstructure:"names"`
	HumanSeat int      `mapstructure:"human_seat"`
	Seed      uint64   `mapstructure:"seed"`
	Face      string   `mapstructure:"face"`
	Policy    string   `mapstructure:"policy"`
	Games     int      `mapstructure:"games"`
}

// TournamentConfig replaces the series of games by a tournament between AI
// entrants. Entrants lists one policy name per entrant; tables seat
// game.players entrants.
type TournamentConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Name     string   `mapstructure:"name"`
	Entrants []string `mapstructure:"entrants"`
	Rounds   int      `mapstructure:"rounds"`
	Workers  int      `mapstructure:"workers"`
}

// CatalogConfig points at card and wonder definitions. Empty paths select
// the embedded base game.
type CatalogConfig struct {
	CardsPath   string `mapstructure:"cards_path"`
	WondersPath string `mapstructure:"wonders_path"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

// DatabaseConfig configures the PostgreSQL pool. An empty URL disables
// result persistence.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

var (
	validFaces    = []string{"A", "B", "RANDOM"}
	validPolicies = []string{"baseline", "trader"}
	validLevels   = []string{"debug", "info", "warn", "error"}
	validFormats  = []string{"json", "console"}
)

// Load reads the configuration file at path, if it exists, and overlays
// WONDERS_* environment variables (WONDERS_GAME_PLAYERS=5).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WONDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Game.Face = strings.ToUpper(cfg.Game.Face)
	cfg.Game.Policy = strings.ToLower(cfg.Game.Policy)
	for i, policy := range cfg.Tournament.Entrants {
		cfg.Tournament.Entrants[i] = strings.ToLower(strings.TrimSpace(policy))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.players", 3)
	v.SetDefault("game.names", []string{})
	v.SetDefault("game.human_seat", -1)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.face", "random")
	v.SetDefault("game.policy", "baseline")
	v.SetDefault("game.games", 1)

	v.SetDefault("tournament.enabled", false)
	v.SetDefault("tournament.name", "tournament")
	v.SetDefault("tournament.entrants", []string{})
	v.SetDefault("tournament.rounds", 3)
	v.SetDefault("tournament.workers", 4)

	v.SetDefault("catalog.cards_path", "")
	v.SetDefault("catalog.wonders_path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.development", false)

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.directory", "replays")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if c.Game.Players < catalog.MinPlayers || c.Game.Players > catalog.MaxPlayers {
		return fmt.Errorf("game.players must be between %d and %d, got %d",
			catalog.MinPlayers, catalog.MaxPlayers, c.Game.Players)
	}
	if c.Game.HumanSeat < -1 || c.Game.HumanSeat >= c.Game.Players {
		return fmt.Errorf("game.human_seat %d is outside the table of %d (-1 seats no human)", c.Game.HumanSeat, c.Game.Players)
	}
	if c.Game.Games < 1 {
		return fmt.Errorf("game.games must be positive, got %d", c.Game.Games)
	}
	if !slices.Contains(validFaces, c.Game.Face) {
		return fmt.Errorf("game.face must be one of %v, got %q", validFaces, c.Game.Face)
	}
	if !slices.Contains(validPolicies, c.Game.Policy) {
		return fmt.Errorf("game.policy must be one of %v, got %q", validPolicies, c.Game.Policy)
	}
	if c.Tournament.Enabled {
		if err := c.Tournament.validate(c.Game.Players); err != nil {
			return err
		}
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", validLevels, c.Logging.Level)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", validFormats, c.Logging.Format)
	}
	if c.Replay.Enabled && c.Replay.Directory == "" {
		return fmt.Errorf("replay.directory is required when replays are enabled")
	}
	if c.Database.Enabled() && c.Database.MaxConns < 1 {
		return fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns)
	}
	return nil
}

func (t TournamentConfig) validate(tableSize int) error {
	if len(t.Entrants) < tableSize {
		return fmt.Errorf("tournament.entrants needs at least %d entrants, got %d", tableSize, len(t.Entrants))
	}
	for _, policy := range t.Entrants {
		if !slices.Contains(validPolicies, policy) {
			return fmt.Errorf("tournament.entrants: policy must be one of %v, got %q", validPolicies, policy)
		}
	}
	if t.Rounds < 1 {
		return fmt.Errorf("tournament.rounds must be positive, got %d", t.Rounds)
	}
	if t.Workers < 1 {
		return fmt.Errorf("tournament.workers must be positive, got %d", t.Workers)
	}
	return nil
}
