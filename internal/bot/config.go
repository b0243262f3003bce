package bot

import (
	"os"
	"strconv"
	"time"

	"github.com/example/verdania/internal/energy"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Number of tiles offered per learning mission
	TilesPerMission int
	// Starting and maximum charges of a new user's energy pool
	EnergyMax int
	// Time to regenerate one neural charge
	RegenInterval time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		TilesPerMission: 5,
		EnergyMax:       energy.DefaultMax,
		RegenInterval:   energy.DefaultRegenInterval,
	}
}

// ConfigFromEnv returns the default configuration with environment overrides
// applied (ENERGY_MAX, ENERGY_REGEN_HOURS, TILES_PER_MISSION).
func ConfigFromEnv() *BotConfig {
	cfg := DefaultConfig()
	if raw := os.Getenv("ENERGY_MAX"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.EnergyMax = v
		}
	}
	if raw := os.Getenv("ENERGY_REGEN_HOURS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.RegenInterval = time.Duration(v) * time.Hour
		}
	}
	if raw := os.Getenv("TILES_PER_MISSION"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			cfg.TilesPerMission = v
		}
	}
	return cfg
}
