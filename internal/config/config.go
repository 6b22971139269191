package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Defaults used when the environment does not say otherwise.
const (
	DefaultMusicVolume = 0.3
	DefaultSfxVolume   = 0.5
	DefaultFPS         = 60
	DefaultLogLevel    = "info"
)

// Config is the runtime configuration shared by all frontends.
type Config struct {
	AudioEnabled bool
	MusicVolume  float64
	SfxVolume    float64
	FPS          int
	Seed         int64 // 0 means seed from the clock
	LogFile      string
	LogLevel     string
}

// Load reads an optional .env file from the working directory, then the
// process environment. Malformed values keep their defaults; every problem
// is reported in the returned error so callers can log it and carry on.
func Load() (Config, error) {
	var errs []error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}
	cfg, err := FromEnv()
	if err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := Config{
		LogFile:  GetEnv("SD_LOG_FILE", ""),
		LogLevel: GetEnv("SD_LOG_LEVEL", DefaultLogLevel),
	}

	var err error
	cfg.AudioEnabled, err = GetEnvBool("SD_AUDIO", true)
	collect(err)
	cfg.MusicVolume, err = GetEnvFloat("SD_MUSIC_VOLUME", DefaultMusicVolume)
	collect(err)
	cfg.SfxVolume, err = GetEnvFloat("SD_SFX_VOLUME", DefaultSfxVolume)
	collect(err)
	cfg.FPS, err = GetEnvInt("SD_FPS", DefaultFPS)
	collect(err)
	seed, err := GetEnvInt("SD_SEED", 0)
	collect(err)
	cfg.Seed = int64(seed)

	cfg.MusicVolume = ClampUnit(cfg.MusicVolume)
	cfg.SfxVolume = ClampUnit(cfg.SfxVolume)
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}

	return cfg, errors.Join(errs...)
}

// ClampUnit limits a volume or other fraction to [0, 1].
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
