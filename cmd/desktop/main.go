package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/tomz197/space-defender/internal/audio"
	"github.com/tomz197/space-defender/internal/config"
	"github.com/tomz197/space-defender/internal/desktop"
	"github.com/tomz197/space-defender/internal/loop"
)

const speakerBuffer = 50 * time.Millisecond

func main() {
	cfg, cfgErr := config.Load()
	logger, closeLog, err := config.NewLogger(cfg, "desktop")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	defer closeLog()
	if cfgErr != nil {
		logger.Warn("config problems, using defaults", "err", cfgErr)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var out audio.Output
	if cfg.AudioEnabled {
		out, err = audio.OpenSpeaker(audio.DefaultSampleRate, speakerBuffer)
		if err != nil {
			logger.Warn("audio unavailable, continuing without sound", "err", err)
		}
	}
	director := audio.NewDirector(out, audio.Options{
		Logger: logger.WithPrefix("audio"),
		Rand:   rand.New(rand.NewSource(rng.Int63())),
	})
	defer director.Close()

	game := loop.NewGame(loop.Options{
		Rand:        rng,
		Audio:       director,
		Logger:      logger,
		MusicVolume: cfg.MusicVolume,
		SfxVolume:   cfg.SfxVolume,
		AudioOff:    !cfg.AudioEnabled,
	})
	logger.Info("starting", "seed", seed, "audio", !director.Silent())

	if err := desktop.Run(desktop.NewApp(game)); err != nil {
		logger.Error("window error", "err", err)
		fmt.Fprintf(os.Stderr, "window error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exiting", "high_score", game.HighScore())
}
