package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/space-defender/internal/audio"
	"github.com/tomz197/space-defender/internal/config"
	"github.com/tomz197/space-defender/internal/loop"
	"github.com/tomz197/space-defender/internal/loop/client"
	"golang.org/x/term"
)

const speakerBuffer = 100 * time.Millisecond

func main() {
	cfg, cfgErr := config.Load()
	logger, closeLog, err := config.NewLogger(cfg, "game")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	defer closeLog()
	if cfgErr != nil {
		logger.Warn("config problems, using defaults", "err", cfgErr)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	director := audio.NewDirector(openOutput(cfg, logger), audio.Options{
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
	logger.Info("starting", "seed", seed, "fps", cfg.FPS, "audio", cfg.AudioEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(game, os.Stdin, os.Stdout, client.Options{
		FPS:    cfg.FPS,
		Logger: logger,
	})
	if err := c.Run(ctx); err != nil && !errors.Is(err, client.ErrInputClosed) {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exiting", "score", game.Score(), "high_score", game.HighScore())
}

// openOutput returns nil when audio is off or no device can be opened; the
// director then runs silently.
func openOutput(cfg config.Config, logger *log.Logger) audio.Output {
	if !cfg.AudioEnabled {
		return nil
	}
	out, err := audio.OpenSpeaker(audio.DefaultSampleRate, speakerBuffer)
	if err != nil {
		logger.Warn("audio unavailable, continuing without sound", "err", err)
		return nil
	}
	return out
}
