package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/loop"
	"github.com/tomz197/starstrike/internal/match"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	// The terminal is the game screen, so logs go to stderr and only
	// warnings are shown by default.
	logger := settings.NewLogger(os.Stderr, "starstrike")
	logger.SetLevel(max(logger.GetLevel(), log.WarnLevel))

	difficulty, err := match.ParseDifficulty(settings.Difficulty)
	if err != nil {
		logger.Warn("using default difficulty", "err", err)
	}

	store, err := highscore.OpenLocalStore(highscore.AppName)
	if err != nil {
		logger.Warn("high scores will not be saved", "err", err)
		store, _ = highscore.NewLocalStore(nil)
	}
	defer store.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	session := loop.NewSession(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Store:      store,
		Logger:     logger,
		Difficulty: difficulty,
		Username:   os.Getenv("USER"),
	})
	if err := session.Run(context.Background()); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
