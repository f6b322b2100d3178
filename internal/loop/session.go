// Package loop runs the terminal front end: one Session per connected
// terminal, each driving its own match with the local frame clock.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/event"
	"github.com/tomz197/starstrike/internal/highscore"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/match"
)

// Options configures a session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Store        highscore.Store // nil disables the leaderboard
	Logger       *log.Logger
	Difficulty   match.Difficulty
	Username     string // Prefills the high score name
	Inactivity   bool   // Disconnect idle sessions
}

// Session handles rendering and input for a single terminal.
type Session struct {
	match        *match.Match
	clock        FrameClock
	state        *sessionState
	snapshot     match.Snapshot
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	store        highscore.Store
	logger       *log.Logger
	username     string
	inactivity   bool
	termSizeFunc draw.TermSizeFunc
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Difficulty == "" {
		opts.Difficulty = match.Normal
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ArenaWidth, config.ArenaHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	s := &Session{
		match: match.New(match.Options{
			Difficulty: opts.Difficulty,
			Logger:     logger,
		}),
		state:        newSessionState(opts.Difficulty, time.Now()),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		store:        opts.Store,
		logger:       logger,
		username:     opts.Username,
		inactivity:   opts.Inactivity,
		termSizeFunc: termSizeFunc,
	}
	if r != nil {
		s.inputStream = input.StartStream(r)
	}
	return s
}

// Run starts the session loop. It blocks until the user quits, the input
// ends or, after ctx is cancelled, the shutdown notice has been shown.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	s.refreshHighScores(ctx)
	s.logger.Info("session started", "user", s.username)

	for s.state.Running {
		frameStart := time.Now()

		if ctx.Err() != nil && s.state.Screen != ScreenShutdown {
			s.shutdown(frameStart)
		}

		var in input.Input
		if s.inputStream != nil {
			in = input.ReadInput(s.inputStream)
			if s.inputStream.Closed() {
				s.state.Running = false
			}
		}

		s.step(ctx, frameStart, in)
		s.updateScreen()

		if err := s.drawFrame(frameStart); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	s.logger.Info("session ended", "user", s.username, "score", s.match.State().Score)
	draw.ClearScreen(s.writer)
	return nil
}

// step applies one frame of input and advances the match.
func (s *Session) step(ctx context.Context, now time.Time, in input.Input) {
	st := s.state
	st.Input = in

	if in.Any() {
		st.lastInput = now
		st.isInactive = false
	} else if s.inactivity && st.Screen != ScreenShutdown {
		idle := now.Sub(st.lastInput)
		if idle > config.InactivityDisconnect {
			s.logger.Info("disconnecting idle session", "user", s.username, "idle", idle.Round(time.Second))
			st.Running = false
			return
		}
		st.isInactive = idle > config.InactivityWarn
	}

	if s.quitRequested(in) {
		st.Running = false
		return
	}

	switch st.Screen {
	case ScreenStart:
		s.updateStartScreen(now)
	case ScreenPlaying:
		s.updatePlaying(now)
	case ScreenPaused:
		s.updatePaused()
	case ScreenGameOver:
		s.updateGameOver(ctx)
	case ScreenShutdown:
		if !now.Before(st.shutdownAt) {
			st.Running = false
		}
	}

	s.snapshot = s.match.Snapshot()
}

// quitRequested reports whether the user asked to leave. While typing a
// name only Ctrl-C quits, so the letter q can be entered.
func (s *Session) quitRequested(in input.Input) bool {
	if s.state.Screen == ScreenGameOver && s.nameEntryOpen() {
		for _, b := range in.Pressed {
			if b == '\x03' {
				return true
			}
		}
		return false
	}
	return in.Quit
}

func (s *Session) updateStartScreen(now time.Time) {
	in := s.state.Input
	if in.Number >= 1 && in.Number <= len(match.Difficulties) {
		s.state.Difficulty = match.Difficulties[in.Number-1]
	}
	if in.Enter || in.Fire {
		s.startGame(now)
	}
}

// startGame restarts the match at the selected difficulty.
func (s *Session) startGame(now time.Time) {
	if s.inputStream != nil {
		s.inputStream.Reset()
	}
	s.match.SetDifficulty(s.state.Difficulty)
	s.clock.Reset()
	s.state.Screen = ScreenPlaying
	s.state.Submitted = nil
	s.state.SubmitErr = nil
	s.state.showBanner("WAVE 1", now, config.BannerDuration)
	s.logger.Info("match started", "user", s.username, "difficulty", s.state.Difficulty)
}

func (s *Session) updatePlaying(now time.Time) {
	in := s.state.Input
	if in.Pause {
		s.match.Pause()
		s.clock.Pause()
		s.state.Screen = ScreenPaused
		return
	}

	res := s.match.Tick(s.clock.Tick(now), in.Control())
	for _, e := range res.Events {
		s.handleEvent(e, now)
	}
	if res.State.Status == match.Over {
		s.gameOver()
	}
}

// handleEvent turns match notifications into banners.
func (s *Session) handleEvent(e event.Event, now time.Time) {
	switch e.Type {
	case event.WaveStart:
		s.state.showBanner(fmt.Sprintf("WAVE %d", e.Amount), now, config.BannerDuration)
	case event.BossSpawned:
		s.state.showBanner("!! BOSS INCOMING !!", now, config.BannerDuration)
	case event.LevelUp:
		s.state.showBanner(fmt.Sprintf("LEVEL %d", e.Amount), now, config.BannerDuration)
	case event.BombUsed:
		s.state.showBanner(fmt.Sprintf("BOMB! %d cleared", e.Amount), now, config.BannerDuration)
	}
}

func (s *Session) gameOver() {
	s.state.Screen = ScreenGameOver
	s.state.Name = []rune(defaultName(s.username))
	s.state.banner = banner{}
	if s.inputStream != nil {
		s.inputStream.Reset()
	}
}

// defaultName prefills the name entry from the login name.
func defaultName(username string) string {
	if username == "" {
		return ""
	}
	return highscore.NormalizeName(username)
}

func (s *Session) updatePaused() {
	in := s.state.Input
	if in.Pause || in.Enter {
		s.match.Resume()
		s.clock.Resume()
		s.state.Screen = ScreenPlaying
	}
}

// nameEntryOpen reports whether the game-over screen is accepting a name.
func (s *Session) nameEntryOpen() bool {
	return s.store != nil && s.state.Submitted == nil && s.state.SubmitErr == nil
}

func (s *Session) updateGameOver(ctx context.Context) {
	st := s.state
	if !s.nameEntryOpen() {
		if st.Input.Enter || st.Input.Pause {
			s.backToStart(ctx)
		}
		return
	}

	buf := st.Input.Pressed
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[':
			i += 2 // Arrow keys
		case b == '\x1b':
			s.backToStart(ctx)
			return
		case b == '\r' || b == '\n':
			s.submit(ctx)
			return
		case b == '\b' || b == '\x7f':
			if len(st.Name) > 0 {
				st.Name = st.Name[:len(st.Name)-1]
			}
		case isNameByte(b) && len(st.Name) < config.MaxNameLength:
			st.Name = append(st.Name, rune(b))
		}
	}
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' ||
		b == '-' || b == '_' || b == '.'
}

// submit stores the finished match under the entered name.
func (s *Session) submit(ctx context.Context) {
	rec := highscore.NewRecord(string(s.state.Name), s.match.Result())

	ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
	defer cancel()
	if err := s.store.Submit(ctx, rec); err != nil {
		s.logger.Error("submitting high score", "err", err, "user", s.username)
		s.state.SubmitErr = err
		return
	}
	s.logger.Info("high score submitted", "name", rec.Name, "score", rec.Score, "level", rec.Level)
	s.state.Submitted = &rec
}

func (s *Session) backToStart(ctx context.Context) {
	s.state.Screen = ScreenStart
	if s.inputStream != nil {
		s.inputStream.Reset()
	}
	s.refreshHighScores(ctx)
}

// refreshHighScores reloads the title screen leaderboard.
func (s *Session) refreshHighScores(ctx context.Context) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
	defer cancel()
	records, err := s.store.Top(ctx, config.HighScoresShown)
	if err != nil {
		s.logger.Warn("loading high scores", "err", err)
		return
	}
	s.state.highScores = records
}

// shutdown switches to the shutdown notice and schedules the disconnect.
func (s *Session) shutdown(now time.Time) {
	s.match.Pause()
	s.clock.Pause()
	s.state.Screen = ScreenShutdown
	s.state.shutdownAt = now.Add(config.ShutdownDisplay)
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		draw.ClearScreen(s.writer)
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
}
