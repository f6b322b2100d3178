package loop

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/match"
)

// ASCII art titles (figlet "small" font)
var (
	titleArt = []string{
		` ___  _____    _    ___  ___  _____  ___  ___  _  __ ___ `,
		`/ __||_   _|  /_\  | _ \/ __||_   _|| _ \|_ _|| |/ /| __|`,
		`\__ \  | |   / _ \ |   /\__ \  | |  |   / | | | ' < | _| `,
		`|___/  |_|  /_/ \_\|_|_\|___/  |_|  |_|_\|___||_|\_\|___|`,
	}
	gameOverArt = []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
)

const (
	gaugeWidth   = 10 // Power gauge cells
	effectsWidth = 44 // Fixed width of the active effects line
)

// drawFrame draws the current frame.
func (s *Session) drawFrame(now time.Time) error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	st := s.state
	if st.Screen != st.prevScreen || st.isInactive != st.wasInactive {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		st.prevScreen = st.Screen
		st.wasInactive = st.isInactive
	}

	s.canvas.Clear()
	if st.Screen != ScreenStart {
		drawWorld(s.canvas, &s.snapshot)
	}

	s.canvas.Render(s.chunkWriter)
	s.canvas.RenderBorder(s.chunkWriter)

	if st.Screen != ScreenStart {
		s.drawPowerUpIcons()
	}
	s.drawUI(now)

	return s.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current screen.
func (s *Session) drawUI(now time.Time) {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if s.state.Screen == ScreenShutdown {
		s.drawShutdownScreen(centerX, centerY, now)
		return
	}

	if s.state.isInactive {
		s.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch s.state.Screen {
	case ScreenStart:
		s.drawStartScreen(centerX, centerY, now)
	case ScreenPlaying:
		s.drawHUD(termWidth, termHeight)
		s.drawBanner(centerX, termHeight/3, now)
	case ScreenPaused:
		s.drawHUD(termWidth, termHeight)
		s.drawPausedScreen(centerX, centerY)
	case ScreenGameOver:
		s.drawGameOverScreen(centerX, centerY, now)
	}
}

// writeOverlay writes centered text over the canvas and marks the cells so
// the canvas repaints them once the text is gone.
func (s *Session) writeOverlay(centerX, row int, text string) {
	col := s.chunkWriter.WriteCentered(centerX, row, text)
	s.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(text))
}

func (s *Session) writeArt(centerX, startRow int, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, utf8.RuneCountInString(line))
	}
	for i, line := range art {
		s.chunkWriter.WriteAt(centerX-width/2, startRow+i, line)
		s.canvas.MarkTextDirty(centerX-width/2, startRow+i, width)
	}
}

// blink reports the phase of the blinking prompts.
func blink(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

// drawStartScreen draws the title screen with the difficulty picker and
// the top scores.
func (s *Session) drawStartScreen(centerX, centerY int, now time.Time) {
	cw := s.chunkWriter
	row := centerY - 11
	s.writeArt(centerX, row, titleArt)
	row += len(titleArt) + 1

	cw.WriteCentered(centerX, row, "~ Arcade space shooter ~")
	row += 2

	cw.WriteCentered(centerX, row, difficultyLine(s.state.Difficulty))
	row += 2

	controlLines := []string{
		"W A S D / arrows . . . .  Move",
		"Shift + move  . . . . .  Boost",
		"SPACE . . . . . . . . . .  Fire",
		"X  . . . . . . . .  Special shot",
		"P / ESC . . . . . . . . . Pause",
		"Q  . . . . . . . . . . . .  Quit",
	}
	for _, line := range controlLines {
		cw.WriteCentered(centerX, row, line)
		row++
	}
	row++

	if len(s.state.highScores) > 0 {
		cw.WriteCentered(centerX, row, "High Scores")
		row++
		for i, r := range s.state.highScores {
			line := fmt.Sprintf("%d. %-*s %8d  L%-3d %-6s", i+1, config.MaxNameLength, r.Name, r.Score, r.Level, r.Difficulty)
			cw.WriteCentered(centerX, row, line)
			row++
		}
		row++
	}

	// Blinking start prompt
	if blink(now) {
		cw.WriteCentered(centerX, row, ">>  Press SPACE to Start  <<")
	} else {
		cw.WriteCentered(centerX, row, strings.Repeat(" ", 28))
	}
}

// difficultyLine renders the picker, bracketing the selection.
func difficultyLine(selected match.Difficulty) string {
	var b strings.Builder
	b.WriteString("Difficulty: ")
	for i, d := range match.Difficulties {
		name := strings.ToUpper(string(d))
		if d == selected {
			fmt.Fprintf(&b, " %d[%s]", i+1, name)
		} else {
			fmt.Fprintf(&b, " %d %s ", i+1, name)
		}
	}
	return b.String()
}

// drawHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we don't clear every frame).
func (s *Session) drawHUD(termWidth, termHeight int) {
	cw := s.chunkWriter
	st := s.snapshot.State

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", st.Score))

	progress := fmt.Sprintf("Level %-3d Wave %-3d %-6s", st.Level, st.Wave, st.Difficulty)
	cw.WriteCentered(termWidth/2, 1, progress)

	livesText := fmt.Sprintf("Lives: %-2d", st.Lives)
	cw.WriteAt(termWidth-len(livesText)-1, 1, livesText)

	cw.WriteAt(2, termHeight, powerGauge(s.snapshot.Player.SpecialPower))

	var effects []string
	for _, e := range s.snapshot.Effects {
		effects = append(effects, fmt.Sprintf("%s %ds", e.Name, int(e.Remaining.Seconds())+1))
	}
	line := fmt.Sprintf("%*s", effectsWidth, strings.Join(effects, "  "))
	if len(line) > effectsWidth {
		line = line[len(line)-effectsWidth:]
	}
	cw.WriteAt(termWidth-effectsWidth-1, termHeight, line)
}

// powerGauge renders the special power as shaded cells.
func powerGauge(power float64) string {
	frac := power / config.SpecialPowerMax
	var b strings.Builder
	b.WriteString("Power [")
	for i := range gaugeWidth {
		b.WriteRune(draw.ShadeLevel(frac*gaugeWidth - float64(i)))
	}
	fmt.Fprintf(&b, "] %3d", int(power))
	return b.String()
}

func (s *Session) drawBanner(centerX, row int, now time.Time) {
	if text := s.state.bannerText(now); text != "" {
		s.writeOverlay(centerX, row, text)
	}
}

func (s *Session) drawPausedScreen(centerX, centerY int) {
	s.writeOverlay(centerX, centerY-1, "  PAUSED  ")
	s.writeOverlay(centerX, centerY+1, " Press P or ESC to resume, Q to quit ")
}

// drawGameOverScreen draws the final score and the name entry.
func (s *Session) drawGameOverScreen(centerX, centerY int, now time.Time) {
	st := s.snapshot.State
	row := centerY - 7
	s.writeArt(centerX, row, gameOverArt)
	row += len(gameOverArt) + 1

	s.writeOverlay(centerX, row, fmt.Sprintf(" Score: %d   Level: %d   Wave: %d   %s ", st.Score, st.Level, st.Wave, st.Difficulty))
	row += 2

	switch {
	case s.store == nil:
	case s.state.Submitted != nil:
		s.writeOverlay(centerX, row, fmt.Sprintf(" Saved as %s ", s.state.Submitted.Name))
		row += 2
	case s.state.SubmitErr != nil:
		s.writeOverlay(centerX, row, " Could not save your score ")
		row += 2
	default:
		cursor := " "
		if blink(now) {
			cursor = "_"
		}
		name := fmt.Sprintf(" Name: %-*s ", config.MaxNameLength+1, string(s.state.Name)+cursor)
		s.writeOverlay(centerX, row, name)
		row++
		s.writeOverlay(centerX, row, " Type your name, ENTER to save, ESC to skip ")
		return
	}

	if blink(now) {
		s.writeOverlay(centerX, row, ">>  Press ENTER to Continue  <<")
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(centerX, centerY int, now time.Time) {
	cw := s.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	left := config.InactivityDisconnect - now.Sub(s.state.lastInput)
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", int(left.Seconds()))
	cw.WriteCentered(centerX, centerY, msg)

	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (s *Session) drawShutdownScreen(centerX, centerY int, now time.Time) {
	cw := s.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(s.state.shutdownAt.Sub(now).Seconds()) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", max(remaining, 0)))
	cw.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}
