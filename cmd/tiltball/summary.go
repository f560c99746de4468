package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/tiltball/status"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// sessionSummary is printed after the terminal is restored
type sessionSummary struct {
	Score      int64
	Ticks      int64
	Bounces    int64
	OutOfBound int64
	Levels     int64
	Relaxed    int64
	Played     time.Duration
	Paused     time.Duration
	ConfigFrom string
}

func collectSummary(reg *status.Registry, played, paused time.Duration, source string) sessionSummary {
	load := func(key string) int64 {
		if v, ok := reg.Ints.Lookup(key); ok {
			return v.Load()
		}
		return 0
	}
	return sessionSummary{
		Score:      load(status.KeyGameScore),
		Ticks:      load(status.KeyEngineTicks),
		Bounces:    load(status.KeyGameBounces),
		OutOfBound: load(status.KeyGameOOB),
		Levels:     load(status.KeyLevelGenerated),
		Relaxed:    load(status.KeyLevelExhausted),
		Played:     played,
		Paused:     paused,
		ConfigFrom: source,
	}
}

// Render formats the summary for a normal (non-raw) terminal
func (s sessionSummary) Render() string {
	var b strings.Builder
	rule := dimmer.Render("  ╺━━━━━━━━━━━━━━━━━━━━━━━━╸")

	b.WriteString(rule + "\n")
	b.WriteString("        " + cyan.Render("t i l t b a l l") + "\n")
	b.WriteString(rule + "\n\n")

	row := func(name, val string) {
		b.WriteString("    " + dim.Render(fmt.Sprintf("%-12s", name)) + val + "\n")
	}
	row("score", green.Render(fmt.Sprintf("%d", s.Score)))
	row("levels", white.Render(fmt.Sprintf("%d", s.Levels)))
	row("bounces", white.Render(fmt.Sprintf("%d", s.Bounces)))
	row("fell off", white.Render(fmt.Sprintf("%d", s.OutOfBound)))
	row("played", white.Render(s.Played.Round(time.Second).String()))
	if s.Paused > 0 {
		row("paused", dim.Render(s.Paused.Round(time.Second).String()))
	}
	if s.Relaxed > 0 {
		row("relaxed", yellow.Render(fmt.Sprintf("%d levels missed a constraint", s.Relaxed)))
	}
	row("ticks", dim.Render(fmt.Sprintf("%d", s.Ticks)))
	row("config", dim.Render(s.ConfigFrom))
	return b.String()
}
