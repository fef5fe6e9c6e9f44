// Package report formats render results and schedules for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Danondso/cuetrack/internal/protocol"
	"github.com/Danondso/cuetrack/internal/wavfile"
)

var (
	hotPink      = lipgloss.Color("#FF6AC1")
	cyan         = lipgloss.Color("#00E5FF")
	purple       = lipgloss.Color("#B388FF")
	coral        = lipgloss.Color("#FF8A80")
	teal         = lipgloss.Color("#64FFDA")
	sunsetOrange = lipgloss.Color("#FFAB40")
	dimmed       = lipgloss.Color("#666666")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(hotPink)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true).
			Width(10)

	speechStyle = lipgloss.NewStyle().Foreground(purple)
	toneStyle   = lipgloss.NewStyle().Foreground(sunsetOrange)
	okStyle     = lipgloss.NewStyle().Foreground(teal).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(coral).Bold(true)
	timeStyle   = lipgloss.NewStyle().Foreground(dimmed)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// Summary describes a finished render written to path.
func Summary(res *protocol.Result, path string) string {
	tl := res.Timeline
	var speech, tones int
	for _, e := range res.Events {
		if e.Kind == protocol.KindSpeech {
			speech++
		} else {
			tones++
		}
	}

	limiter := okStyle.Render("untouched")
	if res.Scale != 1 {
		limiter = warnStyle.Render(fmt.Sprintf("peak %.4f scaled by %.4f", res.Peak, res.Scale))
	}

	rows := []string{
		titleStyle.Render("cue track rendered"),
		row("output", fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(wavfile.Size(tl.Len()))))),
		row("duration", fmt.Sprintf("%.3fs (%d samples @ %d Hz)", tl.Duration(), tl.Len(), tl.SampleRate())),
		row("cues", fmt.Sprintf("%s, %s",
			speechStyle.Render(fmt.Sprintf("%d speech", speech)),
			toneStyle.Render(fmt.Sprintf("%d tones", tones)))),
		row("limiter", limiter),
	}
	if dropped := res.Dropped(); len(dropped) > 0 {
		labels := make([]string, len(dropped))
		for i, e := range dropped {
			labels[i] = fmt.Sprintf("%s@%.3fs", e.Label, e.Start)
		}
		rows = append(rows, row("dropped", warnStyle.Render(strings.Join(labels, ", "))))
	}
	rows = append(rows, row("elapsed", timeStyle.Render(res.Elapsed.Round(time.Millisecond).String())))

	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Playback describes a WAV file about to be previewed.
func Playback(path string, h wavfile.Header, d time.Duration, size int) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("playing "),
		path,
		timeStyle.Render(fmt.Sprintf("  %s, %d Hz, %d-bit, %d ch, %s",
			d.Round(time.Millisecond), h.SampleRate, h.BitDepth, h.Channels, humanize.Bytes(uint64(size))))),
	)
}

// Schedule lists cues one per line with their start time and gain.
func Schedule(cues []protocol.Cue) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d cues", len(cues))))
	b.WriteString("\n")
	for _, c := range cues {
		var what string
		switch c.Kind {
		case protocol.KindSpeech:
			what = speechStyle.Render(fmt.Sprintf("%-16s %q", c.Label, c.Text))
		case protocol.KindTone:
			what = toneStyle.Render(fmt.Sprintf("%-16s %.0f Hz %.3fs", c.Label, c.Tone.FrequencyHz, c.Tone.DurationSec))
		}
		fmt.Fprintf(&b, "%s  %s  %s\n",
			timeStyle.Render(fmt.Sprintf("%9.3fs", c.Start)),
			what,
			timeStyle.Render(fmt.Sprintf("gain %.2f", c.Gain)))
	}
	return b.String()
}
