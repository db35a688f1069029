package main

import (
	"cinechat/domain/chat"
	"cinechat/projection"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"
)

var (
	headerStyle  = color.New(color.FgCyan, color.OpBold)
	selfStyle    = color.New(color.FgGreen, color.OpBold)
	pendingStyle = color.New(color.FgGray)
	errorStyle   = color.New(color.FgRed)
	revealStyle  = color.New(color.BgBlack, color.FgYellow)
)

// screen redraws the whole timeline on every change. Chat rooms are small
// enough for a terminal to keep up.
type screen struct {
	mu     sync.Mutex
	out    io.Writer
	selfID string
}

func newScreen(out io.Writer, selfID string) *screen {
	return &screen{out: out, selfID: selfID}
}

func (s *screen) Render(timeline *projection.Timeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Clear screen, cursor home.
	fmt.Fprint(s.out, "\033[H\033[2J")
	fmt.Fprint(s.out, frame(timeline.Room(), timeline.Snapshot(), timeline.Count(), s.selfID))
}

func frame(room chat.Room, lines []projection.Line, count int, selfID string) string {
	var b strings.Builder
	title := room.Name
	if room.IsMatch() {
		title = "private room"
	}
	b.WriteString(headerStyle.Sprintf("# %s", title))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(renderLine(line, selfID))
	}
	if room.IsMatch() {
		b.WriteString("\n")
		if chat.CanReveal(room, count) {
			b.WriteString(revealStyle.Sprint("Identities may now be revealed"))
		} else {
			b.WriteString(pendingStyle.Sprintf("%d/%d messages before reveal", count, chat.RevealThreshold+1))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderLine(line projection.Line, selfID string) string {
	var b strings.Builder
	m := line.Message
	if !line.Grouped {
		style := headerStyle
		if m.AuthorID == selfID {
			style = selfStyle
		}
		fmt.Fprintf(&b, "%s %s\n", style.Sprint(author(m, selfID)),
			pendingStyle.Sprint(m.CreatedAt.Local().Format("15:04")))
	}
	switch m.Status {
	case chat.StatusSending:
		fmt.Fprintf(&b, "  %s %s\n", pendingStyle.Sprint(m.Content), pendingStyle.Sprint("…"))
	case chat.StatusError:
		fmt.Fprintf(&b, "  %s %s\n", m.Content, errorStyle.Sprint("(not sent)"))
	default:
		fmt.Fprintf(&b, "  %s\n", m.Content)
	}
	return b.String()
}

func author(m chat.Message, selfID string) string {
	name := m.AuthorID
	if m.IsAnonymous {
		name = m.DisplayName
	}
	if m.AuthorID == selfID {
		name += " (you)"
	}
	return name
}
