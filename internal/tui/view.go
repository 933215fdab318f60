package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("sd-scan " + m.location))
	b.WriteString("\n\n")

	m.renderStatus(&b)

	if m.usage != nil {
		b.WriteString(RenderDim(fmt.Sprintf("%s free of %s",
			humanize.Bytes(m.usage.FreeBytes), humanize.Bytes(m.usage.TotalBytes))))
		b.WriteString("\n")
	}

	switch {
	case m.testFileErr != nil:
		b.WriteString(RenderWarning("Test file: " + m.testFileErr.Error()))
		b.WriteString("\n")
	case m.testFile != "":
		b.WriteString(RenderSuccess("Test file: " + m.testFile))
		b.WriteString("\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")

		for _, p := range m.recent {
			b.WriteString("  ")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}

	if m.lastErr != nil && m.phase != PhaseConnecting {
		b.WriteString("\n")
		b.WriteString(RenderError(m.lastErr.Error()))
		b.WriteString("\n")
	}

	if m.phase != PhaseDone && m.phase != PhaseFailed {
		b.WriteString("\n")
		b.WriteString(RenderDim("q to quit"))
	}

	return BoxStyle().Render(b.String())
}

func (m *Model) renderStatus(b *strings.Builder) {
	switch m.phase {
	case PhaseConnecting:
		b.WriteString(fmt.Sprintf("%s Trying to connect (attempt %d)\n", m.spinner.View(), m.attempts))

		if m.lastErr != nil {
			b.WriteString(RenderWarning("Card not connected: " + m.lastErr.Error()))
			b.WriteString("\n")
		}
	case PhaseMounting:
		b.WriteString(fmt.Sprintf("%s Mounting\n", m.spinner.View()))
	case PhaseTestFile:
		b.WriteString(fmt.Sprintf("%s Writing test file\n", m.spinner.View()))
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning %s (%s files)\n",
			m.spinner.View(), m.currentDir, humanize.Comma(int64(m.files))))
	case PhaseDone:
		b.WriteString(RenderSuccess(fmt.Sprintf("Scan complete: %s files in %s directories, %s",
			humanize.Comma(int64(m.result.Files)), humanize.Comma(int64(m.result.Dirs)), m.result.Elapsed)))
		b.WriteString("\n")
	case PhaseFailed:
		b.WriteString(RenderError(fmt.Sprintf("Failed after %s files", humanize.Comma(int64(m.result.Files)))))
		b.WriteString("\n")
	}
}
