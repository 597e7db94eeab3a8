package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"

	"genvid/internal/api"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// confirm prompts for a y/N answer and defaults to no. It reads from the
// caller's shared reader; wrapping the stream again here would let an earlier
// prompt's buffering swallow the answer.
func confirm(reader *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// promptLine reads one trimmed line, returning fallback on empty input.
func promptLine(reader *bufio.Reader, out io.Writer, label, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// promptPassword reads a password without echo when stdin is a terminal and
// falls back to a line from the shared reader otherwise. in is the raw stream
// used only for the terminal check.
func promptPassword(in io.Reader, reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	if f, ok := in.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// formatAge renders a timestamp as a short relative age.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// statusLabel renders a project status with its progress where relevant.
func statusLabel(p api.Project) string {
	if p.Status == api.StatusProcessing && p.ProgressPercent > 0 {
		return fmt.Sprintf("%s %d%%", p.Status, p.ProgressPercent)
	}
	return string(p.Status)
}
