// Package logs builds the command's structured logger.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Format selects the terminal handler.
type Format string

const (
	// Text selects slog's text handler.
	Text Format = "text"
	// JSON selects slog's JSON handler.
	JSON Format = "json"
)

// ParseFormat accepts "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("logs: unknown format %q", s)
	}
}

// New returns a logger writing to w. When the process runs as a systemd
// service the terminal handler is replaced by the journal.
func New(w io.Writer, level slog.Leveler, format Format) *slog.Logger {
	return newLogger(w, level, format, isSystemdService())
}

func newLogger(w io.Writer, level slog.Leveler, format Format, systemd bool) *slog.Logger {
	var handlers []slog.Handler

	// local
	var terminalHandler slog.Handler
	if !systemd {
		opts := &slog.HandlerOptions{Level: level}
		if format == JSON {
			terminalHandler = slog.NewJSONHandler(w, opts)
		} else {
			terminalHandler = slog.NewTextHandler(w, opts)
		}
		handlers = append(handlers, terminalHandler)
	}

	// systemd journal
	if systemd {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			// journal unavailable: log to w instead
			terminalHandler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
			handlers = append(handlers, terminalHandler)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	})
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}

func isSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}
	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
