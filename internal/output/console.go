package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/Plork/PSDepend/internal/dependency"
)

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	results         []dependency.Result // For JSON array output
	allowedStatuses map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			s.allowedStatuses[strings.ToUpper(st)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedStatuses) > 0 {
		if r, ok := v.(dependency.Result); ok {
			if !s.allowedStatuses[string(r.Status)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		r, ok := v.(dependency.Result)
		if !ok {
			// Ignore non-result events in JSON console mode.
			return nil
		}
		s.results = append(s.results, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case dependency.Result:
			return encoder.Encode(eventFromResult(t))
		default:
			return nil
		}
	default: // text
		r, ok := v.(dependency.Result)
		if !ok {
			return nil
		}
		return s.printResult(r)
	}
}

func (s *ConsoleSink) printResult(r dependency.Result) error {
	label := statusColor(r.Status).Sprintf("[%s]", r.Status)
	line := fmt.Sprintf("%-14s %s (%s)", label, r.Dependency, r.Type)
	if r.Message != "" {
		line += ": " + r.Message
	}
	_, err := fmt.Fprintln(s.writer, line)
	return err
}

func statusColor(st dependency.Status) *color.Color {
	switch st {
	case dependency.StatusInstalled, dependency.StatusImported, dependency.StatusSatisfied:
		return color.New(color.FgGreen)
	case dependency.StatusNotSatisfied:
		return color.New(color.FgYellow)
	case dependency.StatusError:
		return color.New(color.FgRed)
	case dependency.StatusSkipped:
		return color.New(color.FgCyan)
	}
	return color.New()
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s.results)
	}
	return nil
}
