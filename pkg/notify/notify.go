package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Level is the severity of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Position hints where a notice should be anchored
type Position string

// TopCenter notices are centered over the output's rule width
const TopCenter Position = "top-center"

// width matches the rules printed around orders and receipts
const width = 60

// Notice is a transient message for the user. Duration is carried for
// consumers of JSON output; the terminal prints each notice once.
type Notice struct {
	Level    Level         `json:"level"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration,omitempty"`
	Position Position      `json:"position,omitempty"`
}

// Success builds a success notice
func Success(message string, duration time.Duration) Notice {
	return Notice{Level: LevelSuccess, Message: message, Duration: duration, Position: TopCenter}
}

// Error builds an error notice
func Error(message string) Notice {
	return Notice{Level: LevelError, Message: message}
}

// Terminal prints notices to a writer, colored unless JSON output is requested
type Terminal struct {
	mu   sync.Mutex
	out  io.Writer
	json bool
}

// NewTerminal creates a notifier writing to stdout
func NewTerminal(jsonOutput bool) *Terminal {
	return &Terminal{out: os.Stdout, json: jsonOutput}
}

// NewTerminalWriter creates a notifier writing to out
func NewTerminalWriter(out io.Writer, jsonOutput bool) *Terminal {
	return &Terminal{out: out, json: jsonOutput}
}

// Notify writes n
func (t *Terminal) Notify(n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.json {
		data, _ := json.Marshal(n)
		fmt.Fprintln(t.out, string(data))
		return
	}

	message := strings.TrimSpace(n.Message)
	indent := ""
	if n.Position == TopCenter {
		// +2 for the marker and its space
		if pad := (width - utf8.RuneCountInString(message) - 2) / 2; pad > 0 {
			indent = strings.Repeat(" ", pad)
		}
	}

	switch n.Level {
	case LevelSuccess:
		fmt.Fprintf(t.out, "\n%s%s %s\n\n", indent, color.GreenString("✓"), color.GreenString(message))
	case LevelError:
		fmt.Fprintf(t.out, "\n%s%s %s\n\n", indent, color.RedString("✗"), color.RedString(message))
	default:
		fmt.Fprintf(t.out, "\n%s%s\n\n", indent, message)
	}
}
