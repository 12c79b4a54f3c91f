package notify

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPlain(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	n := NewTerminalWriter(&buf, false)

	n.Notify(Success("OK", 6*time.Second))
	n.Notify(Error("Enter a valid amount"))

	assert.Contains(t, buf.String(), "✓ OK")
	assert.Contains(t, buf.String(), "\n✗ Enter a valid amount\n")
}

func TestTerminalCentersTopCenterNotices(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	NewTerminalWriter(&buf, false).Notify(Success("OK", 6*time.Second))

	// (60 - len("OK") - 2) / 2 = 28
	assert.Equal(t, "\n"+strings.Repeat(" ", 28)+"✓ OK\n\n", buf.String())

	buf.Reset()
	long := strings.Repeat("x", 80)
	NewTerminalWriter(&buf, false).Notify(Notice{Level: LevelSuccess, Message: long, Position: TopCenter})
	assert.Equal(t, "\n✓ "+long+"\n\n", buf.String())
}

func TestTerminalJSON(t *testing.T) {
	var buf bytes.Buffer
	NewTerminalWriter(&buf, true).Notify(Success("OK", 6*time.Second))

	var got Notice
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, Success("OK", 6*time.Second), got)
	assert.Equal(t, TopCenter, got.Position)
}
