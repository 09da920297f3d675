package notify

import (
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Message type constants.
// Each type determines the record level, symbol and color.
const (
	// ErrorType represents an error message (red, with ❌ symbol).
	ErrorType MessageType = iota
	// WarningType represents a warning message (yellow, with ⚠️ symbol).
	WarningType
	// SuccessType represents a success message (green, with ✅ symbol).
	SuccessType
	// InfoType represents an informational message (blue, with ℹ️ symbol).
	InfoType
	// StartType marks the beginning of a hook (bold, with 🔄 symbol).
	StartType
	// DebugType represents command tracing (no symbol, hidden at the default level).
	DebugType
)

// MessageType defines the type of a log message.
type MessageType int

// messageConfig holds the styling configuration for each message type.
type messageConfig struct {
	level  logrus.Level
	symbol string
	color  *fcolor.Color
}

// getMessageConfig returns the styling configuration for a given message type.
func getMessageConfig(msgType MessageType) messageConfig {
	switch msgType {
	case ErrorType:
		return messageConfig{
			level:  logrus.ErrorLevel,
			symbol: "❌ ",
			color:  fcolor.New(fcolor.FgRed),
		}
	case WarningType:
		return messageConfig{
			level:  logrus.WarnLevel,
			symbol: "⚠️  ",
			color:  fcolor.New(fcolor.FgYellow),
		}
	case SuccessType:
		return messageConfig{
			level:  logrus.InfoLevel,
			symbol: "✅ ",
			color:  fcolor.New(fcolor.FgGreen),
		}
	case InfoType:
		return messageConfig{
			level:  logrus.InfoLevel,
			symbol: "ℹ️  ",
			color:  fcolor.New(fcolor.FgBlue),
		}
	case StartType:
		return messageConfig{
			level:  logrus.InfoLevel,
			symbol: "🔄 ",
			color:  fcolor.New(fcolor.Reset, fcolor.Bold),
		}
	default:
		return messageConfig{
			level:  logrus.DebugLevel,
			symbol: "",
			color:  fcolor.New(fcolor.Reset),
		}
	}
}

// indentMultilineContent indents subsequent lines of multi-line content based on the symbol width.
// This keeps continuation lines aligned with the text after the first line's symbol.
func indentMultilineContent(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}

		lines[i] = indent + lines[i]
	}

	return strings.Join(lines, "\n")
}
