package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Formatter is the interface for log formatters
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

// LogEntry represents a single log entry
type LogEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Error     error
	Timestamp time.Time
	Caller    string
}

// Fields is a map of structured data
type Fields map[string]any

func newFormatter(config *Config) Formatter {
	switch config.Format {
	case FormatJSON:
		return &JSONFormatter{config: config, messageKey: "message", timeKey: "timestamp"}
	case FormatCloudWatch:
		return &JSONFormatter{config: config, messageKey: "msg", timeKey: "time"}
	default:
		return &ConsoleFormatter{config: config}
	}
}

// JSONFormatter writes one JSON object per line. The CloudWatch format is the
// same encoder with the short key names CloudWatch Insights expects.
type JSONFormatter struct {
	config     *Config
	messageKey string
	timeKey    string
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	data := make(map[string]any, len(entry.Fields)+5)
	for k, v := range entry.Fields {
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data[f.messageKey] = entry.Message
	data[f.timeKey] = formatTimestamp(entry.Timestamp, f.config.TimeFormat)
	if entry.Caller != "" {
		data["caller"] = entry.Caller
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(bytes, '\n'), nil
}

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGray    = "\033[90m"
	colorCyan    = "\033[36m"
	colorBoldRed = "\033[1;31m"
	colorYellow  = "\033[1;33m"
	colorGreen   = "\033[1;32m"
	colorBlue    = "\033[1;36m"
)

// ConsoleFormatter formats logs for a terminal.
type ConsoleFormatter struct {
	config *Config
}

func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	f.paint(&b, colorGray, formatTimestamp(entry.Timestamp, f.config.TimeFormat))
	b.WriteByte(' ')
	f.paint(&b, levelColor(entry.Level), fmt.Sprintf("[%-5s]", entry.Level.String()))
	b.WriteByte(' ')

	if entry.Caller != "" {
		f.paint(&b, colorGray, "["+entry.Caller+"] ")
	}
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Fields[k])
		}
		b.WriteByte(' ')
		f.paint(&b, colorCyan, strings.Join(pairs, " "))
	}

	if entry.Error != nil {
		b.WriteString("\n")
		f.paint(&b, colorRed, "  error: "+entry.Error.Error())
	}
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if !f.config.EnableColors {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(colorReset)
}

func levelColor(level Level) string {
	switch level {
	case LevelTrace:
		return colorGray
	case LevelDebug:
		return colorBlue
	case LevelInfo:
		return colorGreen
	case LevelWarn:
		return colorYellow
	default:
		return colorBoldRed
	}
}

func formatTimestamp(t time.Time, format string) string {
	switch format {
	case "unix":
		return strconv.FormatInt(t.Unix(), 10)
	case "":
		return t.Format(time.RFC3339)
	default:
		return t.Format(format)
	}
}
