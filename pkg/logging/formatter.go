// Package logging sets up the console logger used by the quest runner.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. format "json" selects logrus's JSON
// formatter, anything else the console formatter. An unparsable level falls
// back to info and is reported once.
func NewLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(NewConsoleFormatter())
	}

	if parsed, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	} else {
		log.SetLevel(logrus.InfoLevel)
		if level != "" {
			log.WithFields(logrus.Fields{
				"attempted_level": level,
				"default_level":   "INFO",
			}).Warn("Invalid log level specified, defaulting to INFO")
		}
	}

	return log
}

// leadingFields are printed first, in this order; everything else follows
// alphabetically.
var leadingFields = []string{"run_id", "account", "task", "step", "attempt", "tweet_id", "tx_hash", "error"}

// highlighted fields identify what a line is about.
var highlighted = map[string]bool{
	"account":  true,
	"task":     true,
	"tweet_id": true,
	"tx_hash":  true,
	"error":    true,
}

// ConsoleFormatter renders one line per entry:
//
//	15:04:05 INFO    Faucet claimed account="Account 1" task="faucet" amount=2
type ConsoleFormatter struct {
	TimestampFormat string
	DisableColors   bool
}

func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TimestampFormat: time.DateTime}
}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	level := f.paint(levelColor(entry.Level))
	fmt.Fprintf(b, "%s %s %s",
		f.paint(color.New(color.FgYellow)).Sprint(entry.Time.Format(f.TimestampFormat)),
		level.Sprintf("%-7s", strings.ToUpper(entry.Level.String())),
		level.Sprint(entry.Message),
	)

	for _, k := range orderedKeys(entry.Data) {
		key := color.New(color.FgCyan)
		if highlighted[k] {
			key = color.New(color.FgGreen)
		}
		fmt.Fprintf(b, " %s%s", f.paint(key).Sprint(k+"="), formatValue(entry.Data[k]))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *ConsoleFormatter) paint(c *color.Color) *color.Color {
	if f.DisableColors {
		c.DisableColor()
	}
	return c
}

func orderedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for _, k := range leadingFields {
		if _, ok := data[k]; ok {
			keys = append(keys, k)
		}
	}

	rest := make([]string, 0, len(data))
	for k := range data {
		if !contains(leadingFields, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case error:
		return fmt.Sprintf("%q", v.Error())
	case fmt.Stringer:
		return fmt.Sprintf("%q", v.String())
	}
	if encoded, err := json.Marshal(v); err == nil {
		return string(encoded)
	}
	return fmt.Sprintf("%v", v)
}

func levelColor(level logrus.Level) *color.Color {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return color.New(color.FgBlue)
	case logrus.InfoLevel:
		return color.New(color.FgGreen)
	case logrus.WarnLevel:
		return color.New(color.FgYellow)
	case logrus.ErrorLevel:
		return color.New(color.FgRed)
	case logrus.FatalLevel, logrus.PanicLevel:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
