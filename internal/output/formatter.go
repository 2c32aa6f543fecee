package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]func() Formatter{
	"console":      func() Formatter { return ConsoleFormatter{} },
	"console-lite": func() Formatter { return ConsoleLiteFormatter{} },
	"json":         func() Formatter { return JSONFormatter{Pretty: true} },
	"yaml":         func() Formatter { return YAMLFormatter{} },
	"csv":          func() Formatter { return CSVFormatter{} },
	"markdown":     func() Formatter { return MarkdownFormatter{Render: true, Style: "auto", WordWrap: 100} },
	"markdown-raw": func() Formatter { return MarkdownFormatter{} },
	"msgpack":      func() Formatter { return MsgpackFormatter{} },
}

var aliases = map[string]string{
	"verbose": "console",
	"text":    "console",
	"lite":    "console-lite",
	"yml":     "yaml",
	"md":      "markdown",
	"mp":      "msgpack",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil when the name is unknown
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	if ctor, ok := formatters[name]; ok {
		return ctor()
	}
	return nil
}

// AvailableFormatterNames lists the registered formatter names
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted alternative names
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileExtension returns the conventional extension for a formatter's output
func FileExtension(f Formatter) string {
	switch f.Name() {
	case "json":
		return "json"
	case "yaml":
		return "yaml"
	case "csv":
		return "csv"
	case "markdown-raw":
		return "md"
	case "msgpack":
		return "msgpack"
	default:
		return "txt"
	}
}

// Write formats report and writes it to w
func Write(w io.Writer, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", f.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s output: %w", f.Name(), err)
	}
	return nil
}

// WriteFormatted writes report to a timestamped file in the working directory
// and returns the filename
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("goal_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
