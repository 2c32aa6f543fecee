// Package logging builds the zerolog logger used by the command line tools
// and adapts it to the calculation.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rgehrsitz/goalpath/internal/calculation"
	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error
	Pretty bool      // human readable console output
	Output io.Writer // defaults to stderr so formatted reports own stdout
}

// ParseLevel maps a level name to a zerolog level; unknown names mean info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a structured logger
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
			NoColor:    cfg.Output != nil,
		}
	}

	return zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// Adapter exposes a zerolog logger through calculation.Logger
type Adapter struct {
	logger zerolog.Logger
}

var _ calculation.Logger = (*Adapter)(nil)

// NewAdapter wraps l
func NewAdapter(l zerolog.Logger) *Adapter {
	return &Adapter{logger: l}
}

// Zerolog returns the wrapped logger
func (a *Adapter) Zerolog() zerolog.Logger {
	return a.logger
}

// With returns an adapter whose entries carry component=name
func (a *Adapter) With(component string) *Adapter {
	return &Adapter{logger: a.logger.With().Str("component", component).Logger()}
}

func (a *Adapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

func (a *Adapter) Infof(format string, args ...interface{}) {
	a.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (a *Adapter) Warnf(format string, args ...interface{}) {
	a.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (a *Adapter) Errorf(format string, args ...interface{}) {
	a.logger.Error().Msg(fmt.Sprintf(format, args...))
}
