package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Level zerolog.Level

const (
	DebugLevel = Level(zerolog.DebugLevel)
	InfoLevel  = Level(zerolog.InfoLevel)
	WarnLevel  = Level(zerolog.WarnLevel)
)

func (l Level) toZerolog() zerolog.Level {
	return zerolog.Level(l)
}

func (l Level) String() string {
	return l.toZerolog().String()
}

// Setup replaces the global logger. Debug level switches to the human readable
// console writer, every other level writes JSON lines to out.
func Setup(level Level, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	zerolog.SetGlobalLevel(level.toZerolog())
	var writer io.Writer
	switch level.toZerolog() {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		writer = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = out
			w.TimeFormat = time.RFC3339
		})
	default:
		writer = out
	}
	log.Logger = zerolog.
		New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

func ParseLevel(lvl string) Level {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil || parsedLevel == zerolog.NoLevel {
		return InfoLevel
	}
	return Level(parsedLevel)
}
