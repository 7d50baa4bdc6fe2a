package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance. Runs are batch jobs, so the default
// output is plain console text; structured JSON comes from setting
// LOG_FORMAT=json before startup.
var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339

	out := zerolog.New(os.Stdout)
	if os.Getenv("LOG_FORMAT") != "json" {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}

	Log = out.Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// SetLevel sets the global log level.
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
