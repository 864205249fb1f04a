package log

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// JSONEnv forces JSON output on stderr when set to a non-empty value.
const JSONEnv = "KDETECT_LOG_JSON"

// New returns a zerolog backed logr.Logger. Messages up to V(verbosity) are
// emitted.
func New(verbosity int) logr.Logger {
	var output io.Writer
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" || os.Getenv(JSONEnv) != "" {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	zerologr.SetMaxV(verbosity)

	zl := zerolog.New(output).With().Timestamp().Logger()
	return zerologr.New(&zl)
}
