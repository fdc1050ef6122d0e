package loggeradapter

import (
	stdlog "log"

	"github.com/rs/zerolog"

	"github.com/fitlane/gateway/internal/x/stringx"
)

type writerAdapter struct {
	log zerolog.Logger
}

// NewStdLogger returns a std library logger forwarding everything
// written to it as error events to the given zerolog logger. Used to
// capture the error output of http.Server.
func NewStdLogger(logger zerolog.Logger) *stdlog.Logger {
	return stdlog.New(writerAdapter{log: logger}, "", 0)
}

func (a writerAdapter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[0 : n-1]
	}

	a.log.Error().Msg(stringx.ToString(p))

	return n, nil
}
