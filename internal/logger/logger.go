package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/expense-web/internal/session"
	"github.com/baechuer/expense-web/middleware"
)

// Log is the process logger. Until Init runs it discards everything.
var Log = zerolog.Nop()

// Init points Log and the zerolog global at stdout.
// level is a zerolog level name; format is "json" or "console".
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

func InitWithWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	Log = zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("service", "expense-web").
		Logger()
	zlog.Logger = Log
}

// Ctx returns Log tagged with the request ID and, once a session with a
// valid token is in ctx, the token subject.
func Ctx(ctx context.Context) *zerolog.Logger {
	reqID := middleware.GetRequestID(ctx)
	subject := ""
	if s, ok := session.FromContext(ctx); ok && s.IsAuthenticated() {
		if claims, err := s.CurrentUser(); err == nil {
			subject = claims.Subject
		}
	}
	if reqID == "" && subject == "" {
		return &Log
	}

	c := Log.With()
	if reqID != "" {
		c = c.Str("request_id", reqID)
	}
	if subject != "" {
		c = c.Str("subject", subject)
	}
	l := c.Logger()
	return &l
}
