package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// MaskValue replaces sensitive values in log output.
const MaskValue = "REDACTED"

// sensitiveKeys are attribute keys whose values are always masked outright.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"session":       true,
	"session_id":    true,
	"sessionid":     true,
	"auth":          true,
	"credential":    true,
	"credentials":   true,
}

// sensitiveParams are URL query parameter names whose values are masked
// when a URL-valued attribute is logged. Comparison is case-insensitive.
var sensitiveParams = map[string]bool{
	"token":        true,
	"access_token": true,
	"apikey":       true,
	"api_key":      true,
	"key":          true,
	"session":      true,
	"sessionid":    true,
	"session_id":   true,
	"sid":          true,
	"auth":         true,
	"password":     true,
	"secret":       true,
	"signature":    true,
	"sig":          true,
}

// RedactHandler wraps an slog.Handler and masks credentials before records
// reach it. Whole attributes are masked by key name; string attributes that
// parse as absolute URLs keep their shape but lose userinfo and sensitive
// query parameter values.
type RedactHandler struct {
	handler slog.Handler
}

// NewRedactHandler creates a RedactHandler wrapping the given handler.
// A nil handler falls back to slog.Default().Handler().
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a handler with the given attributes added, masked.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr masks a single attribute, recursing into groups.
func (h *RedactHandler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if masked, ok := RedactURL(a.Value.String()); ok {
			return slog.String(a.Key, masked)
		}
	}

	return a
}

// RedactURL strips credentials from a URL string: userinfo is removed and
// sensitive query parameter values are replaced with MaskValue. The second
// return value is false when the string is not an absolute URL or needs no
// masking, in which case it should be logged as-is.
func RedactURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	changed := false
	if u.User != nil {
		u.User = nil
		changed = true
	}

	if u.RawQuery != "" {
		query := u.Query()
		for name := range query {
			if sensitiveParams[strings.ToLower(name)] {
				query.Set(name, MaskValue)
				changed = true
			}
		}
		if changed {
			u.RawQuery = query.Encode()
		}
	}

	if !changed {
		return "", false
	}
	return u.String(), true
}

// NewRedactLogger creates a text logger on w with credential masking.
// Verbose mode logs at Debug, otherwise only warnings and errors pass.
func NewRedactLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactHandler(textHandler))
}
