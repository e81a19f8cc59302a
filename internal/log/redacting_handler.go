package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// identityKeys contains attribute keys whose values identify a person.
var identityKeys = map[string]bool{
	"email":     true,
	"emails":    true,
	"author":    true,
	"authors":   true,
	"name":      true,
	"firstname": true,
	"lastname":  true,
	"first":     true,
	"last":      true,
}

// identityKeywords mark keys like "author_email" or "metadata_author".
var identityKeywords = []string{"email", "author"}

// emailPattern matches values that look like an email address anywhere in the string.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+\s*@\s*[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+`)

// MaskValue is the string used to replace identifying values.
const MaskValue = "***REDACTED***"

// RedactingHandler wraps an slog.Handler to mask author identities.
// It intercepts log records and masks attribute values that match
// identity key names or email-shaped values before passing them to the
// underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Packages only depend on *slog.Logger and stay unaware of masking
type RedactingHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewRedactingHandler creates a new RedactingHandler wrapping the given handler.
// If handler is nil, the returned RedactingHandler uses slog.Default().Handler().
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are masked before being added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr masks a single attribute, recursively handling groups.
func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			masked[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if isIdentityKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && emailPattern.MatchString(a.Value.String()) {
		return slog.String(a.Key, emailPattern.ReplaceAllString(a.Value.String(), MaskValue))
	}

	return a
}

// isIdentityKey checks if the key names identifying data.
// The bare "name" only matches exactly, since keys like "file_name" are safe.
func isIdentityKey(key string) bool {
	key = strings.ToLower(key)
	if identityKeys[key] {
		return true
	}
	for _, keyword := range identityKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// handlerOptions returns the level options shared by both loggers.
// Verbose sets the level to Debug; otherwise Warn.
func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// NewLogger creates a new slog.Logger writing masked text records to w.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a new slog.Logger writing masked JSON records to w.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}
