package config

import (
	"errors"
	"fmt"
	"image/color"
	"net/url"
	"strings"

	"golang.org/x/image/colornames"

	"InkBoard/internal/logging"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrInvalidConfig }

// Validate checks c. The returned error is a ValidationErrors matching
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Analysis.DebounceMs <= 0 {
		add("analysis.debounce_ms", "must be positive, got %d", c.Analysis.DebounceMs)
	}
	if !c.Input.Mouse && !c.Input.Pen && !c.Input.Touch {
		add("input", "at least one device must be enabled")
	}

	switch c.Recognizer.Mode {
	case RecognizerLocal:
	case RecognizerRemote:
		if c.Recognizer.URL == "" && !c.Recognizer.Discover {
			add("recognizer.url", "required in remote mode unless discover is set")
		}
	default:
		add("recognizer.mode", "must be %q or %q, got %q", RecognizerLocal, RecognizerRemote, c.Recognizer.Mode)
	}
	if c.Recognizer.URL != "" {
		u, err := url.Parse(c.Recognizer.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			add("recognizer.url", "must be a ws:// or wss:// URL, got %q", c.Recognizer.URL)
		}
	}
	if c.Recognizer.TimeoutMs <= 0 {
		add("recognizer.timeout_ms", "must be positive, got %d", c.Recognizer.TimeoutMs)
	}

	if _, ok := ParseColor(c.Style.TextColor); !ok {
		add("style.text_color", "unknown color %q", c.Style.TextColor)
	}
	if _, ok := ParseColor(c.Style.ShapeColor); !ok {
		add("style.shape_color", "unknown color %q", c.Style.ShapeColor)
	}
	if c.Style.ShapeThickness <= 0 {
		add("style.shape_thickness", "must be positive, got %g", c.Style.ShapeThickness)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}
	switch c.Logging.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		add("logging.format", "must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Logging.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseColor resolves an SVG color name or a #rrggbb hex value.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
		}
	}
	return color.NRGBA{}, false
}
