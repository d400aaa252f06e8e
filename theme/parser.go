package theme

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrParse is wrapped by every ParseError.
var ErrParse = errors.New("invalid theme source")

// ParseError reports a malformed theme source. Key is empty when the source
// is not valid TOML at all.
type ParseError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse theme"
	if e.Key != "" {
		msg += ": " + e.Key
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// SourceReadError reports a theme file that could not be read.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read theme file %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Parse decodes a theme source. The [theme] table must define all six keys;
// any other keys are ignored.
func Parse(src []byte) (Theme, error) {
	var doc document
	md, err := toml.Decode(string(src), &doc)
	if err != nil {
		return Theme{}, &ParseError{Key: keyFromDecodeError(err), Err: err}
	}

	if !md.IsDefined("theme") {
		return Theme{}, &ParseError{Key: "theme", Reason: "missing section"}
	}
	for _, key := range Keys {
		if !md.IsDefined("theme", key) {
			return Theme{}, &ParseError{Key: "theme." + key, Reason: "missing field"}
		}
	}

	return doc.Theme, nil
}

// keyFromDecodeError extracts the offending key from a decoder error when the
// decoder reported one.
func keyFromDecodeError(err error) string {
	var perr toml.ParseError
	if errors.As(err, &perr) && perr.LastKey != "" {
		return perr.LastKey
	}
	return ""
}

// Load reads and parses the theme file at path.
func Load(path string) (Theme, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, &SourceReadError{Path: path, Err: err}
	}
	return Parse(src)
}

// ParseColor reads a color written as 0xRRGGBB, #RRGGBB or a decimal integer.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty color")
	}

	var (
		n   uint64
		err error
	)
	switch {
	case strings.HasPrefix(s, "#"):
		n, err = strconv.ParseUint(s[1:], 16, 32)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		n, err = strconv.ParseUint(s[2:], 16, 32)
	default:
		n, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color(n), nil
}

// FromColors builds a theme from six color strings in canonical key order.
func FromColors(values []string) (Theme, error) {
	if len(values) != len(Keys) {
		return Theme{}, fmt.Errorf("expected %d colors (%s), got %d", len(Keys), strings.Join(Keys, ", "), len(values))
	}

	colors := make([]Color, len(values))
	for i, v := range values {
		c, err := ParseColor(v)
		if err != nil {
			return Theme{}, fmt.Errorf("%s: %w", Keys[i], err)
		}
		colors[i] = c
	}

	return Theme{
		Accent:     colors[0],
		AccentDeep: colors[1],
		Foreground: colors[2],
		Complement: colors[3],
		Dark:       colors[4],
		LightDark:  colors[5],
	}, nil
}
