package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var rgbPattern = regexp.MustCompile(`^(rgba?)\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)$`)

// ValidateColor accepts the CSS color strings a map view can draw:
// #rgb, #rrggbb, rgb(r,g,b), rgba(r,g,b,a) and named colors.
func ValidateColor(s string) error {
	c := strings.TrimSpace(s)
	switch {
	case c == "":
		return fmt.Errorf("%w: empty string", ErrInvalidColor)
	case strings.HasPrefix(c, "#"):
		return validateHex(strings.ToLower(c), s)
	case strings.HasPrefix(strings.ToLower(c), "rgb"):
		return validateRGB(strings.ToLower(c), s)
	}
	if _, ok := colornames.Map[strings.ToLower(c)]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// validateHex parses c with colorful.Hex and requires the parsed color to
// print back as the same digits. Sscanf stops early on trailing junk, signs
// and extra digits, so the round trip is what rejects them.
func validateHex(c, orig string) error {
	col, err := colorful.Hex(c)
	if err != nil || col.Hex() != expandHex(c) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	return nil
}

// expandHex turns #rgb into #rrggbb.
func expandHex(c string) string {
	if len(c) != 4 {
		return c
	}
	return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
}

func validateRGB(c, orig string) error {
	m := rgbPattern.FindStringSubmatch(c)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	hasAlpha := m[5] != ""
	if (m[1] == "rgba") != hasAlpha {
		return fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	for _, comp := range m[2:5] {
		if v, _ := strconv.Atoi(comp); v > 255 {
			return fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
	}
	if hasAlpha {
		a, err := strconv.ParseFloat(m[5], 64)
		if err != nil || a > 1 {
			return fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
	}
	return nil
}
