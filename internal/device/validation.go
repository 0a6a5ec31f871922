package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	MinKelvin = 2000
	MaxKelvin = 6500

	MinBrightness = 0
	MaxBrightness = 100

	MaxColor = 0xFFFFFF

	// Defaults applied to newly added lamps.
	DefaultKelvin     = 4000
	DefaultBrightness = 100

	// Voltage is the fixed mains voltage used for plug energy accounting.
	Voltage = 220.0

	colorPrefix = "0x"
)

// ValidateName checks that a device name is usable as a registry key.
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	return nil
}

// ValidateKelvin checks that kelvin is within [MinKelvin, MaxKelvin].
func ValidateKelvin(kelvin int) error {
	if kelvin < MinKelvin || kelvin > MaxKelvin {
		return ErrKelvinRange
	}
	return nil
}

// ValidateBrightness checks that brightness is within [MinBrightness, MaxBrightness].
func ValidateBrightness(brightness int) error {
	if brightness < MinBrightness || brightness > MaxBrightness {
		return ErrBrightnessRange
	}
	return nil
}

// ValidateAmpere checks that a plugged item draws a positive current.
func ValidateAmpere(ampere float64) error {
	if !(ampere > 0) {
		return ErrAmpereValue
	}
	return nil
}

// ValidateMBPerMinute checks that a camera records at a positive rate.
func ValidateMBPerMinute(mb float64) error {
	if !(mb > 0) {
		return ErrMegabyteValue
	}
	return nil
}

// ValidateWhite checks a kelvin/brightness pair before any device lookup.
func ValidateWhite(kelvin, brightness int) error {
	if err := ValidateKelvin(kelvin); err != nil {
		return err
	}
	return ValidateBrightness(brightness)
}

// ParseColor validates a color literal such as "0xFF8800".
//
// The literal must carry the 0x prefix followed by hex digits. The returned
// string is the input unchanged, since reports echo the user's spelling.
//
// Returns:
//   - ErrFormat if the prefix or digits are malformed
//   - ErrColorRange if the value exceeds 0xFFFFFF
func ParseColor(literal string) (string, error) {
	digits, ok := strings.CutPrefix(literal, colorPrefix)
	if !ok || digits == "" {
		return "", fmt.Errorf("%w: color %q must start with %s", ErrFormat, literal, colorPrefix)
	}

	value, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return "", ErrColorRange
		}
		return "", fmt.Errorf("%w: color %q: %v", ErrFormat, literal, err)
	}
	if value > MaxColor {
		return "", ErrColorRange
	}
	return literal, nil
}

// IsColorLiteral reports whether a lamp value argument is a color rather
// than a kelvin number.
func IsColorLiteral(value string) bool {
	return strings.HasPrefix(value, colorPrefix)
}

// GenerateID creates a new unique device ID.
func GenerateID() string {
	return uuid.NewString()
}
