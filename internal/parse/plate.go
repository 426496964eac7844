package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	plateRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]*$`)
)

const maxPlateLen = 20

// Plate normalizes a raw plate number: trimmed, upper-cased, inner
// whitespace collapsed to a single space.
func Plate(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = spaceRe.ReplaceAllString(s, " ")
	if s == "" {
		return "", fmt.Errorf("plate number is empty")
	}
	if len(s) > maxPlateLen {
		return "", fmt.Errorf("plate number %q is longer than %d characters", raw, maxPlateLen)
	}
	if !plateRe.MatchString(s) {
		return "", fmt.Errorf("plate number %q contains invalid characters", raw)
	}
	return s, nil
}

var categoryAliases = map[string]model.VehicleCategory{
	"MOTOR":        model.CategoryMotor,
	"MOTORCYCLE":   model.CategoryMotor,
	"TWO-WHEELER":  model.CategoryMotor,
	"TWO_WHEELER":  model.CategoryMotor,
	"MOBIL":        model.CategoryMobil,
	"CAR":          model.CategoryMobil,
	"FOUR-WHEELER": model.CategoryMobil,
	"FOUR_WHEELER": model.CategoryMobil,
	"LAINNYA":      model.CategoryLainnya,
	"OTHER":        model.CategoryLainnya,
}

// Category maps a category name or alias to a VehicleCategory.
// An empty input yields an empty category and no error.
func Category(raw string) (model.VehicleCategory, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", nil
	}
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown vehicle category %q", raw)
}
