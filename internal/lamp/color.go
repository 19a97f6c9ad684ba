package lamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid color")

type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

type rgbBody struct {
	R *int `json:"r"`
	G *int `json:"g"`
	B *int `json:"b"`
}

// ParseColor accepts the page's JSON triple {"r":..,"g":..,"b":..} or the
// trigger's "r,g,b" form.
func ParseColor(msg string) (Color, error) {
	msg = strings.TrimSpace(msg)
	if strings.HasPrefix(msg, "{") {
		return parseJSON(msg)
	}
	return parseCSV(msg)
}

func parseJSON(msg string) (Color, error) {
	var body rgbBody
	if err := json.Unmarshal([]byte(msg), &body); err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	if body.R == nil || body.G == nil || body.B == nil {
		return Color{}, fmt.Errorf("%w: r, g and b are required", ErrInvalidColor)
	}
	return fromInts(*body.R, *body.G, *body.B)
}

func parseCSV(msg string) (Color, error) {
	parts := strings.Split(msg, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidColor, len(parts))
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
		}
		v[i] = n
	}
	return fromInts(v[0], v[1], v[2])
}

func fromInts(r, g, b int) (Color, error) {
	for _, n := range []int{r, g, b} {
		if n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: component %d out of range", ErrInvalidColor, n)
		}
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}
