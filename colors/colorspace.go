// Package colors converts garment colors between sRGB, CIELAB and HCL and
// measures how far apart two colors are.
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// D65 reference white, scaled to Y = 100.
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

const (
	labEpsilon = 216.0 / 24389.0 // (6/29)^3
	labKappa   = 24389.0 / 27.0
	labDelta   = 6.0 / 29.0
)

// Lab is a CIELAB color. L is in [0,100], A and B in [-128,128].
type Lab struct {
	L float64 `bson:"l" json:"l"`
	A float64 `bson:"a" json:"a"`
	B float64 `bson:"b" json:"b"`
}

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Valid reports whether every component is finite and inside the CIELAB gamut bounds.
func (c Lab) Valid() bool {
	for _, v := range []float64{c.L, c.A, c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.L >= 0 && c.L <= 100 &&
		c.A >= -128 && c.A <= 128 &&
		c.B >= -128 && c.B <= 128
}

func (c Lab) String() string {
	return fmt.Sprintf("Lab(%.2f, %.2f, %.2f)", c.L, c.A, c.B)
}

// RGBToLab converts an sRGB triple (0-255 per channel) to CIELAB under D65.
func RGBToLab(r, g, b int) Lab {
	rl := linearize(float64(clampByte(r)) / 255)
	gl := linearize(float64(clampByte(g)) / 255)
	bl := linearize(float64(clampByte(b)) / 255)

	x := (0.4124564*rl + 0.3575761*gl + 0.1804375*bl) * 100
	y := (0.2126729*rl + 0.7151522*gl + 0.0721750*bl) * 100
	z := (0.0193339*rl + 0.1191920*gl + 0.9503041*bl) * 100

	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)

	return Lab{
		L: clamp(116*fy-16, 0, 100),
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// LabToRGB converts a CIELAB color back to sRGB, rounding and clamping each channel to 0-255.
func LabToRGB(c Lab) (r, g, b int) {
	fy := (c.L + 16) / 116
	fx := fy + c.A/500
	fz := fy - c.B/200

	x := labFInv(fx) * whiteX / 100
	y := labFInv(fy) * whiteY / 100
	z := labFInv(fz) * whiteZ / 100

	rl := 3.2404542*x - 1.5371385*y - 0.4985314*z
	gl := -0.9692660*x + 1.8760108*y + 0.0415560*z
	bl := 0.0556434*x - 0.2040259*y + 1.0572252*z

	return toByte(delinearize(rl)), toByte(delinearize(gl)), toByte(delinearize(bl))
}

// LabToHCL splits the chromatic part of a CIELAB color into hue (degrees in [0,360)) and chroma.
func LabToHCL(l, a, b float64) (h, c, lum float64) {
	h = math.Atan2(b, a) * 180 / math.Pi
	h = normalizeHue(h)
	c = math.Sqrt(a*a + b*b)
	return h, c, l
}

// HCLToLab is the inverse of LabToHCL.
func HCLToLab(h, c, l float64) Lab {
	rad := h * math.Pi / 180
	return Lab{L: l, A: c * math.Cos(rad), B: c * math.Sin(rad)}
}

// Distance is the Euclidean distance between two colors in L*a*b* space.
func Distance(c1, c2 Lab) float64 {
	dl := c1.L - c2.L
	da := c1.A - c2.A
	db := c1.B - c2.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Lab converts the triple with RGBToLab.
func (c RGB) Lab() Lab {
	return RGBToLab(c.R, c.G, c.B)
}

func linearize(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func delinearize(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

func labFInv(t float64) float64 {
	if t > labDelta {
		return t * t * t
	}
	return (116*t - 16) / labKappa
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func toByte(v float64) int {
	return clampByte(int(math.Round(clamp(v, 0, 1) * 255)))
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
