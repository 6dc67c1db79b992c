package colors

const (
	complementOffset = 180.0
	analogousOffset  = 30.0
)

// TargetColors returns the complementary color and the two analogous colors
// (+30 and -30 degrees of hue) of anchor, keeping its chroma and lightness.
func TargetColors(anchor Lab) [3]Lab {
	h, c, l := LabToHCL(anchor.L, anchor.A, anchor.B)
	return [3]Lab{
		HCLToLab(normalizeHue(h+complementOffset), c, l),
		HCLToLab(normalizeHue(h+analogousOffset), c, l),
		HCLToLab(normalizeHue(h-analogousOffset), c, l),
	}
}
