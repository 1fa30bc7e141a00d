package styles

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ForegroundGrad returns input split into grapheme clusters, each styled
// with a foreground blended from color1 to color2.
func ForegroundGrad(input string, bold bool, color1, color2 color.Color) []string {
	if input == "" {
		return []string{""}
	}
	t := CurrentTheme()

	var clusters []string
	gr := uniseg.NewGraphemes(input)
	for gr.Next() {
		clusters = append(clusters, string(gr.Runes()))
	}

	if len(clusters) == 1 {
		style := t.S().Base.Foreground(color1).Bold(bold)
		return []string{style.Render(input)}
	}

	ramp := blendColors(len(clusters), color1, color2)
	for i, c := range ramp {
		style := t.S().Base.Foreground(c).Bold(bold)
		clusters[i] = style.Render(clusters[i])
	}
	return clusters
}

// ApplyForegroundGrad renders input with a horizontal foreground gradient.
func ApplyForegroundGrad(input string, color1, color2 color.Color) string {
	return applyGrad(input, false, color1, color2)
}

// ApplyBoldForegroundGrad is ApplyForegroundGrad in bold.
func ApplyBoldForegroundGrad(input string, color1, color2 color.Color) string {
	return applyGrad(input, true, color1, color2)
}

func applyGrad(input string, bold bool, color1, color2 color.Color) string {
	if input == "" {
		return ""
	}
	var o strings.Builder
	for _, c := range ForegroundGrad(input, bold, color1, color2) {
		o.WriteString(c)
	}
	return o.String()
}

// blendColors returns size colors evenly spread across the stops.
func blendColors(size int, stops ...color.Color) []color.Color {
	if len(stops) < 2 || size <= 0 {
		return nil
	}

	stopsPrime := make([]colorful.Color, len(stops))
	for i, k := range stops {
		stopsPrime[i], _ = colorful.MakeColor(k)
	}

	numSegments := len(stopsPrime) - 1
	blended := make([]color.Color, 0, size)

	segmentSizes := make([]int, numSegments)
	baseSize := size / numSegments
	remainder := size % numSegments
	for i := range numSegments {
		segmentSizes[i] = baseSize
		if i < remainder {
			segmentSizes[i]++
		}
	}

	for i := range numSegments {
		c1 := stopsPrime[i]
		c2 := stopsPrime[i+1]
		segmentSize := segmentSizes[i]
		for j := range segmentSize {
			var t float64
			if segmentSize > 1 {
				t = float64(j) / float64(segmentSize-1)
			}
			blended = append(blended, c1.BlendHcl(c2, t))
		}
	}
	return blended
}
