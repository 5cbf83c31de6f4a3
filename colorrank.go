package gochart

import "sort"

// ColorAssignment maps each layer to a color and fixes the order layers are drawn in.
type ColorAssignment struct {
	Colors []Color // indexed by layer
	Order  []int   // layer indices, first drawn first
}

// ColorOf returns the color assigned to layer, or opaque red if none was.
func (a ColorAssignment) ColorOf(layer int) Color {
	if layer < 0 || layer >= len(a.Colors) {
		return ColorRed
	}
	return a.Colors[layer]
}

// MeanRanks returns, for each layer of values[layer][index], the average of
// its descending rank among all layers at every index where it has a sample.
// Equal values share the lowest rank. A layer without any sample ranks after
// every other layer.
func MeanRanks(values [][]Sample) []float64 {
	width := 0
	for _, row := range values {
		if len(row) > width {
			width = len(row)
		}
	}

	sums := make([]float64, len(values))
	counts := make([]int, len(values))
	for j := 0; j < width; j++ {
		for i, row := range values {
			if j >= len(row) || !row[j].Valid {
				continue
			}
			rank := 0
			for k, other := range values {
				if k != i && j < len(other) && other[j].Valid && other[j].Value > row[j].Value {
					rank++
				}
			}
			sums[i] += float64(rank)
			counts[i]++
		}
	}

	means := make([]float64, len(values))
	for i := range means {
		if counts[i] == 0 {
			means[i] = float64(len(values))
			continue
		}
		means[i] = sums[i] / float64(counts[i])
	}
	return means
}

// RankColors orders layers by ascending mean rank and pairs them with the
// palette sorted by ascending luminance. Both sorts are stable, so layers with
// equal mean ranks keep their input order. Layers beyond the palette get
// opaque red.
func RankColors(values [][]Sample, palette []Color) ColorAssignment {
	means := MeanRanks(values)

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return means[order[a]] < means[order[b]]
	})

	sorted := SortByLuminance(palette)
	colors := make([]Color, len(values))
	for k, layer := range order {
		if k < len(sorted) {
			colors[layer] = sorted[k]
		} else {
			colors[layer] = ColorRed
		}
	}
	return ColorAssignment{Colors: colors, Order: order}
}

// AssignColors pairs layers with palette entries positionally and draws them in index order.
func AssignColors(layers int, palette []Color) ColorAssignment {
	a := ColorAssignment{Colors: make([]Color, layers), Order: make([]int, layers)}
	for i := 0; i < layers; i++ {
		a.Order[i] = i
		if i < len(palette) {
			a.Colors[i] = palette[i]
		} else {
			a.Colors[i] = ColorRed
		}
	}
	return a
}

// SortByLuminance returns a copy of palette ordered from darkest to brightest.
func SortByLuminance(palette []Color) []Color {
	sorted := make([]Color, len(palette))
	copy(sorted, palette)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Luminance() < sorted[j].Luminance()
	})
	return sorted
}
