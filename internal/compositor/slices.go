package compositor

import (
	"image"
	"strings"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
)

// Region selects nine-slice cells. When RegionAll is set the selection is
// inverted: every cell is drawn except the ones named.
type Region uint16

const (
	RegionNW Region = 1 << iota
	RegionN
	RegionNE
	RegionW
	RegionC
	RegionE
	RegionSW
	RegionS
	RegionSE
	RegionAll
)

// cellMask covers the nine cells without the inversion bit.
const cellMask = RegionAll - 1

var cellOrder = [9]Region{RegionNW, RegionN, RegionNE, RegionW, RegionC, RegionE, RegionSW, RegionS, RegionSE}

var cellNames = map[Region]string{
	RegionNW: "NW", RegionN: "N", RegionNE: "NE",
	RegionW: "W", RegionC: "C", RegionE: "E",
	RegionSW: "SW", RegionS: "S", RegionSE: "SE",
}

// Cells returns the cells actually drawn for r.
func (r Region) Cells() Region {
	if r&RegionAll != 0 {
		return cellMask &^ r
	}
	return r & cellMask
}

// Count reports how many cells r draws.
func (r Region) Count() int {
	n := 0
	for _, c := range cellOrder {
		if r.Cells()&c != 0 {
			n++
		}
	}
	return n
}

func (r Region) String() string {
	var names []string
	if r&RegionAll != 0 {
		names = append(names, "ALL")
	}
	for _, c := range cellOrder {
		if r&c != 0 {
			names = append(names, cellNames[c])
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// Cell is one source/destination pair of a nine-slice decomposition.
type Cell struct {
	Region Region
	Src    image.Rectangle
	Dst    image.Rectangle
}

// NineSlice splits src and dst at the same insets. Corners keep their
// source size, edges stretch along one axis and the center along both.
func NineSlice(src, dst image.Rectangle, in rule.Insets) [9]Cell {
	sx := breakpoints(src.Min.X, src.Max.X, in.Left, in.Right)
	sy := breakpoints(src.Min.Y, src.Max.Y, in.Top, in.Bottom)
	dx := breakpoints(dst.Min.X, dst.Max.X, in.Left, in.Right)
	dy := breakpoints(dst.Min.Y, dst.Max.Y, in.Top, in.Bottom)

	var cells [9]Cell
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			i := row*3 + col
			cells[i] = Cell{
				Region: cellOrder[i],
				Src:    image.Rect(sx[col], sy[row], sx[col+1], sy[row+1]),
				Dst:    image.Rect(dx[col], dy[row], dx[col+1], dy[row+1]),
			}
		}
	}
	return cells
}

// breakpoints returns lo, lo+near, hi-far, hi, clamped so they never
// decrease when the insets exceed the extent.
func breakpoints(lo, hi, near, far int) [4]int {
	b := min(lo+near, hi)
	c := max(hi-far, b)
	return [4]int{lo, b, c, hi}
}
