package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ZoneExtent is one grid zone designator rectangle in lon/lat degrees.
type ZoneExtent struct {
	ID    string
	Bound orb.Bound
}

func (z ZoneExtent) West() float64  { return z.Bound.Min[0] }
func (z ZoneExtent) South() float64 { return z.Bound.Min[1] }
func (z ZoneExtent) East() float64  { return z.Bound.Max[0] }
func (z ZoneExtent) North() float64 { return z.Bound.Max[1] }

// PadZoneID zero-pads a zone identifier to three characters.
func PadZoneID(id string) string {
	for len(id) < 3 {
		id = "0" + id
	}
	return id
}

// ZoneID formats a longitudinal band (1..60) and row letter.
func ZoneID(band int, row byte) string {
	return fmt.Sprintf("%02d%c", band, row)
}
