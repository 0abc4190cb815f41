package grid

import "math"

// Azimuth indexes one of the 8 compass directions used by the growth
// engine's neighbor loop, in the fixed order North, Northeast, East,
// Southeast, South, Southwest, West, Northwest. Grounded on EightNbr.h's
// egtnbr_row/egtnbr_col/egtnbr_az tables.
type Azimuth int

const (
	North Azimuth = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
	NumAzimuths
)

var (
	nbrRowOffset = [NumAzimuths]int{-1, -1, 0, 1, 1, 1, 0, -1}
	nbrColOffset = [NumAzimuths]int{0, 1, 1, 1, 0, -1, -1, -1}
	nbrDegrees   = [NumAzimuths]float64{0.0, 45.0, 90.0, 135.0, 180.0, 225.0, 270.0, 315.0}
	nbrCartDist  = [NumAzimuths]float64{1.0, 1.4142, 1.0, 1.4142, 1.0, 1.4142, 1.0, 1.4142}
)

// Degrees returns the compass bearing (degrees, 0=north) of az.
func (az Azimuth) Degrees() float64 { return nbrDegrees[az] }

// Offset returns the neighbor's (row, col) given a cell at (row, col).
func (az Azimuth) Offset(row, col int) (nrow, ncol int) {
	return row + nbrRowOffset[az], col + nbrColOffset[az]
}

// CartesianDistance returns the planar distance (in cell-size units, 1.0
// for orthogonal neighbors and √2 for diagonal ones) from a cell to its
// neighbor at az, before accounting for elevation difference.
func (az Azimuth) CartesianDistance(cellSize float64) float64 {
	return nbrCartDist[az] * cellSize
}

// TerrainDistance returns the 3D distance between a cell's center and its
// neighbor's center at az, in the same units as cellSize and elevDelta.
func TerrainDistance(az Azimuth, cellSize, elevDelta float64) float64 {
	planar := az.CartesianDistance(cellSize)
	return math.Sqrt(planar*planar + elevDelta*elevDelta)
}
