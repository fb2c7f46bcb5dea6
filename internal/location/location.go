// Package location implements the player Location model: position,
// orientation, grounded flag, and the block/fixed-point/angle conversions
// the wire protocol and the chunk streamer both need. Adapted from the
// teacher's internal/server/player/protocol.go (DegreesToAngle, FixedPoint),
// generalized into a mutable record per spec.md §3.
package location

import "math"

// Location is a mutable record of a player's position, orientation, and
// grounded flag (spec.md §3).
type Location struct {
	X, Y, Z  float64
	Stance   float64
	Yaw      float32
	Pitch    float32
	Grounded bool
}

// StanceValid reports whether stance-y falls in the tolerated range
// [0.1, 1.65]. Violations are ignored rather than fatal (spec.md §3).
// Both bounds are inclusive up to a small tolerance, so a stance of y+0.1
// (64.1-64 is 0.0999… in float64) still counts as on the boundary.
func (l Location) StanceValid() bool {
	const eps = 1e-9
	d := l.Stance - l.Y
	return d >= 0.1-eps && d <= 1.65+eps
}

// BlockX truncates toward negative infinity for the x block coordinate.
func (l Location) BlockX() int32 { return floorCoord(l.X) }

// BlockY truncates toward zero (y is never negative in practice).
func (l Location) BlockY() uint8 { return uint8(int32(l.Y)) }

// BlockZ truncates toward negative infinity for the z block coordinate.
func (l Location) BlockZ() int32 { return floorCoord(l.Z) }

// floorCoord truncates toward negative infinity when the value is negative,
// toward zero otherwise — spec.md §3: "x<0 biases toward −∞ before
// truncation." For a fractional x=-0.5 this yields block -1, matching
// spec.md §8's testable property.
func floorCoord(v float64) int32 {
	if v < 0 {
		return int32(math.Floor(v))
	}
	return int32(v)
}

// ChunkX/ChunkZ convert a world block coordinate to its containing chunk
// coordinate: cx = x >> 4 (spec.md §3).
func ChunkX(x int32) int32 { return x >> 4 }
func ChunkZ(z int32) int32 { return z >> 4 }

// LocalX/LocalZ are the in-chunk coordinate: x & 15.
func LocalX(x int32) int32 { return x & 15 }
func LocalZ(z int32) int32 { return z & 15 }

// InFrontOf returns the position `distance` blocks ahead of the location's
// facing direction, measured from the location's own y (the feet), with
// only the pitch adding a vertical offset. Used for dropped-item spawning and
// workbench-crafting-grid spill (spec.md §4.5, §4.7).
func (l Location) InFrontOf(distance float64) (x, y, z float64) {
	yawRad := float64(l.Yaw) * math.Pi / 180
	pitchRad := float64(l.Pitch) * math.Pi / 180
	dx := -math.Sin(yawRad) * math.Cos(pitchRad) * distance
	dz := math.Cos(yawRad) * math.Cos(pitchRad) * distance
	dy := -math.Sin(pitchRad) * distance
	return l.X + dx, l.Y + dy, l.Z + dz
}

// Distance returns the Euclidean distance to another location.
func (l Location) Distance(o Location) float64 {
	dx, dy, dz := l.X-o.X, l.Y-o.Y, l.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// FixedPoint converts a double coordinate to the wire fixed-point encoding
// (multiply by 32, truncate) — spec.md §3/§6.
func FixedPoint(coord float64) int32 {
	return int32(coord * 32.0)
}

// AngleByte quantizes a radian angle to a wire byte: int(theta*255/2π) mod
// 256 (spec.md §6). The result is always in 0..255.
func AngleByte(thetaRadians float64) uint8 {
	const twoPi = 2 * math.Pi
	v := int(thetaRadians * 255.0 / twoPi)
	v %= 256
	if v < 0 {
		v += 256
	}
	return uint8(v)
}

// DegreesToAngleByte converts a degrees-based yaw/pitch (as used on the
// wire's f32 orientation fields) to the quantized entity-metadata angle
// byte used by spawn/teleport packets.
func DegreesToAngleByte(degrees float32) int8 {
	return int8(math.Floor(float64(degrees) / 360.0 * 256.0))
}
