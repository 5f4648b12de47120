package blend

// div255 divides x by 255 exactly (floor) without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// This is Alvy Ray Smith's formula and is exact for every product of two
// bytes (0..65025).
func div255(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 returns floor(a*b/255).
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// inv255 computes 255 - x.
func inv255(x byte) byte {
	return 255 - x
}

// clamp255 saturates a wide result into [0, 255].
func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// wrap255 keeps the low 8 bits of a wide result (two's complement).
func wrap255(v int) uint8 {
	return uint8(v & 0xFF)
}
