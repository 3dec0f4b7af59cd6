package stroke

// hash01 maps an integer key to a deterministic value in [0, 1).
//
// Texture-atlas selection is keyed by a knot's vertex start index, and a
// rebuild of an unmodified knot must reproduce the same choice bit for bit,
// so this is a pure integer mix (Wang hash) rather than a stateful PRNG.
func hash01(key uint32) float32 {
	key = (key ^ 61) ^ (key >> 16)
	key *= 9
	key ^= key >> 4
	key *= 0x27d4eb2d
	key ^= key >> 15
	return float32(key&0xffffff) / float32(0x1000000)
}
