package chrony

const reachBits = 8

// DecodeReach expands an 8-bit reachability register into bits ordered
// newest first: out[0] is the most recent poll attempt.
func DecodeReach(reach int) [reachBits]bool {
	var out [reachBits]bool
	for i := 0; i < reachBits; i++ {
		out[i] = (reach>>i)&1 == 1
	}

	return out
}

// EncodeReach packs newest-first bits back into a register value.
func EncodeReach(bits [reachBits]bool) int {
	reach := 0
	for i := 0; i < reachBits; i++ {
		if bits[i] {
			reach |= 1 << i
		}
	}

	return reach
}

// ReachDots renders a register as a dot bar, newest on the left, for the
// sources panel. A nil register renders as unknown.
func ReachDots(reach *int) string {
	if reach == nil {
		return "????????"
	}

	bits := DecodeReach(*reach)
	out := make([]rune, 0, reachBits)
	for i := 0; i < reachBits; i++ {
		if bits[i] {
			out = append(out, '●')
		} else {
			out = append(out, '○')
		}
	}

	return string(out)
}
