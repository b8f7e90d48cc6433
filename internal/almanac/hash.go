package almanac

// Hash turns a calendar day into a stable non-negative integer.
//
// It runs the classic h*31 + c string hash over the "YYYY-M-D" form of the
// date, wrapping at 32 bits, and returns the absolute value. Every published
// fortune depends on this exact arithmetic, so it must never change.
func Hash(d Date) int {
	var h int32
	for _, c := range d.hashKey() {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return int(v)
}
