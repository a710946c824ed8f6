package ntru

// CenterModQ maps coefficients in [0,q) to the symmetric interval (-q/2, q/2].
func CenterModQ(a []int64, q int64) []int64 {
	out := make([]int64, len(a))
	half := q / 2
	for i, v := range a {
		if v > half {
			out[i] = v - q
		} else {
			out[i] = v
		}
	}
	return out
}

// DecenterToModQ maps centered coefficients back to [0,q).
func DecenterToModQ(a []int64, q int64) []int64 {
	out := make([]int64, len(a))
	for i, v := range a {
		t := v
		if t < 0 {
			t += q
		}
		out[i] = t
	}
	return out
}
