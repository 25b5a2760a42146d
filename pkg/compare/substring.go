package compare

// Slice cuts the comparable part out of a found value.
//
//   - left and right set: the window of right characters starting at offset left
//   - left only: the first left characters
//   - right only: the last right characters
//   - neither: the value unchanged
//
// Bounds are clamped to the value, so Slice never panics.
func Slice(value string, left, right int) string {
	runes := []rune(value)
	n := len(runes)

	switch {
	case left > 0 && right > 0:
		start := min(left, n)
		end := min(start+right, n)
		return string(runes[start:end])
	case left > 0:
		return string(runes[:min(left, n)])
	case right > 0:
		return string(runes[max(n-right, 0):])
	default:
		return value
	}
}
