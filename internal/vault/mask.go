package vault

// MaskKey returns a display-safe form of a secret: the first four and
// last four characters around an ellipsis. Inputs shorter than eight
// characters produce overlapping head and tail slices, which is
// accepted rather than special-cased. Empty input masks to the empty
// string.
//
// Masking is pure and irreversible; it is applied before any value
// crosses into a loggable or displayable structure.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}

	r := []rune(key)

	head := r
	if len(r) > 4 {
		head = r[:4]
	}

	tail := r
	if len(r) > 4 {
		tail = r[len(r)-4:]
	}

	return string(head) + "…" + string(tail)
}
