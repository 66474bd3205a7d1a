package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to scrub credential bytes from memory once a session lets go of them.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// CloneBytes returns an independent copy of b (nil stays nil).
func CloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
