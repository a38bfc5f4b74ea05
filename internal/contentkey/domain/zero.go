package domain

// Zero overwrites key material with zeros.
func Zero(b []byte) {
	clear(b)
}
