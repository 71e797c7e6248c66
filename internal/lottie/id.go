package lottie

import "math/rand"

const hexAlphabet = "0123456789abcdef"

// NewID returns a random string of length hex characters.
func NewID(length int) string {
	if length <= 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = hexAlphabet[rand.Intn(len(hexAlphabet))]
	}
	return string(b)
}
