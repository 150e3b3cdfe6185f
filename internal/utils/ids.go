package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateNanoIDWithPrefix returns a prefixed nanoid, e.g. "dom_x1y2z3"
func GenerateNanoIDWithPrefix(prefix string, length int) string {
	id, err := gonanoid.Generate(idAlphabet, length)
	if err != nil {
		// gonanoid only errors on invalid parameters
		panic(err)
	}
	return prefix + "_" + id
}
