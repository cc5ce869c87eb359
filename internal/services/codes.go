package services

import (
	"fmt"
	"math/rand"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const joinCodeLength = 6

// GenerateJoinCode returns a 6-character uppercase-alphanumeric code. It does
// not check for collisions; the unique constraint on polls.code does, and
// poll creation retries on a violation.
func GenerateJoinCode() string {
	buf := make([]byte, joinCodeLength)
	for i := range buf {
		buf[i] = joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))]
	}
	return string(buf)
}

// GenerateSecurityCode returns a 4-digit code in [1000, 9999].
func GenerateSecurityCode() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
