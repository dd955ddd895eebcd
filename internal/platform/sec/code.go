// Copyright (c) 2026 Revuo. All rights reserved.

package sec

import (
	"crypto/rand"
	"fmt"
)

// confirmationAlphabet deliberately omits ambiguous characters (0/O, 1/I/l)
// since users retype the code from an email.
const confirmationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateConfirmationCode returns a random code of the given length drawn
// from a human-friendly alphabet, using crypto/rand.
func GenerateConfirmationCode(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}

	for i, b := range buffer {
		buffer[i] = confirmationAlphabet[int(b)%len(confirmationAlphabet)]
	}

	return string(buffer), nil
}
