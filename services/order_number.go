package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const orderNumberLength = 10

// GenerateOrderNumber returns a customer-facing order number: ten random
// digits, short enough to type out to support yet high-entropy enough not
// to collide in practice. The settlement lookup pairs it with the order id,
// so a collision can never match a foreign settlement.
func GenerateOrderNumber() (string, error) {
	digits := make([]byte, orderNumberLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate order number: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
