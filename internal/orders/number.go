package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

// numberAlphabet skips 0/O and 1/I so order numbers survive being read
// aloud over the phone.
const numberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const numberSuffixLen = 6

// NewOrderNumber mints a customer-facing order number like LMA-20260901-7F3K2Q.
// Uniqueness is ultimately enforced by the database constraint; the random
// suffix keeps collisions out of normal operation.
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, numberSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// timestamp suffix rather than panicking mid-checkout.
		return fmt.Sprintf("LMA-%s-%06d", now.Format("20060102"), now.UnixNano()%1_000_000)
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("LMA-%s-%s", now.Format("20060102"), string(buf))
}
