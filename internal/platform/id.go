package platform

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func NewID() string {
	return uuid.New().String()
}

// NewCode returns n random characters from [0-9A-Z].
func NewCode(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	for i := range b {
		b[i] = codeAlphabet[b[i]%byte(len(codeAlphabet))]
	}
	return string(b)
}

// NewOrderNumber builds a human-readable order number: "TK", the unix
// millisecond timestamp, and five random characters.
func NewOrderNumber(now time.Time) string {
	return "TK" + strconv.FormatInt(now.UnixMilli(), 10) + NewCode(5)
}

// ShareCode derives a wishlist share code from an ID: the last eight
// alphanumeric characters, uppercased.
func ShareCode(id string) string {
	s := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return s
}
