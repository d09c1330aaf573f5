package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID32 returns 32 lowercase hex characters. Used as the session token id.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewUUID returns a random RFC 4122 v4 identifier.
func NewUUID() string { return uuid.NewString() }

// RandomBase36 returns n random characters from [0-9a-z].
func RandomBase36(n int) string { return randomFrom(base36, n) }

// RandomDigits returns n random decimal digits, leading zeros kept.
func RandomDigits(n int) string { return randomFrom("0123456789", n) }

func randomFrom(alphabet string, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand only fails when the OS source is broken
			panic(err)
		}
		sb.WriteByte(alphabet[v.Int64()])
	}
	return sb.String()
}

// NewApplicationID → LIC-<base36 epoch ms>-<9 random base36>, upper-cased.
func NewApplicationID(now time.Time) string {
	return strings.ToUpper("LIC-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + RandomBase36(9))
}

// NewTransactionID → <PREFIX>_<epoch ms>_<9 random base36>.
func NewTransactionID(prefix string, now time.Time) string {
	return prefix + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + RandomBase36(9)
}

// NewLicenseNumber → <LICENSE_TYPE>-<epoch ms>-<6 random>, upper-cased.
func NewLicenseNumber(licenseType string, now time.Time) string {
	return strings.ToUpper(licenseType + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + RandomBase36(6))
}
