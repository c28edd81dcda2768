package venmo

import (
	"math/rand/v2"
	"strings"
)

const deviceIDTemplate = "88884260-05O3-8U81-58I1-2WA76F357GR9"

// RandomDeviceID fills the device id template: digits become random digits,
// letters become random uppercase letters and hyphens are kept. The id is a
// device fingerprint, not a secret.
func RandomDeviceID() string {
	var b strings.Builder
	b.Grow(len(deviceIDTemplate))
	for _, c := range deviceIDTemplate {
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(byte('0' + rand.IntN(10)))
		case c >= 'A' && c <= 'Z':
			b.WriteByte(byte('A' + rand.IntN(26)))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
