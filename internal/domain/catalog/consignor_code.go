package catalog

import "strings"

// Consignor codes use Excel-style bijective base-26 letters: A=1..Z=26,
// AA=27, AB=28 and so on. There is no zero digit, which is what makes the
// round trip CodeToNumber(NumberToCode(n)) == n hold for every n >= 1.

// CodeToNumber converts a letter-only consignor code to its ordinal.
// Returns 0 for empty input or any non-letter character.
func CodeToNumber(code string) int {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0
	}
	n := 0
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if ch < 'A' || ch > 'Z' {
			return 0
		}
		n = n*26 + int(ch-'A') + 1
	}
	return n
}

// NumberToCode converts an ordinal n >= 1 to its consignor code.
// Values below 1 fall back to "A".
func NumberToCode(n int) string {
	if n <= 0 {
		return "A"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte(n%26) + 'A'
		n /= 26
	}
	return string(buf[i:])
}
