package statement

import "strings"

// MaskPrefix replaces every account digit except the last four.
const MaskPrefix = "****"

// MaskAccountNumber keeps only the last four decimal digits of raw.
// Non-digits are ignored; fewer than four digits yields the bare prefix so
// short identifiers are never partially exposed.
func MaskAccountNumber(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	if len(digits) < 4 {
		return MaskPrefix
	}

	var b strings.Builder
	b.WriteString(MaskPrefix)
	b.Write(digits[len(digits)-4:])
	return b.String()
}

// MaskAccountInfo replaces a raw account number, if one was extracted, with
// its masked form and forgets the raw value.
func MaskAccountInfo(info *AccountInfo) {
	if info == nil || info.AccountNumber == nil {
		return
	}
	info.MaskedAccountNumber = MaskAccountNumber(*info.AccountNumber)
	info.AccountNumber = nil
}
