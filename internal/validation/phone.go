package validation

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Phone validation errors surfaced to callers as field violations.
var (
	ErrPhoneRequired      = errors.New("phone number is required")
	ErrPhoneCountryCode   = errors.New("phone number is missing a valid country code")
	ErrPhoneInvalid       = errors.New("invalid phone number")
	ErrPhoneType          = errors.New("phone number must be a mobile or fixed-line number")
	ErrPhoneReservedRange = errors.New("phone number uses a reserved exchange")
)

// NormalizePhone parses a phone number in any common surface format and
// returns it rendered as E.164 (leading +, country code, national number,
// no separators). Numbers without a recognizable country code are rejected
// unless defaultRegion names the region to assume. Only mobile and
// fixed-line numbers are accepted, and numbers in the North-American 555
// exchange are rejected even when structurally valid.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrPhoneRequired
	}

	parsed, err := phonenumbers.Parse(strings.TrimSpace(raw), defaultRegion)
	if err != nil {
		if errors.Is(err, phonenumbers.ErrInvalidCountryCode) {
			return "", ErrPhoneCountryCode
		}
		return "", ErrPhoneInvalid
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrPhoneInvalid
	}

	switch phonenumbers.GetNumberType(parsed) {
	case phonenumbers.MOBILE, phonenumbers.FIXED_LINE, phonenumbers.FIXED_LINE_OR_MOBILE:
	default:
		return "", ErrPhoneType
	}

	if isReservedNANPExchange(parsed) {
		return "", ErrPhoneReservedRange
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// isReservedNANPExchange reports whether a North-American number falls in
// the fictional 555 exchange block (NXX-555-XXXX).
func isReservedNANPExchange(num *phonenumbers.PhoneNumber) bool {
	if num.GetCountryCode() != 1 {
		return false
	}
	national := phonenumbers.GetNationalSignificantNumber(num)
	return len(national) == 10 && national[3:6] == "555"
}
