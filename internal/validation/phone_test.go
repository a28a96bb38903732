package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneFormats(t *testing.T) {
	// Every surface format of the same number collapses to one E.164 form.
	inputs := []string{
		"+12345678901",
		"+1 (234) 567-8901",
		"+1 234-567-8901",
		"+1.234.567.8901",
	}
	for _, in := range inputs {
		got, err := NormalizePhone(in, "")
		require.NoError(t, err, "input %q", in)
		require.Equal(t, "+12345678901", got, "input %q", in)
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	first, err := NormalizePhone("+1 (234) 567-8901", "")
	require.NoError(t, err)

	second, err := NormalizePhone(first, "")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNormalizePhoneDefaultRegion(t *testing.T) {
	_, err := NormalizePhone("(234) 567-8901", "")
	require.ErrorIs(t, err, ErrPhoneCountryCode)

	got, err := NormalizePhone("(234) 567-8901", "US")
	require.NoError(t, err)
	require.Equal(t, "+12345678901", got)
}

func TestNormalizePhoneInternational(t *testing.T) {
	got, err := NormalizePhone("+44 7911 123456", "")
	require.NoError(t, err)
	require.Equal(t, "+447911123456", got)
}

func TestNormalizePhoneRejectsReservedExchange(t *testing.T) {
	_, err := NormalizePhone("+1 (202) 555-0173", "")
	require.ErrorIs(t, err, ErrPhoneReservedRange)
}

func TestNormalizePhoneRejectsNonGeographicTypes(t *testing.T) {
	// US toll-free is neither mobile nor fixed-line.
	_, err := NormalizePhone("+1 (800) 234-5678", "")
	require.ErrorIs(t, err, ErrPhoneType)
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	_, err := NormalizePhone("", "")
	require.ErrorIs(t, err, ErrPhoneRequired)

	_, err = NormalizePhone("   ", "")
	require.ErrorIs(t, err, ErrPhoneRequired)

	_, err = NormalizePhone("+1234", "")
	require.Error(t, err)

	_, err = NormalizePhone("not a number", "")
	require.Error(t, err)
}
