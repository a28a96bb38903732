package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 128
	passwordSymbols   = `!@#$%^&*(),.?":{}|<>`
	maxRepeatedChars  = 2
)

// forbiddenSequences are trivially guessable runs; each is also checked
// reversed so descending runs are caught.
var forbiddenSequences = []string{"123", "abc", "qwe", "asd", "zxc"}

// Requirements is the machine-readable password policy description served
// to clients for client-side validation.
type Requirements struct {
	MinLength          int      `json:"min_length"`
	MaxLength          int      `json:"max_length"`
	RequireUppercase   bool     `json:"require_uppercase"`
	RequireLowercase   bool     `json:"require_lowercase"`
	RequireDigit       bool     `json:"require_digit"`
	RequireSpecial     bool     `json:"require_special"`
	SpecialCharacters  string   `json:"special_characters"`
	ForbiddenSequences []string `json:"forbidden_sequences"`
	MaxRepeatedChars   int      `json:"max_repeated_chars"`
}

// PasswordRequirements returns the active policy description.
func PasswordRequirements() Requirements {
	return Requirements{
		MinLength:          passwordMinLength,
		MaxLength:          passwordMaxLength,
		RequireUppercase:   true,
		RequireLowercase:   true,
		RequireDigit:       true,
		RequireSpecial:     true,
		SpecialCharacters:  passwordSymbols,
		ForbiddenSequences: append([]string{}, forbiddenSequences...),
		MaxRepeatedChars:   maxRepeatedChars,
	}
}

// CheckPassword evaluates every policy rule against the password and
// returns all violations found. Rules are never short-circuited, so a
// password breaking three rules yields three messages. The raw password is
// never retained or logged beyond this call.
func CheckPassword(password, confirm string) []string {
	var violations []string

	// Length bounds count characters, not bytes.
	length := utf8.RuneCountInString(password)
	if length < passwordMinLength {
		violations = append(violations, "password must be at least 8 characters long")
	}
	if length > passwordMaxLength {
		violations = append(violations, "password must not exceed 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one digit")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain at least one special character")
	}

	if hasRepeatedRun(password) {
		violations = append(violations, "password must not repeat a character more than 2 times in a row")
	}

	if containsForbiddenSequence(password) {
		violations = append(violations, "password must not contain common sequences")
	}

	if password != confirm {
		violations = append(violations, "passwords do not match")
	}

	return violations
}

func hasRepeatedRun(password string) bool {
	run := 1
	runes := []rune(password)
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run > maxRepeatedChars {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func containsForbiddenSequence(password string) bool {
	lowered := strings.ToLower(password)
	for _, seq := range forbiddenSequences {
		if strings.Contains(lowered, seq) || strings.Contains(lowered, reverse(seq)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
