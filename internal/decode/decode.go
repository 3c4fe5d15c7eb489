package decode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is returned when the reversed token is not a plain signed decimal.
	ErrMalformed = errors.New("malformed reading")

	// ErrOutOfRange is returned when the token is well formed but does not fit a float64.
	ErrOutOfRange = errors.New("reading out of range")
)

// Reading is a decoded sensor value.
type Reading float64

// Error describes a token that could not be decoded.
// It unwraps to ErrMalformed or ErrOutOfRange.
type Error struct {
	Token    string // token as read from the log
	Reversed string // token after reversal
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %q (reversed %q): %v", e.Token, e.Reversed, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Reverse returns s with its bytes in reverse order.
// Reverse(Reverse(s)) == s for every s, valid UTF-8 or not. Readings are
// ASCII; a multi-byte character can only appear in a malformed token.
func Reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Decode reverses token and parses the result as a signed decimal.
// Surrounding whitespace is ignored.
func Decode(token string) (Reading, error) {
	reversed := Reverse(strings.TrimSpace(token))

	if !wellFormed(reversed) {
		return 0, &Error{Token: token, Reversed: reversed, Err: ErrMalformed}
	}

	v, err := strconv.ParseFloat(reversed, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &Error{Token: token, Reversed: reversed, Err: ErrOutOfRange}
		}
		return 0, &Error{Token: token, Reversed: reversed, Err: ErrMalformed}
	}
	return Reading(v), nil
}

// wellFormed reports whether s matches [+-]? digits [. digits] with at
// least one digit. "5." and ".5" are accepted, as C's %lf accepts them.
func wellFormed(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits, points := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			points++
			if points > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}
