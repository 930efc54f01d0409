package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hex represents a hexadecimal-encoded quantity as a string (e.g., "0x1a").
// Event-log topics, block quantities, and receipt status fields all arrive in
// this form from JSON-RPC providers. It provides validation, JSON
// marshaling/unmarshaling, and numeric conversion.
type Hex string

// HexFromString validates the input string and returns a Hex value if valid.
func HexFromString(s string) (Hex, error) {
	if err := validateHex(s); err != nil {
		return "", err
	}
	return Hex(s), nil
}

// validateHex checks whether a string is a valid hexadecimal number starting with "0x" or "0X".
func validateHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("hex string must start with 0x")
	}

	if len(s) == 2 {
		return fmt.Errorf("hex string has no digits")
	}

	for _, c := range s[2:] {
		if !isHexDigit(c) {
			return fmt.Errorf("invalid hexadecimal character %q", c)
		}
	}

	return nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// MarshalJSON encodes the Hex as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded hexadecimal string.
func (h *Hex) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	if err := validateHex(s); err != nil {
		return err
	}

	*h = Hex(s)
	return nil
}

// IsEmpty reports whether the value holds no hex string at all.
func (h Hex) IsEmpty() bool {
	return h == ""
}

// IsZero reports whether the encoded quantity is zero. Event-log topics pad
// values to 32 bytes, so the zero address shows up as "0x000...000"; any
// string whose digits are all zeros qualifies. Malformed values are not zero.
func (h Hex) IsZero() bool {
	if err := validateHex(string(h)); err != nil {
		return false
	}

	for _, c := range string(h)[2:] {
		if c != '0' {
			return false
		}
	}

	return true
}

// Int returns the decoded int64 value, tolerating the 32-byte zero padding
// used in log topics. It returns the value and false if the string is
// malformed or the significant digits exceed the int64 range.
func (h Hex) Int() (int64, bool) {
	if err := validateHex(string(h)); err != nil {
		return 0, false
	}

	digits := strings.TrimLeft(string(h)[2:], "0")
	if digits == "" {
		return 0, true
	}

	v, err := strconv.ParseInt(digits, 16, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Add returns a new Hex representing the result of adding n to the current
// value. If the original value is invalid, it is treated as zero.
func (h Hex) Add(n int64) Hex {
	current, _ := h.Int()
	return Hex(fmt.Sprintf("0x%x", current+n))
}

// EqualFold reports whether two hex strings encode the same digits ignoring
// case. Event signatures are case-insensitive on most providers.
func (h Hex) EqualFold(other Hex) bool {
	return strings.EqualFold(string(h), string(other))
}
