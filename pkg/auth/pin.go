package auth

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// PINCost is the bcrypt cost for stored PIN hashes.
const PINCost = 10

// ErrInvalidPINFormat is returned when a PIN is not 4 to 6 digits.
var ErrInvalidPINFormat = errors.New("PIN must be 4-6 digits")

var pinPattern = regexp.MustCompile(`^\d{4,6}$`)

// ValidatePIN checks the PIN format.
func ValidatePIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPINFormat
	}
	return nil
}

// HashPIN returns the bcrypt hash of pin.
func HashPIN(pin string) (string, error) {
	if err := ValidatePIN(pin); err != nil {
		return "", err
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pin), PINCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPIN compares pin with a bcrypt hash in constant time.
func VerifyPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
