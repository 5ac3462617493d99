// Package validation validates externally supplied identifiers before they
// reach the stores.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

var (
	ErrInvalidAddress = errors.New("invalid address format")
	ErrInvalidName    = errors.New("invalid name")
)

const maxNameLength = 100

var (
	evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	base58Regex     = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// ValidateAddress accepts either a 20-byte EVM hex address or a base58
// ed25519 public key. Wallets are not bound to a single chain, so both
// families are allowed.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	if evmAddressRegex.MatchString(address) {
		return nil
	}
	if err := validateEd25519Address(address); err != nil {
		return fmt.Errorf("%w: %q is neither an EVM address nor an ed25519 public key", ErrInvalidAddress, address)
	}
	return nil
}

// IsEVMAddress reports whether address is a 20-byte hex EVM address.
func IsEVMAddress(address string) bool {
	return evmAddressRegex.MatchString(address)
}

// validateEd25519Address checks base58 encoding, 32-byte length and that
// the bytes decode to a point on the ed25519 curve.
func validateEd25519Address(address string) error {
	if !base58Regex.MatchString(address) {
		return errors.New("not base58")
	}
	raw, err := base58.Decode(address)
	if err != nil {
		return err
	}
	if len(raw) != 32 {
		return fmt.Errorf("decoded to %d bytes, want 32", len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return errors.New("not a curve point")
	}
	return nil
}

// ValidateName checks a wallet or chain display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if trimmed != name {
		return fmt.Errorf("%w: leading or trailing whitespace", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}
