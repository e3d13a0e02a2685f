package wallet

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var addressPattern = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// ChecksumAddress returns the EIP-55 form of address. Single-case input is
// accepted as is; mixed-case input must already carry a valid checksum.
func ChecksumAddress(address string) (string, error) {
	if !addressPattern.MatchString(address) {
		return "", NewWalletError(ErrCodeInvalidAddress, "invalid address format", nil, "")
	}

	checksum := common.HexToAddress(address).Hex()
	digits := address[2:]
	singleCase := digits == strings.ToLower(digits) || digits == strings.ToUpper(digits)
	if !singleCase && address != checksum {
		return "", NewWalletError(ErrCodeInvalidAddress, "invalid address checksum", nil, "")
	}
	return checksum, nil
}

// ValidateAddress reports whether ChecksumAddress accepts address.
func ValidateAddress(address string) error {
	_, err := ChecksumAddress(address)
	return err
}
