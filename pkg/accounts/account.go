// Package accounts loads the quest accounts, Twitter credential sets and
// proxies the runner operates on.
package accounts

import (
	"fmt"
	"strings"

	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

// DefaultFaucetAmount is claimed when an account line omits the amount.
const DefaultFaucetAmount = 2

// Account is one campaign participant.
type Account struct {
	ID           int
	Name         string
	Wallet       string
	Cookie       string
	PrivateKey   string
	FaucetAmount int
	Selected     bool
}

// HasPrivateKey reports whether the account can sign bridge transactions.
func (a *Account) HasPrivateKey() bool {
	return strings.TrimSpace(a.PrivateKey) != ""
}

// ShortWallet abbreviates the wallet for log output.
func (a *Account) ShortWallet() string {
	if len(a.Wallet) <= 18 {
		return a.Wallet
	}
	return fmt.Sprintf("%s...%s", a.Wallet[:10], a.Wallet[len(a.Wallet)-8:])
}

// String identifies the account in logs without exposing credentials.
func (a *Account) String() string {
	return fmt.Sprintf("#%d %s (%s)", a.ID, a.Name, a.ShortWallet())
}

// NormalizeWallet returns the EIP-55 checksum form of address. ok is false,
// and address is returned unchanged, when it is not a valid hex address or
// carries a mixed-case checksum that does not verify.
func NormalizeWallet(address string) (string, bool) {
	checksum, err := wallet.ChecksumAddress(strings.TrimSpace(address))
	if err != nil {
		return address, false
	}
	return checksum, true
}
