package accounts

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// accountsDocument is the YAML accounts layout:
//
//	accounts:
//	  - name: main
//	    wallet: 0x...
//	    cookie: "session=..."
//	    private_key: 0x...
//	    faucet_amount: 2
type accountsDocument struct {
	Accounts []struct {
		Name         string `yaml:"name"`
		Wallet       string `yaml:"wallet"`
		Cookie       string `yaml:"cookie"`
		PrivateKey   string `yaml:"private_key"`
		FaucetAmount *int   `yaml:"faucet_amount"`
	} `yaml:"accounts"`
}

// ParseAccountsYAML parses a YAML accounts document. ids follow the order of
// the list.
func ParseAccountsYAML(r io.Reader, logger *logrus.Logger) ([]*Account, error) {
	var doc accountsDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse accounts YAML: %w", err)
	}

	entries := make([]accountEntry, 0, len(doc.Accounts))
	for _, a := range doc.Accounts {
		entry := accountEntry{
			Name:       strings.TrimSpace(a.Name),
			Wallet:     strings.TrimSpace(a.Wallet),
			Cookie:     strings.TrimSpace(a.Cookie),
			PrivateKey: strings.TrimSpace(a.PrivateKey),
		}
		if a.FaucetAmount != nil {
			entry.FaucetAmount = strconv.Itoa(*a.FaucetAmount)
		}
		entries = append(entries, entry)
	}

	return buildAccounts(entries, logger), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
