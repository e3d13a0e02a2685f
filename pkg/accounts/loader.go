package accounts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/twitter"
)

// LoadAccounts reads an accounts file with one
// "name|wallet|cookie|private_key|faucet_amount" entry per line, or a YAML
// document when the file ends in .yaml or .yml.
func LoadAccounts(path string, logger *logrus.Logger) ([]*Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open accounts file: %w", err)
	}
	defer f.Close()

	parse := ParseAccounts
	if isYAML(path) {
		parse = ParseAccountsYAML
	}
	accounts, err := parse(f, logger)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path":     path,
		"accounts": len(accounts),
	}).Info("Loaded accounts")
	return accounts, nil
}

// ParseAccounts parses account lines. Blank lines and lines starting with #
// are skipped; ids follow the order of the remaining lines.
func ParseAccounts(r io.Reader, logger *logrus.Logger) ([]*Account, error) {
	lines, err := readEntries(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	entries := make([]accountEntry, 0, len(lines))
	for _, line := range lines {
		fields := splitFields(line, 5)
		entries = append(entries, accountEntry{
			Name:         fields[0],
			Wallet:       fields[1],
			Cookie:       fields[2],
			PrivateKey:   fields[3],
			FaucetAmount: fields[4],
		})
	}

	return buildAccounts(entries, logger), nil
}

// accountEntry is one account as written in either file format.
type accountEntry struct {
	Name         string
	Wallet       string
	Cookie       string
	PrivateKey   string
	FaucetAmount string
}

func buildAccounts(entries []accountEntry, logger *logrus.Logger) []*Account {
	accounts := make([]*Account, 0, len(entries))
	for i, entry := range entries {
		id := i + 1

		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("Account %d", id)
		}

		wallet, ok := NormalizeWallet(entry.Wallet)
		if !ok {
			logger.WithFields(logrus.Fields{
				"account": name,
				"wallet":  entry.Wallet,
			}).Warn("Invalid wallet address format, using as-is")
		}

		amount := DefaultFaucetAmount
		if entry.FaucetAmount != "" {
			if n, err := strconv.Atoi(entry.FaucetAmount); err == nil && n > 0 {
				amount = n
			} else {
				logger.WithFields(logrus.Fields{
					"account": name,
					"value":   entry.FaucetAmount,
					"default": DefaultFaucetAmount,
				}).Warn("Invalid faucet amount, using default")
			}
		}

		accounts = append(accounts, &Account{
			ID:           id,
			Name:         name,
			Wallet:       wallet,
			Cookie:       entry.Cookie,
			PrivateKey:   entry.PrivateKey,
			FaucetAmount: amount,
		})
	}
	return accounts
}

// LoadTwitterCredentials reads "consumer_key|consumer_secret|access_token|access_secret|name"
// lines. A missing file yields no credentials.
func LoadTwitterCredentials(path string, logger *logrus.Logger) ([]twitter.Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WithField("path", path).Warn("Twitter credentials file not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open twitter credentials file: %w", err)
	}
	defer f.Close()

	creds, err := ParseTwitterCredentials(f)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path":        path,
		"credentials": len(creds),
	}).Info("Loaded Twitter credentials")
	return creds, nil
}

// ParseTwitterCredentials parses credential lines.
func ParseTwitterCredentials(r io.Reader) ([]twitter.Credentials, error) {
	lines, err := readEntries(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read twitter credentials: %w", err)
	}

	creds := make([]twitter.Credentials, 0, len(lines))
	for i, line := range lines {
		fields := splitFields(line, 5)
		name := fields[4]
		if name == "" {
			name = fmt.Sprintf("Twitter %d", i+1)
		}
		creds = append(creds, twitter.Credentials{
			Name:              name,
			ConsumerKey:       fields[0],
			ConsumerSecret:    fields[1],
			AccessToken:       fields[2],
			AccessTokenSecret: fields[3],
		})
	}
	return creds, nil
}

// LoadProxies reads one proxy URL per line. A missing file yields no proxies.
func LoadProxies(path string, logger *logrus.Logger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WithField("path", path).Info("Proxy file not found, connecting directly")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open proxy file: %w", err)
	}
	defer f.Close()

	proxies, err := readEntries(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxies: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"path":    path,
		"proxies": len(proxies),
	}).Info("Loaded proxies")
	return proxies, nil
}

func readEntries(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// splitFields splits a pipe separated line into exactly n trimmed fields.
func splitFields(line string, n int) []string {
	parts := strings.Split(line, "|")
	fields := make([]string, n)
	for i := 0; i < n && i < len(parts); i++ {
		fields[i] = strings.TrimSpace(parts[i])
	}
	return fields
}
