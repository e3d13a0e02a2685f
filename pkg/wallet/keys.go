package wallet

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyManager signs bridge transactions for one account.
type KeyManager struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewKeyManager parses a hex private key, with or without the 0x prefix.
func NewKeyManager(privateKeyHex string) (*KeyManager, error) {
	trimmed := strings.TrimSpace(privateKeyHex)
	if trimmed == "" {
		return nil, NewWalletError(ErrCodeInvalidPrivateKey, "private key cannot be empty", nil, "")
	}
	if len(trimmed) > 1 && (trimmed[:2] == "0x" || trimmed[:2] == "0X") {
		trimmed = trimmed[2:]
	}

	privateKey, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, NewWalletError(ErrCodeInvalidPrivateKey, "invalid private key", err, "")
	}

	return &KeyManager{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address is the account the key signs for.
func (km *KeyManager) Address() common.Address {
	return km.address
}

// SignTx signs tx for chainID with the latest signer the chain supports.
func (km *KeyManager) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), km.privateKey)
}
