package wallet

import (
	"math/big"
)

// FeeParams are fixed EIP-1559 gas settings for a transfer.
type FeeParams struct {
	// GasLimit is the gas ceiling of the transaction
	GasLimit uint64

	// MaxFeePerGas is the most paid per unit of gas, in wei
	MaxFeePerGas *big.Int

	// MaxPriorityFeePerGas is the validator tip per unit of gas, in wei
	MaxPriorityFeePerGas *big.Int
}

// DefaultBridgeFees returns the gas settings used for the bridge transfer.
func DefaultBridgeFees() FeeParams {
	return FeeParams{
		GasLimit:             976872,
		MaxFeePerGas:         big.NewInt(3000000010),
		MaxPriorityFeePerGas: big.NewInt(3000000000),
	}
}

// MaxCost is the worst-case fee: GasLimit × MaxFeePerGas.
func (f FeeParams) MaxCost() *big.Int {
	if f.MaxFeePerGas == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(f.GasLimit), f.MaxFeePerGas)
}

// Required is value plus the worst-case fee.
func (f FeeParams) Required(value *big.Int) *big.Int {
	total := f.MaxCost()
	if value != nil {
		total.Add(total, value)
	}
	return total
}
