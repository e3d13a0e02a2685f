package tasks

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

// DefaultBridgeDestination receives every bridge transfer.
const DefaultBridgeDestination = "0xc8088d0362bb4ac757ca77e211c30503d39cef48"

// BridgeConfig wires the bridge executor.
type BridgeConfig struct {
	Chain       ChainClient
	Destination common.Address
	Amount      *big.Int
	Fees        wallet.FeeParams
	Policy      Policy
	// Confirmations to wait for; the mining block counts as one.
	Confirmations uint64
}

// DefaultBridgeConfig bridges 1 ETH to DefaultBridgeDestination with the
// fixed fee settings.
func DefaultBridgeConfig(chain ChainClient) BridgeConfig {
	return BridgeConfig{
		Chain:         chain,
		Destination:   common.HexToAddress(DefaultBridgeDestination),
		Amount:        big.NewInt(params.Ether),
		Fees:          wallet.DefaultBridgeFees(),
		Policy:        BridgePolicy(),
		Confirmations: 1,
	}
}

type bridgeExecutor struct {
	Deps
	config BridgeConfig
}

// NewBridgeExecutor sends a fixed native transfer for accounts holding a
// private key. It is not gated by the status store.
func NewBridgeExecutor(deps Deps, config BridgeConfig) Executor {
	return &bridgeExecutor{Deps: deps, config: config}
}

func (e *bridgeExecutor) Name() status.Task {
	return status.TaskBridge
}

func (e *bridgeExecutor) Execute(ctx context.Context, account *accounts.Account) Result {
	task := status.TaskBridge
	log := e.entry(task, account)

	if !account.HasPrivateKey() {
		log.Info("No private key, skipping bridge")
		return skippedResult(task, KindNoPrivateKey, "no private key configured")
	}

	key, err := wallet.NewKeyManager(account.PrivateKey)
	if err != nil {
		log.WithError(err).Error("Private key rejected")
		return failureResult(task, KindInvalidCredential, 0, err)
	}
	required := e.config.Fees.Required(e.config.Amount)

	var (
		txHash common.Hash
		// pending is a submitted transfer whose outcome is still unknown.
		// Later attempts wait on it instead of sending another one.
		pending common.Hash
		mined   *wallet.TransactionStatus
	)
	out := runWithPolicy(ctx, e.Waiter, log, e.config.Policy, func(ctx context.Context, attempt int) error {
		if pending == (common.Hash{}) {
			hash, err := e.submit(ctx, log, key, required)
			if err != nil {
				return err
			}
			pending, txHash = hash, hash
			log.WithField("tx_hash", hash.Hex()).Info("Bridge transaction sent, waiting for confirmation")
		} else {
			log.WithField("tx_hash", pending.Hex()).Info("Still waiting for the submitted bridge transaction")
		}

		st, err := e.config.Chain.WaitForReceipt(ctx, pending, e.config.Confirmations)
		if err != nil {
			if wallet.IsWalletError(err, wallet.ErrCodeTransactionReverted) {
				pending = common.Hash{}
			}
			return err
		}
		mined = st
		return nil
	})

	if !out.Succeeded {
		log.WithError(out.Err).WithField("kind", string(out.Kind)).Error("Bridge failed")
		r := failureResult(task, out.Kind, out.Attempts, out.Err)
		if txHash != (common.Hash{}) {
			r.TxHash = txHash.Hex()
		}
		if pending != (common.Hash{}) {
			log.WithField("tx_hash", pending.Hex()).Warn("Bridge transaction still unconfirmed and may yet be mined; not resending")
		}
		return r
	}

	fields := logrus.Fields{
		"tx_hash":  txHash.Hex(),
		"gas_used": mined.GasUsed,
	}
	if mined.BlockNumber != nil {
		fields["block"] = mined.BlockNumber.String()
	}
	if mined.EffectiveGasPrice != nil {
		fields["gas_cost"] = new(big.Int).Mul(new(big.Int).SetUint64(mined.GasUsed), mined.EffectiveGasPrice).String()
	}
	log.WithFields(fields).Info("Bridge transfer confirmed")

	return Result{Task: task, Outcome: OutcomeSuccess, Attempts: out.Attempts, TxHash: txHash.Hex()}
}

// submit checks the balance and sends one transfer at the pending nonce.
func (e *bridgeExecutor) submit(ctx context.Context, log *logrus.Entry, key *wallet.KeyManager, required *big.Int) (common.Hash, error) {
	from := key.Address()
	balance, err := e.config.Chain.GetBalance(ctx, from)
	if err != nil {
		return common.Hash{}, err
	}
	log.WithFields(logrus.Fields{
		"balance":  balance.String(),
		"required": required.String(),
	}).Info("Checked balance")
	if balance.Cmp(required) < 0 {
		return common.Hash{}, fmt.Errorf("%w: have %s wei, need %s wei", errInsufficientBalance, balance, required)
	}

	nonce, err := e.config.Chain.PendingNonce(ctx, from)
	if err != nil {
		return common.Hash{}, err
	}

	return e.config.Chain.SendTransfer(ctx, key, wallet.Transfer{
		To:    e.config.Destination,
		Value: e.config.Amount,
		Nonce: nonce,
		Fees:  e.config.Fees,
	})
}
