package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// ErrExecutionFailed marks an on-chain revert. The transaction was mined
// but the contract rejected it.
var ErrExecutionFailed = fmt.Errorf("chain execution failed")

// Wallet signs transactions for one agent.
type Wallet struct {
	Address common.Address
	key     *ecdsa.PrivateKey
}

// NewWallet parses a hex private key.
func NewWallet(privateKeyHex string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Wallet{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
	}, nil
}

// TokenCount reads the number of launched tokens.
func (c *Client) TokenCount(ctx context.Context) (int64, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenCount"); err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Int64(), nil
}

// TokenState is one token as the contract reports it.
type TokenState struct {
	TokenID   int64
	Name      string
	Symbol    string
	Metadata  string
	Creator   common.Address
	CreatedAt int64
	Supply    decimal.Decimal
	Reserve   decimal.Decimal
	Price     decimal.Decimal
	MarketCap decimal.Decimal
	Graduated bool
}

// GetToken reads one token's full state.
func (c *Client) GetToken(ctx context.Context, tokenID int64) (TokenState, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getToken", big.NewInt(tokenID)); err != nil {
		return TokenState{}, err
	}
	return TokenState{
		TokenID:   tokenID,
		Name:      out[0].(string),
		Symbol:    out[1].(string),
		Metadata:  out[2].(string),
		Creator:   out[3].(common.Address),
		CreatedAt: out[4].(*big.Int).Int64(),
		Supply:    weiToDecimal(out[5].(*big.Int)),
		Reserve:   weiToDecimal(out[6].(*big.Int)),
		Price:     weiToDecimal(out[7].(*big.Int)),
		MarketCap: weiToDecimal(out[8].(*big.Int)),
		Graduated: out[9].(bool),
	}, nil
}

// GetBuyPrice quotes the native cost of buying amount tokens.
func (c *Client) GetBuyPrice(ctx context.Context, tokenID int64, amount decimal.Decimal) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBuyPrice", big.NewInt(tokenID), decimalToWei(amount)); err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// GetSellPrice quotes the native return of selling amount tokens.
func (c *Client) GetSellPrice(ctx context.Context, tokenID int64, amount decimal.Decimal) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getSellPrice", big.NewInt(tokenID), decimalToWei(amount)); err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// GetAgentBalance reads a wallet's balance of one token.
func (c *Client) GetAgentBalance(ctx context.Context, tokenID int64, agent common.Address) (decimal.Decimal, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAgentBalance", big.NewInt(tokenID), agent); err != nil {
		return decimal.Zero, err
	}
	return weiToDecimal(out[0].(*big.Int)), nil
}

// NativeBalance reads a wallet's native coin balance.
func (c *Client) NativeBalance(ctx context.Context, addr common.Address) (decimal.Decimal, error) {
	bal, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return weiToDecimal(bal), nil
}

// CreateToken launches a token and waits for the receipt.
func (c *Client) CreateToken(ctx context.Context, w *Wallet, name, symbol, metadata string) (*types.Receipt, error) {
	return c.transact(ctx, w, nil, "createToken", name, symbol, metadata)
}

// Buy purchases amount tokens, sending value as payment.
func (c *Client) Buy(ctx context.Context, w *Wallet, tokenID int64, amount decimal.Decimal, value *big.Int) (*types.Receipt, error) {
	return c.transact(ctx, w, value, "buy", big.NewInt(tokenID), decimalToWei(amount))
}

// Sell sells amount tokens back into the curve.
func (c *Client) Sell(ctx context.Context, w *Wallet, tokenID int64, amount decimal.Decimal) (*types.Receipt, error) {
	return c.transact(ctx, w, nil, "sell", big.NewInt(tokenID), decimalToWei(amount))
}

func (c *Client) transact(ctx context.Context, w *Wallet, value *big.Int, method string, args ...interface{}) (*types.Receipt, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(w.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	auth.Context = ctx
	if value != nil {
		auth.Value = value
	}

	tx, err := c.contract.Transact(auth, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	wctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	receipt, err := bind.WaitMined(wctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("wait %s tx %s: %w", method, tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s tx %s: %w", method, tx.Hash(), ErrExecutionFailed)
	}
	return receipt, nil
}
