package chain

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// TokenCreatedEvent mirrors the contract's TokenCreated log.
type TokenCreatedEvent struct {
	TokenID  int64
	Name     string
	Symbol   string
	Metadata string
	Creator  common.Address
}

// TradeEvent mirrors the contract's Trade log. Amounts are converted from
// 18-decimal wei values.
type TradeEvent struct {
	TokenID int64
	Agent   common.Address
	IsBuy   bool
	Amount  decimal.Decimal
	Price   decimal.Decimal
	Cost    decimal.Decimal
}

// TokenGraduatedEvent mirrors the contract's TokenGraduated log.
type TokenGraduatedEvent struct {
	TokenID int64
	FinalMC decimal.Decimal
}

// EventHandlers receives decoded contract logs. Nil handlers are skipped.
type EventHandlers struct {
	TokenCreated   func(TokenCreatedEvent)
	Trade          func(TradeEvent)
	TokenGraduated func(TokenGraduatedEvent)
}

// WatchEvents subscribes to the contract's logs and dispatches decoded events
// until ctx is cancelled or the subscription drops. Requires a websocket RPC
// endpoint.
func (c *Client) WatchEvents(ctx context.Context, h EventHandlers) error {
	query := ethereum.FilterQuery{Addresses: []common.Address{c.address}}
	logs := make(chan types.Log, 64)

	sub, err := c.eth.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("subscribe logs: %w", err)
	}

	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					log.Printf("⚠️ chain: log subscription closed: %v", err)
				}
				return
			case lg := <-logs:
				if err := c.dispatch(lg, h); err != nil {
					log.Printf("⚠️ chain: bad log in tx %s: %v", lg.TxHash.Hex(), err)
				}
			}
		}
	}()
	return nil
}

func (c *Client) dispatch(lg types.Log, h EventHandlers) error {
	if len(lg.Topics) == 0 {
		return nil
	}

	switch lg.Topics[0] {
	case c.abi.Events["TokenCreated"].ID:
		if h.TokenCreated == nil {
			return nil
		}
		vals, err := c.abi.Events["TokenCreated"].Inputs.NonIndexed().Unpack(lg.Data)
		if err != nil {
			return fmt.Errorf("unpack TokenCreated: %w", err)
		}
		h.TokenCreated(TokenCreatedEvent{
			TokenID:  topicInt64(lg.Topics[1]),
			Name:     vals[0].(string),
			Symbol:   vals[1].(string),
			Metadata: vals[2].(string),
			Creator:  common.BytesToAddress(lg.Topics[2].Bytes()),
		})

	case c.abi.Events["Trade"].ID:
		if h.Trade == nil {
			return nil
		}
		vals, err := c.abi.Events["Trade"].Inputs.NonIndexed().Unpack(lg.Data)
		if err != nil {
			return fmt.Errorf("unpack Trade: %w", err)
		}
		h.Trade(TradeEvent{
			TokenID: topicInt64(lg.Topics[1]),
			Agent:   common.BytesToAddress(lg.Topics[2].Bytes()),
			IsBuy:   vals[0].(bool),
			Amount:  weiToDecimal(vals[1].(*big.Int)),
			Price:   weiToDecimal(vals[2].(*big.Int)),
			Cost:    weiToDecimal(vals[3].(*big.Int)),
		})

	case c.abi.Events["TokenGraduated"].ID:
		if h.TokenGraduated == nil {
			return nil
		}
		vals, err := c.abi.Events["TokenGraduated"].Inputs.NonIndexed().Unpack(lg.Data)
		if err != nil {
			return fmt.Errorf("unpack TokenGraduated: %w", err)
		}
		h.TokenGraduated(TokenGraduatedEvent{
			TokenID: topicInt64(lg.Topics[1]),
			FinalMC: weiToDecimal(vals[0].(*big.Int)),
		})
	}
	return nil
}

func topicInt64(t common.Hash) int64 {
	return new(big.Int).SetBytes(t.Bytes()).Int64()
}
