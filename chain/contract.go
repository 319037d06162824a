// Package chain executes trades against the AgentPump contract on an EVM
// chain. It mirrors the in-memory market closely enough that the same agent
// loops run in either mode.
package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

const agentPumpABI = `[
  {"type":"event","name":"AgentRegistered","anonymous":false,"inputs":[
    {"name":"wallet","type":"address","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"avatar","type":"string","indexed":false}]},
  {"type":"event","name":"TokenCreated","anonymous":false,"inputs":[
    {"name":"tokenId","type":"uint256","indexed":true},
    {"name":"name","type":"string","indexed":false},
    {"name":"symbol","type":"string","indexed":false},
    {"name":"creator","type":"address","indexed":true},
    {"name":"metadata","type":"string","indexed":false}]},
  {"type":"event","name":"Trade","anonymous":false,"inputs":[
    {"name":"tokenId","type":"uint256","indexed":true},
    {"name":"agent","type":"address","indexed":true},
    {"name":"isBuy","type":"bool","indexed":false},
    {"name":"amount","type":"uint256","indexed":false},
    {"name":"price","type":"uint256","indexed":false},
    {"name":"cost","type":"uint256","indexed":false}]},
  {"type":"event","name":"TokenGraduated","anonymous":false,"inputs":[
    {"name":"tokenId","type":"uint256","indexed":true},
    {"name":"finalMC","type":"uint256","indexed":false}]},
  {"type":"function","name":"tokenCount","stateMutability":"view","inputs":[],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"agentCount","stateMutability":"view","inputs":[],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isAgent","stateMutability":"view",
    "inputs":[{"name":"","type":"address"}],
    "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getPrice","stateMutability":"view",
    "inputs":[{"name":"tokenId","type":"uint256"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getMarketCap","stateMutability":"view",
    "inputs":[{"name":"tokenId","type":"uint256"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getBuyPrice","stateMutability":"view",
    "inputs":[{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getSellPrice","stateMutability":"view",
    "inputs":[{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getToken","stateMutability":"view",
    "inputs":[{"name":"tokenId","type":"uint256"}],
    "outputs":[
      {"name":"name","type":"string"},
      {"name":"symbol","type":"string"},
      {"name":"metadata","type":"string"},
      {"name":"creator","type":"address"},
      {"name":"createdAt","type":"uint256"},
      {"name":"totalSupply","type":"uint256"},
      {"name":"reserveBalance","type":"uint256"},
      {"name":"price","type":"uint256"},
      {"name":"marketCap","type":"uint256"},
      {"name":"graduated","type":"bool"}]},
  {"type":"function","name":"getAgentBalance","stateMutability":"view",
    "inputs":[{"name":"tokenId","type":"uint256"},{"name":"agent","type":"address"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"createToken","stateMutability":"nonpayable",
    "inputs":[{"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"metadata","type":"string"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"buy","stateMutability":"payable",
    "inputs":[{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"}],
    "outputs":[]},
  {"type":"function","name":"sell","stateMutability":"nonpayable",
    "inputs":[{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"}],
    "outputs":[]}
]`

// Client is a thin wrapper over the deployed AgentPump contract.
type Client struct {
	eth      *ethclient.Client
	contract *bind.BoundContract
	abi      abi.ABI
	address  common.Address
	chainID  *big.Int
}

// Dial connects to the RPC endpoint and binds the contract.
func Dial(rpcURL, contractAddress string, chainID int64) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(agentPumpABI))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	addr := common.HexToAddress(contractAddress)
	return &Client{
		eth:      eth,
		contract: bind.NewBoundContract(addr, parsed, eth, eth, eth),
		abi:      parsed,
		address:  addr,
		chainID:  big.NewInt(chainID),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// weiToDecimal converts an 18-decimal chain value into a decimal amount.
func weiToDecimal(x *big.Int) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(x, -18)
}

// decimalToWei converts a decimal amount into an 18-decimal chain value.
func decimalToWei(d decimal.Decimal) *big.Int {
	return d.Shift(18).BigInt()
}
