package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ayazwx/agent-pump/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS tokens (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	ticker TEXT NOT NULL,
	metadata TEXT,
	creator TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	supply TEXT NOT NULL DEFAULT '0',
	reserve_balance TEXT NOT NULL DEFAULT '0',
	price TEXT NOT NULL DEFAULT '0',
	graduated INTEGER DEFAULT 0,
	synced_at INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS holdings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	token_id TEXT NOT NULL,
	agent_id TEXT NOT NULL,
	balance TEXT NOT NULL DEFAULT '0',
	avg_buy_price TEXT DEFAULT '0',
	total_invested TEXT DEFAULT '0',
	updated_at INTEGER DEFAULT 0,
	UNIQUE(token_id, agent_id)
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	token_id TEXT NOT NULL,
	agent_id TEXT NOT NULL,
	is_buy INTEGER NOT NULL,
	amount TEXT NOT NULL,
	price TEXT NOT NULL,
	cost TEXT NOT NULL,
	tx_hash TEXT,
	timestamp INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS agent_stats (
	agent_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	total_trades INTEGER DEFAULT 0,
	total_volume TEXT DEFAULT '0',
	realized_pnl TEXT DEFAULT '0',
	last_active INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_token ON trades(token_id);
CREATE INDEX IF NOT EXISTS idx_trades_agent ON trades(agent_id);
CREATE INDEX IF NOT EXISTS idx_holdings_agent ON holdings(agent_id);
`

// SQLiteStore persists market state to a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %v", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveToken(t core.Token) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO tokens
		(id, name, ticker, metadata, creator, created_at, supply, reserve_balance, price, graduated, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Ticker, t.Description, t.CreatorID, t.CreatedAt.UnixMilli(),
		t.Supply.String(), t.ReserveBalance.String(), t.Price.String(),
		boolToInt(t.Graduated), time.Now().UnixMilli(),
	)
	return err
}

func (s *SQLiteStore) SaveTrade(tr core.Trade) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO trades
		(id, token_id, agent_id, is_buy, amount, price, cost, tx_hash, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.ID, tr.TokenID, tr.AgentID, boolToInt(tr.Side == core.Buy),
		tr.Amount.String(), tr.Price.String(), tr.Cost.String(), tr.TxHash,
		tr.Timestamp.UnixMilli(),
	)
	return err
}

func (s *SQLiteStore) SaveHolding(h Holding) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO holdings
		(token_id, agent_id, balance, avg_buy_price, total_invested, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.TokenID, h.AgentID, h.Balance.String(), h.AvgBuyPrice.String(),
		h.TotalInvested.String(), time.Now().UnixMilli(),
	)
	return err
}

func (s *SQLiteStore) GetHolding(tokenID, agentID string) (Holding, error) {
	row := s.db.QueryRow(`
		SELECT balance, avg_buy_price, total_invested FROM holdings
		WHERE token_id = ? AND agent_id = ?`, tokenID, agentID)

	var balance, avgBuy, invested string
	if err := row.Scan(&balance, &avgBuy, &invested); err != nil {
		if err == sql.ErrNoRows {
			return Holding{}, ErrNotFound
		}
		return Holding{}, err
	}
	h := Holding{TokenID: tokenID, AgentID: agentID}
	var err error
	if h.Balance, err = decimal.NewFromString(balance); err != nil {
		return Holding{}, err
	}
	if h.AvgBuyPrice, err = decimal.NewFromString(avgBuy); err != nil {
		return Holding{}, err
	}
	if h.TotalInvested, err = decimal.NewFromString(invested); err != nil {
		return Holding{}, err
	}
	return h, nil
}

func (s *SQLiteStore) UpdateAgentStats(agentID, name string, upd StatUpdate) error {
	row := s.db.QueryRow(`SELECT total_volume, realized_pnl FROM agent_stats WHERE agent_id = ?`, agentID)

	var volume, pnl string
	err := row.Scan(&volume, &pnl)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`
			INSERT INTO agent_stats (agent_id, name, total_trades, total_volume, realized_pnl, last_active)
			VALUES (?, ?, 1, ?, ?, ?)`,
			agentID, name, upd.Cost.String(), upd.Pnl.String(), time.Now().UnixMilli())
		return err
	case err != nil:
		return err
	}

	vol, err := decimal.NewFromString(volume)
	if err != nil {
		return err
	}
	p, err := decimal.NewFromString(pnl)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		UPDATE agent_stats
		SET total_trades = total_trades + 1, total_volume = ?, realized_pnl = ?, last_active = ?
		WHERE agent_id = ?`,
		vol.Add(upd.Cost).String(), p.Add(upd.Pnl).String(), time.Now().UnixMilli(), agentID)
	return err
}

func (s *SQLiteStore) Leaderboard(limit int) ([]AgentStats, error) {
	rows, err := s.db.Query(`
		SELECT agent_id, name, total_trades, total_volume, realized_pnl, last_active
		FROM agent_stats ORDER BY CAST(realized_pnl AS REAL) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AgentStats
	for rows.Next() {
		var st AgentStats
		var volume, pnl string
		if err := rows.Scan(&st.AgentID, &st.Name, &st.TotalTrades, &volume, &pnl, &st.LastActive); err != nil {
			return nil, err
		}
		if st.TotalVolume, err = decimal.NewFromString(volume); err != nil {
			return nil, err
		}
		if st.RealizedPnl, err = decimal.NewFromString(pnl); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
