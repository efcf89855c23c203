// Package snapshot keeps a history of fetched balances in SQLite. It is
// written after each run and read only to show how balances moved.
package snapshot

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339

type Entry struct {
	Contract  common.Address
	Symbol    string
	Name      string
	Decimals  uint8
	BalanceOf string
	Raw       string
}

type Snapshot struct {
	ID          int64
	Holder      common.Address
	ChainID     int
	BlockNumber uint64
	TakenAt     time.Time
	Entries     []Entry
}

// ByContract indexes the entries of s by contract.
func (s *Snapshot) ByContract() map[common.Address]Entry {
	out := make(map[common.Address]Entry, len(s.Entries))
	for _, e := range s.Entries {
		out[e.Contract] = e
	}
	return out
}

// FromBalances builds a snapshot of balances, ordered by contract.
func FromBalances(holder common.Address, chainID int, blockNumber uint64, takenAt time.Time, balances model.BalancesByContract) Snapshot {
	snap := Snapshot{Holder: holder, ChainID: chainID, BlockNumber: blockNumber, TakenAt: takenAt}
	for contract, b := range balances {
		raw := "0"
		if b.Raw != nil {
			raw = b.Raw.String()
		}
		snap.Entries = append(snap.Entries, Entry{
			Contract:  contract,
			Symbol:    b.Symbol,
			Name:      b.Name,
			Decimals:  b.Decimals,
			BalanceOf: b.BalanceOf,
			Raw:       raw,
		})
	}
	sortEntries(snap.Entries)
	return snap
}

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        holder TEXT NOT NULL,
        chain_id INTEGER NOT NULL,
        block_number INTEGER NOT NULL DEFAULT 0,
        taken_at TEXT NOT NULL
    )`,
		`CREATE TABLE IF NOT EXISTS balance_snapshots (
        run_id INTEGER NOT NULL REFERENCES snapshot_runs(id),
        contract TEXT NOT NULL,
        symbol TEXT,
        name TEXT,
        decimals INTEGER NOT NULL DEFAULT 0,
        balance_of TEXT NOT NULL,
        raw TEXT NOT NULL,
        PRIMARY KEY(run_id, contract)
    )`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_runs_holder ON snapshot_runs(holder, chain_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes snap as a new run and returns its id.
func (s *Store) Save(ctx context.Context, snap Snapshot) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO snapshot_runs(holder, chain_id, block_number, taken_at) VALUES(?, ?, ?, ?)`,
		normalizeAddress(snap.Holder), snap.ChainID, int64(snap.BlockNumber), snap.TakenAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, e := range snap.Entries {
		_, err := tx.ExecContext(ctx, `INSERT INTO balance_snapshots(run_id, contract, symbol, name, decimals, balance_of, raw)
    VALUES(?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(run_id, contract) DO UPDATE SET balance_of = excluded.balance_of, raw = excluded.raw`,
			runID, normalizeAddress(e.Contract), e.Symbol, e.Name, int(e.Decimals), e.BalanceOf, e.Raw)
		if err != nil {
			return 0, fmt.Errorf("failed to insert balance of %s: %w", e.Contract.Hex(), err)
		}
	}
	return runID, tx.Commit()
}

// Latest returns the most recent run for holder on chainID, or nil when
// there is none.
func (s *Store) Latest(ctx context.Context, holder common.Address, chainID int) (*Snapshot, error) {
	snap := &Snapshot{Holder: holder, ChainID: chainID}
	var blockNumber int64
	var takenAt string
	err := s.db.QueryRowContext(ctx, `SELECT id, block_number, taken_at FROM snapshot_runs WHERE holder = ? AND chain_id = ? ORDER BY id DESC LIMIT 1`,
		normalizeAddress(holder), chainID).Scan(&snap.ID, &blockNumber, &takenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap.BlockNumber = uint64(blockNumber)
	if snap.TakenAt, err = time.Parse(timeLayout, takenAt); err != nil {
		return nil, fmt.Errorf("run %d: bad taken_at %q: %w", snap.ID, takenAt, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT contract, symbol, name, decimals, balance_of, raw FROM balance_snapshots WHERE run_id = ? ORDER BY contract`, snap.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var contract string
		var symbol, name sql.NullString
		var decimals int
		var e Entry
		if err := rows.Scan(&contract, &symbol, &name, &decimals, &e.BalanceOf, &e.Raw); err != nil {
			return nil, err
		}
		e.Contract = common.HexToAddress(contract)
		e.Symbol = symbol.String
		e.Name = name.String
		e.Decimals = uint8(decimals)
		snap.Entries = append(snap.Entries, e)
	}
	return snap, rows.Err()
}

func normalizeAddress(address common.Address) string {
	return strings.ToLower(address.Hex())
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Contract.Bytes(), entries[j].Contract.Bytes()) < 0
	})
}
