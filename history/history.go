// Package history stores dispatched subcommand invocations in a SQLite database.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultDatabasePath is the default path where the history database is stored.
var DefaultDatabasePath = ".subcmd/history.db"

// ErrInvocationNotFound is returned when a requested invocation cannot be found.
var ErrInvocationNotFound = errors.New("history: invocation not found")

// Invocation is a single run of the dispatcher.
type Invocation struct {
	ID         string
	Program    string
	Subcommand string
	Args       []string
	Outcome    string
	ExitCode   int
	Error      string
	CreatedAt  time.Time
}

// New creates an Invocation with a unique ID for the given subcommand.
func New(program, subcommand string, args []string) (*Invocation, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []string{}
	}
	return &Invocation{
		ID:         id.String(),
		Program:    program,
		Subcommand: subcommand,
		Args:       args,
		CreatedAt:  time.Now(),
	}, nil
}

// initDB ensures the database and tables exist, returning a connection.
func initDB(dataSourceName string) (*sql.DB, error) {
	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// SaveTo persists the invocation to the database at dbPath. Saving an
// invocation twice overwrites the earlier row.
func SaveTo(inv *Invocation, dbPath string) error {
	db, err := initDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	args, err := json.Marshal(inv.Args)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT OR REPLACE INTO invocations
		(id, program, subcommand, args, outcome, exit_code, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		inv.ID, inv.Program, inv.Subcommand, args, inv.Outcome, inv.ExitCode, inv.Error, inv.CreatedAt.UTC())
	return err
}

// Save persists the invocation using DefaultDatabasePath.
func Save(inv *Invocation) error {
	return SaveTo(inv, DefaultDatabasePath)
}

// LoadFrom retrieves a single invocation from the database at dbPath.
func LoadFrom(id string, dbPath string) (*Invocation, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("invocation %q: %w", id, ErrInvocationNotFound)
	}
	db, err := initDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open/initialize database at %s: %w", dbPath, err)
	}
	defer db.Close()

	row := db.QueryRow(`SELECT id, program, subcommand, args, outcome, exit_code, error, created_at
		FROM invocations WHERE id = ?`, id)
	inv, err := scanInvocation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invocation %q: %w", id, ErrInvocationNotFound)
		}
		return nil, fmt.Errorf("failed to load invocation %q: %w", id, err)
	}
	return inv, nil
}

// Load retrieves a single invocation from DefaultDatabasePath.
func Load(id string) (*Invocation, error) {
	return LoadFrom(id, DefaultDatabasePath)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvocation(s scanner) (*Invocation, error) {
	inv := &Invocation{}
	var args []byte
	if err := s.Scan(&inv.ID, &inv.Program, &inv.Subcommand, &args, &inv.Outcome, &inv.ExitCode, &inv.Error, &inv.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(args, &inv.Args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}
	return inv, nil
}
