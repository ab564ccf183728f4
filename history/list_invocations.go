package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// ListInvocations returns the most recent invocations first. A limit of zero
// or less returns all of them. A missing database holds no invocations.
func ListInvocations(dbPath string, limit int) ([]*Invocation, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return []*Invocation{}, nil
	}

	db, err := initDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`SELECT id, program, subcommand, args, outcome, exit_code, error, created_at
		FROM invocations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	invocations := []*Invocation{}
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}
		invocations = append(invocations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return invocations, nil
}

// LatestInvocationID returns the ID of the most recent invocation stored at
// dbPath, or ErrInvocationNotFound when there is none.
func LatestInvocationID(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", ErrInvocationNotFound
	}
	db, err := initDB(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open/initialize database at %s: %w", dbPath, err)
	}
	defer db.Close()

	var id string
	err = db.QueryRow("SELECT id FROM invocations ORDER BY created_at DESC LIMIT 1").Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvocationNotFound
		}
		return "", fmt.Errorf("failed to query for latest invocation ID: %w", err)
	}
	return id, nil
}
