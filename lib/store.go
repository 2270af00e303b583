package lib

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/lib/pq"
)

const DefaultGrammarTable = "grammars"

var ErrGrammarNotFound = errors.New("grammar not found")

// GrammarStore keeps named grammar specifications in a PostgreSQL table so
// several tools can share one definition of the language.
type GrammarStore struct {
	db    *sql.DB
	table string
}

func NewGrammarStore(db *sql.DB, table string) *GrammarStore {
	if table == "" {
		table = DefaultGrammarTable
	}
	return &GrammarStore{db: db, table: table}
}

// OpenGrammarStore connects to the database at connectionString and checks
// that it is reachable.
func OpenGrammarStore(ctx context.Context, connectionString string) (*GrammarStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewGrammarStore(db, DefaultGrammarTable), nil
}

func (s *GrammarStore) Close() error {
	return s.db.Close()
}

func (s *GrammarStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, body TEXT NOT NULL, updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now())",
		pq.QuoteIdentifier(s.table))
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Put validates body as a grammar specification and stores it under name,
// replacing any previous version.
func (s *GrammarStore) Put(ctx context.Context, name string, body string) error {
	if name == "" {
		return errors.New("grammar name is empty")
	}
	if _, err := ParseGrammarSpec(body, false); err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (name, body, updated_at) VALUES ($1, $2, now()) ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at",
		pq.QuoteIdentifier(s.table))
	_, err := s.db.ExecContext(ctx, query, name, body)
	return err
}

func (s *GrammarStore) Get(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("SELECT body FROM %s WHERE name = $1", pq.QuoteIdentifier(s.table))

	var body string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrGrammarNotFound, name)
	}
	if err != nil {
		return "", err
	}
	return body, nil
}

func (s *GrammarStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT name FROM %s ORDER BY name", pq.QuoteIdentifier(s.table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *GrammarStore) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE name = $1", pq.QuoteIdentifier(s.table))
	res, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrGrammarNotFound, name)
	}
	return nil
}

func ReadGrammarFile(filePath string) (string, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
