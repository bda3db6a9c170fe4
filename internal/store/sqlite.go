package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
)

const defaultDBName = "cases.db"

//go:embed sql/*.sql
var migrationsFS embed.FS

// Path returns the database path for a workspace directory.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".caseflow", defaultDBName)
}

// SQLite stores each case as a JSON document in one row.
type SQLite struct {
	DB *sql.DB
}

// Open creates the workspace directory if needed, opens the database and
// applies migrations.
func Open(workspace string) (*SQLite, error) {
	path := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return OpenDSN(fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", path))
}

// OpenDSN opens an arbitrary sqlite DSN, for example "file::memory:" in tests.
func OpenDSN(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &SQLite{DB: conn}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.DB.Close()
}

func (s *SQLite) Load(ctx context.Context, id string) (*caserecord.Case, error) {
	var payload string
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM cases WHERE id=?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var c caserecord.Case
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, fmt.Errorf("store: decode case %s: %w", id, err)
	}
	return &c, nil
}

func (s *SQLite) Save(ctx context.Context, c *caserecord.Case) error {
	if c == nil || c.ID == "" {
		return errMissingID
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: encode case %s: %w", c.ID, err)
	}
	_, err = s.DB.ExecContext(ctx, `INSERT INTO cases(id, state, payload, created_at, updated_at)
VALUES (?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET state=excluded.state, payload=excluded.payload, updated_at=excluded.updated_at`,
		c.ID, string(c.State), string(payload), formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	return err
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM cases WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, state, updated_at FROM cases ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Summary
	for rows.Next() {
		var row Summary
		var state string
		if err := rows.Scan(&row.ID, &state, &row.UpdatedAt); err != nil {
			return nil, err
		}
		row.State = caserecord.State(state)
		res = append(res, row)
	}
	return res, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type migration struct {
	version int
	name    string
	up      string
}

func loadMigrations() ([]migration, error) {
	files, err := fs.ReadDir(migrationsFS, "sql")
	if err != nil {
		return nil, err
	}
	var out []migration
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := migrationsFS.ReadFile("sql/" + f.Name())
		if err != nil {
			return nil, err
		}
		var v int
		if _, err := fmt.Sscanf(f.Name(), "%d_", &v); err != nil {
			return nil, fmt.Errorf("invalid migration filename %s: %w", f.Name(), err)
		}
		out = append(out, migration{version: v, name: f.Name(), up: string(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func migrate(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations(version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)`); err != nil {
		return err
	}
	for _, m := range migrations {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version=?`, m.version).Scan(&exists); err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		if _, err := tx.Exec(m.up); err != nil {
			return fmt.Errorf("apply %s: %w", m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES (?, ?)`, m.version, formatTime(time.Now())); err != nil {
			return err
		}
	}
	return tx.Commit()
}
