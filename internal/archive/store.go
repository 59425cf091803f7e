package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
	_ "github.com/go-sql-driver/mysql"     // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"     // PostgreSQL driver
	_ "modernc.org/sqlite"                 // SQLite driver
)

// StoreImpl handles durable archive storage using various database backends.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.ArchiveStore = &StoreImpl{} // Compile-time check

// GetDBFilePath returns the default SQLite location for the archive store.
func GetDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repoaudit_archive.db"
	}
	return filepath.Join(home, ".repoaudit_archive.db")
}

// NewStore initializes and returns a new archive store for the backend type.
// Schema setup runs through the embedded migrations.
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.ArchiveStore, error) {
	if backend == schema.NoneBackend {
		// No durable cache: snapshots live in process memory for the run
		return NewMemoryStore(), nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}

	return &StoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// openDB opens the raw database handle for a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite archive store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL archive store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL archive store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported archive backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	return db, nil
}

// getPlaceholder returns the parameter placeholder for the backend.
func (s *StoreImpl) getPlaceholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// GetArchive returns the compressed blob and metadata for one repository.
func (s *StoreImpl) GetArchive(repoID string) ([]byte, schema.RepoArchive, error) {
	var meta schema.RepoArchive
	query := fmt.Sprintf(
		`SELECT blob, blob_hash, blob_size, file_index, last_accessed FROM repo_archives WHERE repo_id = %s`,
		s.getPlaceholder(1))
	row := s.db.QueryRow(query, repoID)

	var blob []byte
	var indexJSON []byte
	var lastAccessed int64
	if err := row.Scan(&blob, &meta.BlobHash, &meta.BlobSize, &indexJSON, &lastAccessed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, meta, contract.ErrArchiveNotFound
		}
		return nil, meta, &contract.ArchiveStorageError{Op: "get", Err: err}
	}
	if err := json.Unmarshal(indexJSON, &meta.FileIndex); err != nil {
		return nil, meta, &contract.ArchiveStorageError{Op: "get", Err: fmt.Errorf("decode file index: %w", err)}
	}
	meta.RepoID = repoID
	meta.LastAccessed = time.Unix(lastAccessed, 0)
	return blob, meta, nil
}

// PutArchive inserts or replaces the archive row for meta.RepoID.
func (s *StoreImpl) PutArchive(meta schema.RepoArchive, blob []byte) error {
	indexJSON, err := json.Marshal(meta.FileIndex)
	if err != nil {
		return &contract.ArchiveStorageError{Op: "put", Err: fmt.Errorf("encode file index: %w", err)}
	}

	if _, err := s.db.Exec(s.getUpsertQuery(),
		meta.RepoID, blob, meta.BlobHash, meta.BlobSize, indexJSON, meta.LastAccessed.Unix()); err != nil {
		return &contract.ArchiveStorageError{Op: "put", Err: err}
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *StoreImpl) getUpsertQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return `INSERT INTO repo_archives (repo_id, blob, blob_hash, blob_size, file_index, last_accessed) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE blob = new.blob, blob_hash = new.blob_hash, blob_size = new.blob_size, file_index = new.file_index, last_accessed = new.last_accessed`

	case schema.PostgreSQLBackend:
		return `INSERT INTO repo_archives (repo_id, blob, blob_hash, blob_size, file_index, last_accessed) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (repo_id) DO UPDATE SET blob = EXCLUDED.blob, blob_hash = EXCLUDED.blob_hash, blob_size = EXCLUDED.blob_size, file_index = EXCLUDED.file_index, last_accessed = EXCLUDED.last_accessed`

	default: // SQLite
		return `INSERT OR REPLACE INTO repo_archives (repo_id, blob, blob_hash, blob_size, file_index, last_accessed) VALUES (?, ?, ?, ?, ?, ?)`
	}
}

// TouchArchive updates the last-accessed timestamp for one repository.
func (s *StoreImpl) TouchArchive(repoID string, accessed time.Time) error {
	var query string
	if s.backend == schema.PostgreSQLBackend {
		query = `UPDATE repo_archives SET last_accessed = $1 WHERE repo_id = $2`
	} else {
		query = `UPDATE repo_archives SET last_accessed = ? WHERE repo_id = ?`
	}
	_, err := s.db.Exec(query, accessed.Unix(), repoID)
	return err
}

// DeleteArchive purges the archive row for one repository.
func (s *StoreImpl) DeleteArchive(repoID string) error {
	query := fmt.Sprintf(`DELETE FROM repo_archives WHERE repo_id = %s`, s.getPlaceholder(1))
	if _, err := s.db.Exec(query, repoID); err != nil {
		return &contract.ArchiveStorageError{Op: "delete", Err: err}
	}
	return nil
}

// GetStatus returns status information about the archive store.
func (s *StoreImpl) GetStatus() (schema.ArchiveStatus, error) {
	status := schema.ArchiveStatus{
		Backend:   string(s.backend),
		Connected: true,
	}

	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(blob_size), 0) FROM repo_archives`)
	if err := row.Scan(&status.TotalArchives, &status.TotalBlobBytes); err != nil {
		return status, fmt.Errorf("failed to get archive counts: %w", err)
	}

	if status.TotalArchives == 0 {
		return status, nil
	}

	var oldest, newest int64
	row = s.db.QueryRow(`SELECT MIN(last_accessed), MAX(last_accessed) FROM repo_archives`)
	if err := row.Scan(&oldest, &newest); err != nil {
		return status, fmt.Errorf("failed to get access times: %w", err)
	}
	status.OldestAccess = time.Unix(oldest, 0)
	status.NewestAccess = time.Unix(newest, 0)

	return status, nil
}

// Close closes the underlying DB connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
