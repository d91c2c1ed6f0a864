package spell

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// PersonalStore persists the user's personal vocabulary per language.
type PersonalStore interface {
	// Words returns the stored words for lang.
	Words(lang string) ([]string, error)
	// Add stores word for lang. Adding an existing word is not an error.
	Add(lang, word string) error
	// Close releases the store.
	Close() error
}

// MemoryStore keeps personal words in memory only.
type MemoryStore struct {
	words map[string]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{words: make(map[string]map[string]struct{})}
}

func (m *MemoryStore) Words(lang string) ([]string, error) {
	out := make([]string, 0, len(m.words[lang]))
	for w := range m.words[lang] {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) Add(lang, word string) error {
	set, ok := m.words[lang]
	if !ok {
		set = make(map[string]struct{})
		m.words[lang] = set
	}
	set[word] = struct{}{}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// SQLiteStore keeps personal words in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the database at dbPath.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS personal_words (
		lang     TEXT NOT NULL,
		word     TEXT NOT NULL,
		added_at TEXT NOT NULL,
		PRIMARY KEY (lang, word)
	);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Words(lang string) ([]string, error) {
	rows, err := s.db.Query(`SELECT word FROM personal_words WHERE lang = ? ORDER BY word`, lang)
	if err != nil {
		return nil, fmt.Errorf("query personal words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan personal word: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *SQLiteStore) Add(lang, word string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO personal_words (lang, word, added_at) VALUES (?, ?, ?)`,
		lang, word, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert personal word: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ensure implementations satisfy their interfaces
var _ PersonalStore = (*MemoryStore)(nil)
var _ PersonalStore = (*SQLiteStore)(nil)
