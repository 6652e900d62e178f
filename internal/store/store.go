package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/slide"
	"github.com/briankim1512/SlideSearch/internal/textfold"

	_ "modernc.org/sqlite"
)

// ErrUnknownSlide is returned when a requested slide id is not stored.
var ErrUnknownSlide = errors.New("unknown slide")

const (
	timeLayout   = time.RFC3339
	defaultLimit = 500
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
	limit   int
}

// Open opens (and creates if needed) the slide database at dbPath. limit caps
// the number of records a search returns; zero uses the default.
func Open(dbPath string, limit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	s := &Store{readDB: readDB, writeDB: writeDB, limit: limit}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS decks (
			hash        TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			path        TEXT NOT NULL,
			modified    TEXT NOT NULL,
			preview     TEXT NOT NULL DEFAULT '',
			ingested_at TEXT NOT NULL,
			run_id      TEXT NOT NULL DEFAULT '',
			search_name TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decks_modified ON decks(modified);

		CREATE TABLE IF NOT EXISTS slides (
			id          TEXT PRIMARY KEY,
			deck_hash   TEXT NOT NULL,
			number      INTEGER NOT NULL,
			text        TEXT NOT NULL,
			notes       TEXT NOT NULL DEFAULT '',
			search_text TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_slides_deck ON slides(deck_hash, number);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// HasDeck reports whether a presentation with this content hash is stored.
func (s *Store) HasDeck(ctx context.Context, hash string) (bool, error) {
	var n int
	err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM decks WHERE hash = ?", hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking deck %s: %w", hash, err)
	}
	return n > 0, nil
}

// PutDeck stores a deck and its slides in one transaction, replacing any
// previous copy of the same deck.
func (s *Store) PutDeck(ctx context.Context, d Deck, slides []slide.Record) error {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if d.IngestedAt.IsZero() {
		d.IngestedAt = time.Now()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO decks (hash, name, path, modified, preview, ingested_at, run_id, search_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			name = excluded.name,
			path = excluded.path,
			modified = excluded.modified,
			preview = excluded.preview,
			run_id = excluded.run_id,
			search_name = excluded.search_name
	`, d.Hash, d.Name, d.Path, formatTime(d.Modified), d.Preview, formatTime(d.IngestedAt), d.RunID, textfold.Fold(d.Name))
	if err != nil {
		return fmt.Errorf("upserting deck %s: %w", d.Name, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM slides WHERE deck_hash = ?", d.Hash); err != nil {
		return fmt.Errorf("clearing slides of %s: %w", d.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slides (id, deck_hash, number, text, notes, search_text)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			deck_hash = excluded.deck_hash,
			number = excluded.number,
			text = excluded.text,
			notes = excluded.notes,
			search_text = excluded.search_text
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range slides {
		folded := textfold.Fold(r.Text + "\n" + r.Notes)
		if _, err := stmt.ExecContext(ctx, r.ID, d.Hash, r.Number, r.Text, r.Notes, folded); err != nil {
			return fmt.Errorf("inserting slide %d of %s: %w", r.Number, d.Name, err)
		}
	}

	return tx.Commit()
}

// Search returns the slides matching q, ordered by its sort spec or by
// ingestion order when unsorted.
func (s *Store) Search(ctx context.Context, q search.Query) ([]slide.Record, error) {
	var (
		where []string
		args  []interface{}
	)

	if text := strings.TrimSpace(q.Text); text != "" {
		where = append(where, `s.search_text LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(text))
	}

	if title := strings.TrimSpace(q.Title); title != "" {
		where = append(where, `d.search_name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(title))
	}

	if !q.From.IsZero() {
		where = append(where, "d.modified >= ?")
		args = append(args, formatTime(q.From))
	}

	if !q.To.IsZero() {
		// the end date is inclusive
		where = append(where, "d.modified < ?")
		args = append(args, formatTime(q.To.AddDate(0, 0, 1)))
	}

	query := `SELECT s.id, d.name, d.path, d.hash, s.number, s.text, s.notes, d.modified, d.preview
		FROM slides s JOIN decks d ON d.hash = s.deck_hash`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderBy(q.Sort)
	query += fmt.Sprintf(" LIMIT %d", s.limit)

	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying slides: %w", err)
	}
	defer rows.Close()

	records := []slide.Record{}
	for rows.Next() {
		var (
			r        slide.Record
			modified string
		)
		if err := rows.Scan(&r.ID, &r.DeckName, &r.DeckPath, &r.DeckHash, &r.Number, &r.Text, &r.Notes, &modified, &r.Preview); err != nil {
			return nil, fmt.Errorf("scanning slide: %w", err)
		}
		r.Modified = parseTime(modified)
		records = append(records, r)
	}
	return records, rows.Err()
}

func orderBy(spec search.SortSpec) string {
	dir := "ASC"
	if spec.Direction == search.Descending {
		dir = "DESC"
	}
	switch spec.Column {
	case search.ColumnTitle:
		return "d.name COLLATE NOCASE " + dir + ", d.rowid, s.number"
	case search.ColumnModified:
		return "d.modified " + dir + ", d.name COLLATE NOCASE, d.rowid, s.number"
	default:
		return "d.rowid, s.number"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(textfold.Fold(term)) + "%"
}

// Resolve looks up where each slide lives, in the order the ids were given.
func (s *Store) Resolve(ctx context.Context, ids []slide.ID) ([]Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = string(id)
	}

	rows, err := s.readDB.QueryContext(ctx, `
		SELECT s.id, d.name, d.path, s.number
		FROM slides s JOIN decks d ON d.hash = s.deck_hash
		WHERE s.id IN (`+strings.Join(placeholders, ",")+`)`, args...) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("resolving slides: %w", err)
	}
	defer rows.Close()

	found := make(map[slide.ID]Location, len(ids))
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.DeckName, &loc.DeckPath, &loc.Number); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		found[loc.ID] = loc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Location, 0, len(ids))
	for _, id := range ids {
		loc, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSlide, id)
		}
		out = append(out, loc)
	}
	return out, nil
}

// Prune forgets decks whose source file no longer exists and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	rows, err := s.readDB.QueryContext(ctx, "SELECT hash, path FROM decks")
	if err != nil {
		return 0, fmt.Errorf("listing decks: %w", err)
	}
	var gone []string
	for rows.Next() {
		var hash, path string
		if err := rows.Scan(&hash, &path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning deck: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			gone = append(gone, hash)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(gone) == 0 {
		return 0, nil
	}

	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, hash := range gone {
		if _, err := tx.ExecContext(ctx, "DELETE FROM slides WHERE deck_hash = ?", hash); err != nil {
			return 0, fmt.Errorf("deleting slides of %s: %w", hash, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM decks WHERE hash = ?", hash); err != nil {
			return 0, fmt.Errorf("deleting deck %s: %w", hash, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(gone), nil
}

// Stats counts decks and slides and reports the database file size.
func (s *Store) Stats(ctx context.Context, dbPath string) (Stats, error) {
	var st Stats
	if err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM decks").Scan(&st.Decks); err != nil {
		return st, fmt.Errorf("counting decks: %w", err)
	}
	if err := s.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM slides").Scan(&st.Slides); err != nil {
		return st, fmt.Errorf("counting slides: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return st, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	st.Size = info.Size()
	return st, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
