package multiplicity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eringen/multiplicity/migrate"
)

// ErrSlugTaken is returned when saving an event whose slug belongs to
// another event.
var ErrSlugTaken = errors.New("multiplicity: slug already in use")

// TicketURLColumn was added after the first release, together with the host
// line handled by the migrate command.
var TicketURLColumn = migrate.Column{Table: "events", Name: "ticket_url", Decl: "TEXT NOT NULL DEFAULT ''"}

const dateLayout = time.RFC3339

// Store wraps a SQLite database holding site settings, events and uploads.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the public site read while the admin writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the tables and adds columns introduced after launch.
func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    status TEXT NOT NULL,
    location_address TEXT NOT NULL DEFAULT '',
    location_link TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_status_date ON events (status, date);
CREATE TABLE IF NOT EXISTS event_images (
    event_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    src TEXT NOT NULL,
    alt TEXT NOT NULL,
    aspect_ratio TEXT NOT NULL,
    PRIMARY KEY (event_id, position)
);
CREATE TABLE IF NOT EXISTS event_speakers (
    event_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    names TEXT NOT NULL,
    studio_name TEXT NOT NULL,
    bio TEXT NOT NULL,
    socials TEXT NOT NULL,
    image_src TEXT NOT NULL,
    image_alt TEXT NOT NULL,
    PRIMARY KEY (event_id, position)
);
CREATE TABLE IF NOT EXISTS event_sponsors (
    event_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    image_src TEXT NOT NULL,
    image_alt TEXT NOT NULL,
    PRIMARY KEY (event_id, position)
);
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    data TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	if err != nil {
		return err
	}
	for _, col := range []migrate.Column{TicketURLColumn, migrate.HostColumn} {
		if _, err := migrate.EnsureColumn(ctx, s.db, col); err != nil {
			return err
		}
	}
	return nil
}

const eventColumns = `id, slug, title, date, status, ticket_url, COALESCE(host, ''), location_address, location_link, description, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var date, status, updated string
	if err := row.Scan(&e.ID, &e.Slug, &e.Title, &date, &status, &e.TicketURL, &e.Host,
		&e.Location.Address, &e.Location.AddressLink, &e.Description, &updated); err != nil {
		return Event{}, err
	}
	var err error
	if e.Date, err = time.Parse(dateLayout, date); err != nil {
		return Event{}, fmt.Errorf("multiplicity: event %s date: %w", e.Slug, err)
	}
	e.UpdatedAt, _ = time.Parse(dateLayout, updated)
	e.Status = EventStatus(status)
	return e, nil
}

// FindEvents returns events matching q with images, speakers and sponsors
// populated in display order.
func (s *Store) FindEvents(ctx context.Context, q EventQuery) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if q.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(q.Status))
	}
	if q.Sort == DateDesc {
		query += ` ORDER BY date DESC, slug`
	} else {
		query += ` ORDER BY date ASC, slug`
	}
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range events {
		if err := s.loadChildren(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// ListAllEvents returns every event, newest first (for admin).
func (s *Store) ListAllEvents(ctx context.Context) ([]Event, error) {
	return s.FindEvents(ctx, EventQuery{Sort: DateDesc})
}

// GetEvent returns a single event by slug.
func (s *Store) GetEvent(ctx context.Context, slug string) (Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = ?`, slug)
	e, err := scanEvent(row)
	if err != nil {
		return Event{}, err
	}
	if err := s.loadChildren(ctx, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// CountEvents returns the number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (s *Store) loadChildren(ctx context.Context, e *Event) error {
	rows, err := s.db.QueryContext(ctx, `SELECT src, alt, aspect_ratio FROM event_images WHERE event_id = ? ORDER BY position`, e.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var img EventImage
		var ratio string
		if err := rows.Scan(&img.Src, &img.Alt, &ratio); err != nil {
			rows.Close()
			return err
		}
		img.AspectRatio = AspectRatio(ratio).Normalize()
		e.Images = append(e.Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT names, studio_name, bio, socials, image_src, image_alt FROM event_speakers WHERE event_id = ? ORDER BY position`, e.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var sp Speaker
		if err := rows.Scan(&sp.Names, &sp.StudioName, &sp.Bio, &sp.Socials, &sp.Image.Src, &sp.Image.Alt); err != nil {
			rows.Close()
			return err
		}
		e.Speakers = append(e.Speakers, sp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT image_src, image_alt FROM event_sponsors WHERE event_id = ? ORDER BY position`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sp Sponsor
		if err := rows.Scan(&sp.Image.Src, &sp.Image.Alt); err != nil {
			return err
		}
		e.Sponsors = append(e.Sponsors, sp)
	}
	return rows.Err()
}

// SaveEvent inserts or updates e and replaces its nested lists. A missing ID
// is generated and a missing slug is derived from the title.
func (s *Store) SaveEvent(ctx context.Context, e Event) (Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Slug == "" {
		e.Slug = Slugify(e.Title)
	}
	if e.Slug == "" {
		return e, invalid("Slug is required. Add a title or slug.")
	}
	if err := e.Validate(); err != nil {
		return e, err
	}
	e.Date = e.Date.UTC().Truncate(time.Second)
	e.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, err
	}
	defer tx.Rollback()

	var host any
	if e.Host != "" {
		host = e.Host
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO events (id, slug, title, date, status, ticket_url, host, location_address, location_link, description, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    slug = excluded.slug,
    title = excluded.title,
    date = excluded.date,
    status = excluded.status,
    ticket_url = excluded.ticket_url,
    host = excluded.host,
    location_address = excluded.location_address,
    location_link = excluded.location_link,
    description = excluded.description,
    updated_at = excluded.updated_at`,
		e.ID, e.Slug, e.Title, e.Date.Format(dateLayout), string(e.Status), e.TicketURL, host,
		e.Location.Address, e.Location.AddressLink, e.Description, e.UpdatedAt.Format(dateLayout))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: events.slug") {
			return e, fmt.Errorf("%w: %s", ErrSlugTaken, e.Slug)
		}
		return Event{}, err
	}

	if err := deleteChildren(ctx, tx, e.ID); err != nil {
		return Event{}, err
	}
	for i, img := range e.Images {
		e.Images[i].AspectRatio = img.AspectRatio.Normalize()
		if _, err := tx.ExecContext(ctx, `INSERT INTO event_images (event_id, position, src, alt, aspect_ratio) VALUES (?, ?, ?, ?, ?)`,
			e.ID, i, img.Src, img.Alt, string(e.Images[i].AspectRatio)); err != nil {
			return Event{}, err
		}
	}
	for i, sp := range e.Speakers {
		if _, err := tx.ExecContext(ctx, `INSERT INTO event_speakers (event_id, position, names, studio_name, bio, socials, image_src, image_alt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, sp.Names, sp.StudioName, sp.Bio, sp.Socials, sp.Image.Src, sp.Image.Alt); err != nil {
			return Event{}, err
		}
	}
	for i, sp := range e.Sponsors {
		if _, err := tx.ExecContext(ctx, `INSERT INTO event_sponsors (event_id, position, image_src, image_alt) VALUES (?, ?, ?, ?)`,
			e.ID, i, sp.Image.Src, sp.Image.Alt); err != nil {
			return Event{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Event{}, err
	}
	return e, nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, id string) error {
	for _, table := range []string{"event_images", "event_speakers", "event_sponsors"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE event_id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEvent removes an event and its nested lists by slug.
func (s *Store) DeleteEvent(ctx context.Context, slug string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE slug = ?`, slug).Scan(&id); err != nil {
		return err
	}
	if err := deleteChildren(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetSettings returns the site settings with footer defaults applied. An
// unset settings row is not an error.
func (s *Store) GetSettings(ctx context.Context) (SiteSettings, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return SiteSettings{}.WithDefaults(), nil
	}
	if err != nil {
		return SiteSettings{}, err
	}
	var st SiteSettings
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return SiteSettings{}, fmt.Errorf("multiplicity: decode settings: %w", err)
	}
	return st.WithDefaults(), nil
}

// SaveSettings replaces the site settings.
func (s *Store) SaveSettings(ctx context.Context, st SiteSettings) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("multiplicity: encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO settings (id, data) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	return err
}

// SaveImage records an uploaded image.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploads, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes an upload record.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	return err
}
