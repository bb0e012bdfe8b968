package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no link matches the lookup.
var ErrNotFound = errors.New("not_found")

type Store struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Link struct {
	ID            string
	URL           string
	CanonicalURL  string
	CanonicalHash string
	Domain        string
	CrawlStatus   string
	CrawlError    string
	FirstSeen     time.Time
	LastSeen      time.Time
	Hits          int
}

type Pagination struct {
	Page    int
	PerPage int
	Total   int
}

const linkColumns = `id, url, canonical_url, canonical_hash, domain, crawl_status, crawl_error, first_seen, last_seen, hits`

func scanLink(row pgx.Row) (Link, error) {
	var l Link
	err := row.Scan(&l.ID, &l.URL, &l.CanonicalURL, &l.CanonicalHash, &l.Domain,
		&l.CrawlStatus, &l.CrawlError, &l.FirstSeen, &l.LastSeen, &l.Hits)
	return l, err
}

// Upsert registers a sighting of a URL. The canonical hash is the dedup key:
// a first sighting inserts the row, a repeat bumps hits and last_seen.
func (s *Store) Upsert(ctx context.Context, rawURL, canonicalURL, hash, domain string) (Link, bool, error) {
	row := s.DB.QueryRow(ctx, `
		INSERT INTO links (url, canonical_url, canonical_hash, domain, crawl_status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (canonical_hash) DO NOTHING
		RETURNING `+linkColumns+`
	`, rawURL, canonicalURL, hash, domain)
	l, err := scanLink(row)
	if err == nil {
		return l, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Link{}, false, err
	}

	row = s.DB.QueryRow(ctx, `
		UPDATE links SET last_seen = now(), hits = hits + 1
		WHERE canonical_hash = $1
		RETURNING `+linkColumns+`
	`, hash)
	l, err = scanLink(row)
	if err != nil {
		return Link{}, false, err
	}
	return l, false, nil
}

func (s *Store) Get(ctx context.Context, id string) (Link, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id)
	l, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Link{}, ErrNotFound
	}
	return l, err
}

func (s *Store) List(ctx context.Context, domain string, page, perPage int) ([]Link, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 30
	}
	offset := (page - 1) * perPage

	where := []string{"true"}
	args := []interface{}{}
	if domain != "" {
		args = append(args, domain)
		where = append(where, fmt.Sprintf("domain = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx, `SELECT count(*) FROM links WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, Pagination{}, err
	}

	args = append(args, perPage, offset)
	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM links WHERE %s
		ORDER BY last_seen DESC
		LIMIT $%d OFFSET $%d
	`, linkColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, Pagination{}, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, Pagination{}, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, err
	}
	return links, Pagination{Page: page, PerPage: perPage, Total: total}, nil
}

// ClaimForCrawl marks up to limit pending links as fetching and returns them.
// Concurrent workers skip each other's rows.
func (s *Store) ClaimForCrawl(ctx context.Context, limit int) ([]Link, error) {
	rows, err := s.DB.Query(ctx, `
		UPDATE links SET crawl_status = 'fetching'
		WHERE id IN (
			SELECT id FROM links
			WHERE crawl_status = 'pending'
			ORDER BY first_seen
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+linkColumns+`
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *Store) MarkCrawled(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `
		UPDATE links SET crawl_status = 'done', crawl_error = '' WHERE id = $1
	`, id)
	return err
}

func (s *Store) MarkCrawlFailed(ctx context.Context, id, reason string) error {
	_, err := s.DB.Exec(ctx, `
		UPDATE links SET crawl_status = 'failed', crawl_error = $2 WHERE id = $1
	`, id, reason)
	return err
}
