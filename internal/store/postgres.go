package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// PostingStore appends run output into the postings table, keyed by
// fingerprint so re-running never duplicates rows.
type PostingStore struct {
	pool *pgxpool.Pool
}

// NewPostingStore connects to databaseURL and verifies connectivity.
func NewPostingStore(ctx context.Context, databaseURL string) (*PostingStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &PostingStore{pool: pool}, nil
}

// Insert writes the batch, skipping fingerprints already present. Returns
// how many rows were actually inserted. Individual failures are logged and
// skipped so one bad row cannot lose the rest of the batch.
func (s *PostingStore) Insert(ctx context.Context, postings []*model.Posting) (int, error) {
	inserted := 0
	for _, p := range postings {
		raw, err := json.Marshal(p)
		if err != nil {
			log.Printf("[store] json.Marshal error for %s: %v", p.PostingURL, err)
			continue
		}
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO postings (fingerprint, posting_url, title, company, status, raw_data)
			 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
			 ON CONFLICT (fingerprint) DO NOTHING`,
			p.Fingerprint, p.PostingURL, p.Title, p.Company, string(p.Status), string(raw),
		)
		if err != nil {
			log.Printf("[store] insert error for %s: %v", p.PostingURL, err)
			continue
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// SeenHashes returns every fingerprint already stored.
func (s *PostingStore) SeenHashes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT fingerprint FROM postings`)
	if err != nil {
		return nil, fmt.Errorf("query postings: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		seen[h] = struct{}{}
	}
	return seen, rows.Err()
}

// Close releases the pool.
func (s *PostingStore) Close() { s.pool.Close() }
