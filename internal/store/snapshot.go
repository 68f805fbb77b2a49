package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tauroid/csv-dataflow/internal/ingest"
)

// ErrNotFound is returned when no snapshot has the requested ID.
var ErrNotFound = errors.New("snapshot not found")

// Input describes everything an ingestion result depends on.
type Input struct {
	// Types is the source text of the type definitions.
	Types []byte

	SourceType string
	TargetType string
	Anchored   bool

	Files []FileInput
}

// FileInput is one CSV file given to ingestion.
type FileInput struct {
	Path    string
	Content []byte
}

// File is the stored record of an input file.
type File struct {
	Path        string `json:"path"`
	ContentHash string `json:"content_hash"`
}

// Snapshot is a stored ingestion result.
type Snapshot struct {
	ID          string `json:"id"`
	InputKey    string `json:"input_key"`
	Fingerprint string `json:"fingerprint"`
	SourceType  string `json:"source_type"`
	TargetType  string `json:"target_type"`
	Anchored    bool   `json:"anchored"`
	Rows        int    `json:"rows"`
	Seq         int64  `json:"seq"`
	Files       []File `json:"files"`

	// Result is only loaded by Get and Lookup.
	Result *ingest.Result `json:"-"`
}

// Put stores res as the result of in. Returns the snapshot and whether it
// was newly inserted.
//
// Uses ON CONFLICT(input_key) DO NOTHING: if a snapshot for the same input
// already exists, it is returned unchanged with inserted=false.
func (s *Store) Put(ctx context.Context, in Input, res *ingest.Result) (snap *Snapshot, inserted bool, err error) {
	key := in.Key()
	fp, err := fingerprint(res)
	if err != nil {
		return nil, false, fmt.Errorf("put snapshot: %w", err)
	}
	blob, err := encodeResult(res)
	if err != nil {
		return nil, false, fmt.Errorf("put snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("put snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	id := s.ids.Generate()
	seq := s.clock.Next()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, input_key, fingerprint, source_type, target_type, anchored, rows, payload, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(input_key) DO NOTHING
	`,
		id,
		key,
		fp,
		in.SourceType,
		in.TargetType,
		in.Anchored,
		len(res.Relation.Children),
		blob,
		seq,
	)
	if err != nil {
		return nil, false, fmt.Errorf("put snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("put snapshot: rows affected: %w", err)
	}
	if affected == 0 {
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("put snapshot: commit: %w", err)
		}
		existing, ok, err := s.Lookup(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, fmt.Errorf("put snapshot: conflicting input %s vanished", key)
		}
		return existing, false, nil
	}

	files := make([]File, len(in.Files))
	for i, f := range in.Files {
		files[i] = File{Path: f.Path, ContentHash: FileHash(f.Content)}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_files (snapshot_id, position, path, content_hash)
			VALUES (?, ?, ?, ?)
		`, id, i, f.Path, files[i].ContentHash); err != nil {
			return nil, false, fmt.Errorf("put snapshot file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("put snapshot: commit: %w", err)
	}

	return &Snapshot{
		ID:          id,
		InputKey:    key,
		Fingerprint: fp,
		SourceType:  in.SourceType,
		TargetType:  in.TargetType,
		Anchored:    in.Anchored,
		Rows:        len(res.Relation.Children),
		Seq:         seq,
		Files:       files,
		Result:      res,
	}, true, nil
}

// Lookup finds the snapshot for an input key, with its result.
func (s *Store) Lookup(ctx context.Context, key string) (*Snapshot, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, input_key, fingerprint, source_type, target_type, anchored, rows, seq, payload
		FROM snapshots
		WHERE input_key = ?
	`, key)
	snap, err := s.scanFull(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup snapshot: %w", err)
	}
	return snap, true, nil
}

// Get returns the snapshot with the given ID, with its result.
// Returns ErrNotFound if there is none.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, input_key, fingerprint, source_type, target_type, anchored, rows, seq, payload
		FROM snapshots
		WHERE id = ?
	`, id)
	snap, err := s.scanFull(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List returns every snapshot without results, ordered by seq then id.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input_key, fingerprint, source_type, target_type, anchored, rows, seq
		FROM snapshots
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.InputKey, &snap.Fingerprint, &snap.SourceType,
			&snap.TargetType, &snap.Anchored, &snap.Rows, &snap.Seq); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	for i := range snaps {
		files, err := s.readFiles(ctx, snaps[i].ID)
		if err != nil {
			return nil, err
		}
		snaps[i].Files = files
	}
	return snaps, nil
}

// Delete removes a snapshot and its file records.
// Returns ErrNotFound if there is none.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %s: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete snapshot %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) scanFull(ctx context.Context, row *sql.Row) (*Snapshot, error) {
	var snap Snapshot
	var blob []byte
	if err := row.Scan(&snap.ID, &snap.InputKey, &snap.Fingerprint, &snap.SourceType,
		&snap.TargetType, &snap.Anchored, &snap.Rows, &snap.Seq, &blob); err != nil {
		return nil, err
	}

	res, err := decodeResult(blob)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	snap.Result = res

	files, err := s.readFiles(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	snap.Files = files
	return &snap, nil
}

func (s *Store) readFiles(ctx context.Context, id string) ([]File, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, content_hash
		FROM snapshot_files
		WHERE snapshot_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query snapshot files: %w", err)
	}
	defer rows.Close()

	files := []File{}
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.Path, &f.ContentHash); err != nil {
			return nil, fmt.Errorf("scan snapshot file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot files: %w", err)
	}
	return files, nil
}
