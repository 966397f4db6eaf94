// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/supportdesk/supportdesk/lib/clock"
	"github.com/supportdesk/supportdesk/lib/codec"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sealed"
	"github.com/supportdesk/supportdesk/lib/sqlitepool"
)

var (
	// ErrNoSnapshot is returned by LoadSnapshot when nothing has been
	// saved for the base URL.
	ErrNoSnapshot = errors.New("no cached tickets for this server")

	// ErrCorrupt is returned when a stored snapshot does not match its
	// digest.
	ErrCorrupt = errors.New("cached tickets are corrupt")

	// ErrLocked is returned when a snapshot was encrypted and the store
	// has no key, or a different one.
	ErrLocked = errors.New("cached tickets are encrypted with another key")
)

var migrations = []string{
	`CREATE TABLE snapshots (
		base_url     TEXT PRIMARY KEY,
		compression  TEXT NOT NULL,
		size         INTEGER NOT NULL,
		digest       BLOB NOT NULL,
		data         BLOB NOT NULL,
		ticket_count INTEGER NOT NULL,
		fetched_at   INTEGER NOT NULL
	);`,
	`ALTER TABLE snapshots ADD COLUMN sealed INTEGER NOT NULL DEFAULT 0;`,
}

// Config configures Open.
type Config struct {
	// Path is the database file. Its directory is created with mode
	// 0700 if missing.
	Path string

	// Compression applies to newly saved snapshots. Empty selects
	// zstd. Stored snapshots record their own algorithm, so changing
	// this never invalidates the cache.
	Compression Compression

	// Key, when set, encrypts newly saved snapshots and opens sealed
	// ones. The Store takes ownership and closes it on Close.
	Key *sealed.Key

	// Clock stamps fetch times. If nil, the wall clock is used.
	Clock clock.Clock

	Logger *slog.Logger
}

// Snapshot is one cached ticket list.
type Snapshot struct {
	BaseURL     string
	Tickets     []schema.Ticket
	FetchedAt   time.Time
	Digest      Digest
	Compression Compression

	// Size is the uncompressed encoding length; StoredSize is what the
	// database holds.
	Size       int
	StoredSize int

	// Sealed reports whether the stored payload is encrypted.
	Sealed bool
}

// Store is the offline ticket cache.
type Store struct {
	pool        *sqlitepool.Pool
	compression Compression
	key         *sealed.Key
	clock       clock.Clock
	logger      *slog.Logger
}

// Open opens or creates the cache at config.Path.
func Open(ctx context.Context, config Config) (*Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("ticketstore: Path is required")
	}
	compression, err := ParseCompression(string(config.Compression))
	if err != nil {
		return nil, fmt.Errorf("ticketstore: %w", err)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0700); err != nil {
		return nil, fmt.Errorf("ticketstore: creating cache directory: %w", err)
	}
	pool, err := sqlitepool.Open(ctx, sqlitepool.Config{
		Path:       config.Path,
		PoolSize:   1,
		Migrations: migrations,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("ticketstore: %w", err)
	}
	if err := os.Chmod(config.Path, 0600); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ticketstore: restricting cache permissions: %w", err)
	}

	return &Store{
		pool:        pool,
		compression: compression,
		key:         config.Key,
		clock:       clk,
		logger:      logger,
	}, nil
}

// Close closes the database and zeroes the key.
func (s *Store) Close() error {
	err := s.pool.Close()
	if s.key != nil {
		s.key.Close()
	}
	return err
}

// SaveSnapshot stores tickets as the snapshot for baseURL. changed is
// false when the stored list was identical, in which case only the
// fetch time moves.
func (s *Store) SaveSnapshot(ctx context.Context, baseURL string, tickets []schema.Ticket) (snapshot Snapshot, changed bool, err error) {
	if tickets == nil {
		tickets = []schema.Ticket{}
	}
	encoded, err := codec.Marshal(tickets)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("ticketstore: encoding tickets: %w", err)
	}
	digest := digestOf(encoded)
	now := s.clock.Now().UTC()

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("ticketstore: %w", err)
	}
	defer s.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("ticketstore: begin: %w", err)
	}
	defer endFn(&err)

	snapshot = Snapshot{
		BaseURL:   baseURL,
		Tickets:   tickets,
		FetchedAt: now,
		Digest:    digest,
		Size:      len(encoded),
	}

	existing, found, err := readRow(conn, baseURL)
	if err != nil {
		return Snapshot{}, false, err
	}
	seal := s.key != nil
	if found && existing.digest == digest && existing.sealed == seal {
		err = sqlitex.Execute(conn,
			"UPDATE snapshots SET fetched_at = ? WHERE base_url = ?",
			&sqlitex.ExecOptions{Args: []any{now.UnixNano(), baseURL}})
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("ticketstore: updating fetch time: %w", err)
		}
		snapshot.Compression = existing.compression
		snapshot.StoredSize = len(existing.data)
		snapshot.Sealed = existing.sealed
		s.logger.Debug("ticket snapshot unchanged", "base_url", baseURL, "digest", digest.Short())
		return snapshot, false, nil
	}

	payload, used, err := compress(encoded, s.compression)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("ticketstore: compressing snapshot: %w", err)
	}
	if seal {
		payload, err = s.key.Seal(payload)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("ticketstore: encrypting snapshot: %w", err)
		}
	}
	err = sqlitex.Execute(conn,
		`INSERT INTO snapshots (base_url, compression, size, digest, data, ticket_count, fetched_at, sealed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (base_url) DO UPDATE SET
			compression = excluded.compression,
			size = excluded.size,
			digest = excluded.digest,
			data = excluded.data,
			ticket_count = excluded.ticket_count,
			fetched_at = excluded.fetched_at,
			sealed = excluded.sealed`,
		&sqlitex.ExecOptions{Args: []any{
			baseURL, string(used), len(encoded), digest[:], payload, len(tickets), now.UnixNano(), boolToInt(seal),
		}})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("ticketstore: writing snapshot: %w", err)
	}

	snapshot.Compression = used
	snapshot.StoredSize = len(payload)
	snapshot.Sealed = seal
	s.logger.Debug("ticket snapshot saved",
		"base_url", baseURL,
		"tickets", len(tickets),
		"compression", used,
		"sealed", seal,
		"size", len(encoded),
		"stored_size", len(payload),
		"digest", digest.Short(),
	)
	return snapshot, true, nil
}

// LoadSnapshot returns the snapshot for baseURL, or ErrNoSnapshot.
func (s *Store) LoadSnapshot(ctx context.Context, baseURL string) (Snapshot, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("ticketstore: %w", err)
	}
	defer s.pool.Put(conn)

	row, found, err := readRow(conn, baseURL)
	if err != nil {
		return Snapshot{}, err
	}
	if !found {
		return Snapshot{}, ErrNoSnapshot
	}

	payload := row.data
	if row.sealed {
		if s.key == nil {
			return Snapshot{}, ErrLocked
		}
		payload, err = s.key.Open(row.data)
		if errors.Is(err, sealed.ErrWrongKey) {
			return Snapshot{}, ErrLocked
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	encoded, err := decompress(payload, row.compression, row.size)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if digestOf(encoded) != row.digest {
		return Snapshot{}, fmt.Errorf("%w: digest mismatch", ErrCorrupt)
	}
	var tickets []schema.Ticket
	if err := codec.Unmarshal(encoded, &tickets); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if tickets == nil {
		tickets = []schema.Ticket{}
	}

	return Snapshot{
		BaseURL:     baseURL,
		Tickets:     tickets,
		FetchedAt:   row.fetchedAt,
		Digest:      row.digest,
		Compression: row.compression,
		Size:        row.size,
		StoredSize:  len(row.data),
		Sealed:      row.sealed,
	}, nil
}

// DeleteSnapshot removes the snapshot for baseURL. Deleting a missing
// snapshot succeeds.
func (s *Store) DeleteSnapshot(ctx context.Context, baseURL string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("ticketstore: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.Execute(conn, "DELETE FROM snapshots WHERE base_url = ?",
		&sqlitex.ExecOptions{Args: []any{baseURL}}); err != nil {
		return fmt.Errorf("ticketstore: deleting snapshot: %w", err)
	}
	return nil
}

// Purge removes the cache file and its WAL side files. Use after
// Close.
func Purge(path string) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("ticketstore: removing %s: %w", path+suffix, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type storedRow struct {
	compression Compression
	size        int
	digest      Digest
	data        []byte
	fetchedAt   time.Time
	sealed      bool
}

func readRow(conn *sqlite.Conn, baseURL string) (storedRow, bool, error) {
	var (
		row   storedRow
		found bool
	)
	err := sqlitex.Execute(conn,
		"SELECT compression, size, digest, data, fetched_at, sealed FROM snapshots WHERE base_url = ?",
		&sqlitex.ExecOptions{
			Args: []any{baseURL},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				row.compression = Compression(stmt.GetText("compression"))
				row.size = int(stmt.GetInt64("size"))
				stmt.GetBytes("digest", row.digest[:])
				row.data = make([]byte, stmt.GetLen("data"))
				stmt.GetBytes("data", row.data)
				row.fetchedAt = time.Unix(0, stmt.GetInt64("fetched_at")).UTC()
				row.sealed = stmt.GetInt64("sealed") != 0
				return nil
			},
		})
	if err != nil {
		return storedRow{}, false, fmt.Errorf("ticketstore: reading snapshot: %w", err)
	}
	return row, found, nil
}
