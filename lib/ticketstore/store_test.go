// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/supportdesk/supportdesk/lib/clock"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sealed"
)

const (
	productionURL = "https://customersupportplatform.onrender.com"
	localURL      = "http://localhost:8000"
)

var epoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func manyTickets(count int) []schema.Ticket {
	tickets := make([]schema.Ticket, count)
	for i := range tickets {
		tickets[i] = schema.Ticket{
			ID:           int64(i + 1),
			TicketNumber: fmt.Sprintf("TKT-20240101-%04d", i),
			Name:         "Meera Nair",
			FatherName:   "Krishnan Nair",
			Address:      "12 Marine Drive, Kochi",
			Pincode:      "682001",
			MobileNumber: "9876543210",
			EventDate:    "2024-01-01",
			Query:        "Refund for the cancelled booking has not arrived yet.",
			Status:       schema.StatusOpen,
			CreatedAt:    schema.NewTimestamp(epoch.Add(-time.Duration(i) * time.Hour)),
		}
	}
	return tickets
}

func openStore(t *testing.T, compression Compression, clk clock.Clock) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "tickets.db")
	store, err := Open(context.Background(), Config{Path: path, Compression: compression, Clock: clk})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionZstd, CompressionLZ4, CompressionNone} {
		t.Run(string(compression), func(t *testing.T) {
			store, _ := openStore(t, compression, clock.Fake(epoch))
			ctx := context.Background()
			tickets := manyTickets(50)

			saved, changed, err := store.SaveSnapshot(ctx, productionURL, tickets)
			if err != nil {
				t.Fatalf("SaveSnapshot: %v", err)
			}
			if !changed {
				t.Error("first save reported unchanged")
			}
			if saved.Compression != compression {
				t.Errorf("Compression = %q, want %q", saved.Compression, compression)
			}
			if compression != CompressionNone && saved.StoredSize >= saved.Size {
				t.Errorf("stored %d bytes for %d uncompressed", saved.StoredSize, saved.Size)
			}

			loaded, err := store.LoadSnapshot(ctx, productionURL)
			if err != nil {
				t.Fatalf("LoadSnapshot: %v", err)
			}
			if len(loaded.Tickets) != len(tickets) {
				t.Fatalf("loaded %d tickets, want %d", len(loaded.Tickets), len(tickets))
			}
			for i := range tickets {
				if loaded.Tickets[i].TicketNumber != tickets[i].TicketNumber ||
					loaded.Tickets[i].CreatedAt.Compare(tickets[i].CreatedAt) != 0 {
					t.Fatalf("ticket %d = %+v, want %+v", i, loaded.Tickets[i], tickets[i])
				}
			}
			if loaded.Digest != saved.Digest {
				t.Errorf("Digest = %s, want %s", loaded.Digest.Short(), saved.Digest.Short())
			}
			if !loaded.FetchedAt.Equal(epoch) {
				t.Errorf("FetchedAt = %v, want %v", loaded.FetchedAt, epoch)
			}
		})
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	store, _ := openStore(t, CompressionZstd, clock.Fake(epoch))
	saved, _, err := store.SaveSnapshot(context.Background(), localURL, nil)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if saved.Compression != CompressionNone {
		t.Errorf("empty list stored with %q, want none", saved.Compression)
	}
	loaded, err := store.LoadSnapshot(context.Background(), localURL)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Tickets == nil || len(loaded.Tickets) != 0 {
		t.Errorf("Tickets = %#v, want empty non-nil", loaded.Tickets)
	}
}

func TestUnchangedSnapshotOnlyMovesFetchTime(t *testing.T) {
	fake := clock.Fake(epoch)
	store, _ := openStore(t, CompressionZstd, fake)
	ctx := context.Background()
	tickets := manyTickets(10)

	first, _, err := store.SaveSnapshot(ctx, productionURL, tickets)
	if err != nil {
		t.Fatal(err)
	}

	fake.Advance(5 * time.Minute)
	second, changed, err := store.SaveSnapshot(ctx, productionURL, manyTickets(10))
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("identical list reported changed")
	}
	if second.Digest != first.Digest {
		t.Error("identical list produced a different digest")
	}
	loaded, err := store.LoadSnapshot(ctx, productionURL)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.FetchedAt.Equal(epoch.Add(5 * time.Minute)) {
		t.Errorf("FetchedAt = %v, want advanced time", loaded.FetchedAt)
	}

	tickets[3].Status = schema.StatusClosed
	third, changed, err := store.SaveSnapshot(ctx, productionURL, tickets)
	if err != nil {
		t.Fatal(err)
	}
	if !changed || third.Digest == first.Digest {
		t.Error("modified list not detected as changed")
	}
}

func TestSnapshotsAreKeyedByServer(t *testing.T) {
	store, _ := openStore(t, CompressionLZ4, clock.Fake(epoch))
	ctx := context.Background()

	if _, _, err := store.SaveSnapshot(ctx, productionURL, manyTickets(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadSnapshot(ctx, localURL); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("LoadSnapshot(other server) = %v, want ErrNoSnapshot", err)
	}

	if err := store.DeleteSnapshot(ctx, productionURL); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := store.LoadSnapshot(ctx, productionURL); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("LoadSnapshot after delete = %v, want ErrNoSnapshot", err)
	}
	if err := store.DeleteSnapshot(ctx, productionURL); err != nil {
		t.Errorf("second DeleteSnapshot: %v", err)
	}
}

func TestCorruptSnapshotIsDetected(t *testing.T) {
	store, _ := openStore(t, CompressionNone, clock.Fake(epoch))
	ctx := context.Background()
	if _, _, err := store.SaveSnapshot(ctx, productionURL, manyTickets(2)); err != nil {
		t.Fatal(err)
	}

	conn, err := store.pool.Take(ctx)
	if err != nil {
		t.Fatal(err)
	}
	err = sqlitex.Execute(conn,
		"UPDATE snapshots SET digest = zeroblob(32) WHERE base_url = ?",
		&sqlitex.ExecOptions{Args: []any{productionURL}})
	store.pool.Put(conn)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadSnapshot(ctx, productionURL); !errors.Is(err, ErrCorrupt) {
		t.Errorf("LoadSnapshot = %v, want ErrCorrupt", err)
	}
}

func TestCacheFilePermissionsAndPurge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supportdesk", "tickets.db")
	store, err := Open(context.Background(), Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := store.SaveSnapshot(context.Background(), productionURL, manyTickets(1)); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("cache mode = %o, want 600", mode)
	}
	directory, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if mode := directory.Mode().Perm(); mode != 0700 {
		t.Errorf("cache directory mode = %o, want 700", mode)
	}

	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	if err := Purge(path); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cache file survived Purge")
	}
	if err := Purge(path); err != nil {
		t.Errorf("second Purge: %v", err)
	}
}

func TestParseCompression(t *testing.T) {
	for input, want := range map[string]Compression{"": CompressionZstd, "LZ4": CompressionLZ4, "none": CompressionNone} {
		if got, err := ParseCompression(input); err != nil || got != want {
			t.Errorf("ParseCompression(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression(gzip) succeeded")
	}
}

func TestDigestOfMatchesSavedSnapshot(t *testing.T) {
	store, _ := openStore(t, CompressionZstd, clock.Fake(epoch))
	tickets := manyTickets(3)

	snapshot, _, err := store.SaveSnapshot(context.Background(), localURL, tickets)
	if err != nil {
		t.Fatal(err)
	}
	digest, err := DigestOf(tickets)
	if err != nil {
		t.Fatal(err)
	}
	if digest != snapshot.Digest {
		t.Errorf("DigestOf = %s, snapshot digest = %s", digest.Short(), snapshot.Digest.Short())
	}

	tickets[1].Status = schema.StatusClosed
	changed, err := DigestOf(tickets)
	if err != nil {
		t.Fatal(err)
	}
	if changed == digest {
		t.Error("digest did not change with a status change")
	}

	empty, _ := DigestOf(nil)
	alsoEmpty, _ := DigestOf([]schema.Ticket{})
	if empty != alsoEmpty {
		t.Error("nil and empty lists digest differently")
	}
}

func TestSealedSnapshots(t *testing.T) {
	ctx := context.Background()
	directory := t.TempDir()
	path := filepath.Join(directory, "tickets.db")
	keyPath := filepath.Join(directory, "cache.key")

	openWith := func(withKey bool) *Store {
		t.Helper()
		config := Config{Path: path, Clock: clock.Fake(epoch)}
		if withKey {
			key, _, err := sealed.LoadOrCreateKey(keyPath)
			if err != nil {
				t.Fatalf("LoadOrCreateKey: %v", err)
			}
			config.Key = key
		}
		store, err := Open(ctx, config)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return store
	}

	store := openWith(true)
	tickets := manyTickets(5)
	saved, changed, err := store.SaveSnapshot(ctx, productionURL, tickets)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !changed || !saved.Sealed {
		t.Errorf("saved changed=%v sealed=%v, want both true", changed, saved.Sealed)
	}

	conn, err := store.pool.Take(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var stored []byte
	err = sqlitex.Execute(conn, "SELECT data FROM snapshots WHERE base_url = ?", &sqlitex.ExecOptions{
		Args: []any{productionURL},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			stored = make([]byte, stmt.GetLen("data"))
			stmt.GetBytes("data", stored)
			return nil
		},
	})
	store.pool.Put(conn)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(stored, []byte("Meera Nair")) {
		t.Error("sealed payload contains plaintext")
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openWith(true)
	loaded, err := reopened.LoadSnapshot(ctx, productionURL)
	if err != nil {
		t.Fatalf("LoadSnapshot with key: %v", err)
	}
	if len(loaded.Tickets) != 5 || !loaded.Sealed || loaded.Digest != saved.Digest {
		t.Errorf("loaded %d tickets sealed=%v digest=%s", len(loaded.Tickets), loaded.Sealed, loaded.Digest.Short())
	}
	reopened.Close()

	keyless := openWith(false)
	defer keyless.Close()
	if _, err := keyless.LoadSnapshot(ctx, productionURL); !errors.Is(err, ErrLocked) {
		t.Errorf("LoadSnapshot without key = %v, want ErrLocked", err)
	}

	// Saving the same list without a key rewrites it in the clear.
	resaved, changed, err := keyless.SaveSnapshot(ctx, productionURL, tickets)
	if err != nil {
		t.Fatal(err)
	}
	if !changed || resaved.Sealed {
		t.Errorf("keyless resave changed=%v sealed=%v, want changed and unsealed", changed, resaved.Sealed)
	}
	if _, err := keyless.LoadSnapshot(ctx, productionURL); err != nil {
		t.Errorf("LoadSnapshot after keyless resave: %v", err)
	}
}

func TestSealedSnapshotWithWrongKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tickets.db")

	first, err := sealed.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	store, err := Open(ctx, Config{Path: path, Key: first})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.SaveSnapshot(ctx, localURL, manyTickets(2)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	second, err := sealed.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	store, err = Open(ctx, Config{Path: path, Key: second})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.LoadSnapshot(ctx, localURL); !errors.Is(err, ErrLocked) {
		t.Errorf("LoadSnapshot with another key = %v, want ErrLocked", err)
	}
}
