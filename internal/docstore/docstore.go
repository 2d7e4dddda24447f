// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

// Key prefixes for the record types. User-scoped keys separate the user id
// from the rest of the key with a NUL byte.
const (
	prefixSong = "song:"
	prefixSet  = "set:"
	prefixIdem = "idem:"
	prefixPref = "pref:"
	prefixQst  = "qst:"
)

// maxConflictRetries bounds optimistic transaction retries on badger.ErrConflict.
const maxConflictRetries = 5

// Store is a storage.Store backed by BadgerDB.
type Store struct {
	db     *badger.DB
	cfg    config.BadgerConfig
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool

	now func() time.Time
}

// Open opens (or creates) the Badger store described by cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg *config.BadgerConfig, logger zerolog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("badger config is required")
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("badger path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		cfg:    *cfg,
		logger: logger.With().Str("component", "badger").Logger(),
		now:    time.Now,
	}

	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Badger store opened")
	return s, nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func userKey(prefix, userID, rest string) []byte {
	return []byte(prefix + userID + "\x00" + rest)
}

func userPrefix(prefix, userID string) []byte {
	return []byte(prefix + userID + "\x00")
}

// scanPrefix decodes every value under prefix with decode.
func (s *Store) scanPrefix(ctx context.Context, prefix []byte, decode func(val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			if err := item.Value(decode); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
		}
		return nil
	})
}

// UpsertSongs implements storage.Store.
func (s *Store) UpsertSongs(_ context.Context, songs []recommend.Song) (int, error) {
	if s.isClosed() {
		return 0, storage.ErrClosed
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	seen := make(map[string]struct{}, len(songs))
	for i := range songs {
		if songs[i].SpotifyID == "" {
			continue
		}
		data, err := json.Marshal(&songs[i])
		if err != nil {
			return 0, fmt.Errorf("marshal song %s: %w", songs[i].SpotifyID, err)
		}
		if err := wb.Set([]byte(prefixSong+songs[i].SpotifyID), data); err != nil {
			return 0, fmt.Errorf("write song %s: %w", songs[i].SpotifyID, err)
		}
		seen[songs[i].SpotifyID] = struct{}{}
	}

	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush songs: %w", err)
	}
	return len(seen), nil
}

// Songs implements storage.Store. Keys are iterated in byte order, which
// is SpotifyID order.
func (s *Store) Songs(ctx context.Context) ([]recommend.Song, error) {
	if s.isClosed() {
		return nil, storage.ErrClosed
	}

	var songs []recommend.Song
	err := s.scanPrefix(ctx, []byte(prefixSong), func(val []byte) error {
		var song recommend.Song
		if err := json.Unmarshal(val, &song); err != nil {
			return err
		}
		songs = append(songs, song)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// CountSongs implements storage.Store.
func (s *Store) CountSongs(ctx context.Context) (int, error) {
	if s.isClosed() {
		return 0, storage.ErrClosed
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixSong)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return n, nil
}

// InsertRecommendationSet implements recommend.SetStore. The idempotency
// marker and the set are written in one transaction; a concurrent insert of
// the same key conflicts, retries, and then observes the marker.
func (s *Store) InsertRecommendationSet(_ context.Context, set *recommend.RecommendationSet) error {
	if s.isClosed() {
		return storage.ErrClosed
	}

	stored := *set
	if stored.Timestamp.IsZero() {
		stored.Timestamp = s.now().UTC()
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal recommendation set: %w", err)
	}
	id := uuid.New().String()

	return s.update(func(txn *badger.Txn) error {
		if set.IdempotencyKey != "" {
			idemKey := userKey(prefixIdem, set.UserID, set.IdempotencyKey)
			_, err := txn.Get(idemKey)
			if err == nil {
				return fmt.Errorf("user %s key %s: %w", set.UserID, set.IdempotencyKey, recommend.ErrDuplicateSet)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("read idempotency key: %w", err)
			}
			if err := txn.Set(idemKey, []byte(id)); err != nil {
				return fmt.Errorf("write idempotency key: %w", err)
			}
		}
		if err := txn.Set(userKey(prefixSet, set.UserID, id), data); err != nil {
			return fmt.Errorf("write recommendation set: %w", err)
		}
		return nil
	})
}

// RecommendationSets implements storage.Store.
func (s *Store) RecommendationSets(ctx context.Context, userID string, limit int) ([]recommend.RecommendationSet, error) {
	if s.isClosed() {
		return nil, storage.ErrClosed
	}

	sets := []recommend.RecommendationSet{}
	err := s.scanPrefix(ctx, userPrefix(prefixSet, userID), func(val []byte) error {
		var set recommend.RecommendationSet
		if err := json.Unmarshal(val, &set); err != nil {
			return err
		}
		sets = append(sets, set)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate recommendation sets: %w", err)
	}
	return storage.SortSetsNewestFirst(sets, limit), nil
}

// SavePreference implements storage.Store.
//
//nolint:gocritic // hugeParam: pref passed by value for immutability
func (s *Store) SavePreference(_ context.Context, userID string, pref recommend.Preference) error {
	if s.isClosed() {
		return storage.ErrClosed
	}

	pref = storage.NormalizePreference(pref, s.now())
	key := userKey(prefixPref, userID, pref.SongID)
	data, err := json.Marshal(&pref)
	if err != nil {
		return fmt.Errorf("marshal preference: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return fmt.Errorf("read preference: %w", err)
		default:
			var prev recommend.Preference
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &prev) }); err != nil {
				return fmt.Errorf("decode preference: %w", err)
			}
			if pref.Timestamp.Before(prev.Timestamp) {
				return nil
			}
		}
		return txn.Set(key, data)
	})
}

// Preferences implements storage.Store.
func (s *Store) Preferences(ctx context.Context, userID string) ([]recommend.Preference, error) {
	if s.isClosed() {
		return nil, storage.ErrClosed
	}

	prefs := []recommend.Preference{}
	err := s.scanPrefix(ctx, userPrefix(prefixPref, userID), func(val []byte) error {
		var p recommend.Preference
		if err := json.Unmarshal(val, &p); err != nil {
			return err
		}
		prefs = append(prefs, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	storage.SortPreferences(prefs)
	return prefs, nil
}

// SaveQuestionnaire implements storage.Store.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (s *Store) SaveQuestionnaire(_ context.Context, q recommend.Questionnaire) (string, error) {
	if s.isClosed() {
		return "", storage.ErrClosed
	}

	q = storage.NormalizeQuestionnaire(q, s.now())
	data, err := json.Marshal(&q)
	if err != nil {
		return "", fmt.Errorf("marshal questionnaire: %w", err)
	}
	if err := s.update(func(txn *badger.Txn) error {
		return txn.Set(userKey(prefixQst, q.UserID, q.ID), data)
	}); err != nil {
		return "", fmt.Errorf("write questionnaire: %w", err)
	}
	return q.ID, nil
}

// Questionnaires implements storage.Store.
func (s *Store) Questionnaires(ctx context.Context, userID string, limit int) ([]recommend.Questionnaire, error) {
	if s.isClosed() {
		return nil, storage.ErrClosed
	}

	qs := []recommend.Questionnaire{}
	err := s.scanPrefix(ctx, userPrefix(prefixQst, userID), func(val []byte) error {
		var q recommend.Questionnaire
		if err := json.Unmarshal(val, &q); err != nil {
			return err
		}
		qs = append(qs, q)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate questionnaires: %w", err)
	}
	return storage.SortQuestionnairesNewestFirst(qs, limit), nil
}

// Ping implements storage.Store.
func (s *Store) Ping(_ context.Context) error {
	if s.isClosed() || s.db.IsClosed() {
		return storage.ErrClosed
	}
	return nil
}

// Close implements storage.Store. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	s.logger.Info().Msg("Badger store closed")
	return nil
}

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)
