// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/soundcluster/internal/config"
	"github.com/tomtom215/soundcluster/internal/recommend"
	"github.com/tomtom215/soundcluster/internal/storage"
)

// Collection names.
const (
	CollectionSongs          = "songs"
	CollectionSets           = "recommendation_sets"
	CollectionPreferences    = "preferences"
	CollectionQuestionnaires = "questionnaires"
)

// disconnectTimeout bounds Close.
const disconnectTimeout = 10 * time.Second

// preferenceDoc is the stored form of a preference. recommend.Preference
// carries no user id, so the document adds it.
type preferenceDoc struct {
	UserID    string    `bson:"userId"`
	SongID    string    `bson:"songId"`
	Liked     bool      `bson:"liked"`
	Timestamp time.Time `bson:"timestamp"`
}

// Store is a storage.Store backed by MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	songs  *mongo.Collection
	sets   *mongo.Collection
	prefs  *mongo.Collection
	qs     *mongo.Collection
	logger zerolog.Logger
	closed atomic.Bool

	now func() time.Time
}

// Open connects to MongoDB, verifies the primary is reachable and ensures
// the indexes the Store relies on.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, cfg *config.MongoConfig, logger zerolog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo config is required")
	}
	if cfg.URI == "" || cfg.Database == "" {
		return nil, fmt.Errorf("mongo uri and database are required")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // best effort after failed ping
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		db:     db,
		songs:  db.Collection(CollectionSongs),
		sets:   db.Collection(CollectionSets),
		prefs:  db.Collection(CollectionPreferences),
		qs:     db.Collection(CollectionQuestionnaires),
		logger: logger.With().Str("component", "mongo").Logger(),
		now:    time.Now,
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // best effort after failed setup
		return nil, err
	}

	s.logger.Info().Str("database", cfg.Database).Msg("MongoDB store connected")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.songs, mongo.IndexModel{
			Keys:    bson.D{{Key: "spotifyId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_spotify_id"),
		}},
		{s.sets, mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_user_idempotency_key").
				SetPartialFilterExpression(bson.D{{Key: "idempotencyKey", Value: bson.D{{Key: "$exists", Value: true}}}}),
		}},
		{s.sets, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("user_created"),
		}},
		{s.prefs, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "songId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_song"),
		}},
		{s.qs, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("user_submitted"),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// UpsertSongs implements storage.Store.
func (s *Store) UpsertSongs(ctx context.Context, songs []recommend.Song) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrClosed
	}

	models := make([]mongo.WriteModel, 0, len(songs))
	seen := make(map[string]struct{}, len(songs))
	for i := range songs {
		if songs[i].SpotifyID == "" {
			continue
		}
		seen[songs[i].SpotifyID] = struct{}{}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "spotifyId", Value: songs[i].SpotifyID}}).
			SetReplacement(songs[i]).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return 0, nil
	}

	// Ordered so a repeated id in one batch resolves to its last occurrence.
	if _, err := s.songs.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return 0, fmt.Errorf("upsert songs: %w", err)
	}
	return len(seen), nil
}

// Songs implements storage.Store.
func (s *Store) Songs(ctx context.Context) ([]recommend.Song, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "spotifyId", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
	cur, err := s.songs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find songs: %w", err)
	}

	var songs []recommend.Song
	if err := cur.All(ctx, &songs); err != nil {
		return nil, fmt.Errorf("decode songs: %w", err)
	}
	return songs, nil
}

// CountSongs implements storage.Store.
func (s *Store) CountSongs(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrClosed
	}
	n, err := s.songs.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return int(n), nil
}

// InsertRecommendationSet implements recommend.SetStore. Uniqueness of
// (userId, idempotencyKey) is enforced by a partial unique index; sets
// without a key omit the field and are never rejected.
func (s *Store) InsertRecommendationSet(ctx context.Context, set *recommend.RecommendationSet) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}

	stored := *set
	if stored.Timestamp.IsZero() {
		stored.Timestamp = s.now().UTC()
	}
	stored.Timestamp = stored.Timestamp.Truncate(time.Millisecond)

	if _, err := s.sets.InsertOne(ctx, &stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s key %s: %w", set.UserID, set.IdempotencyKey, recommend.ErrDuplicateSet)
		}
		return fmt.Errorf("insert recommendation set: %w", err)
	}
	return nil
}

// RecommendationSets implements storage.Store.
func (s *Store) RecommendationSets(ctx context.Context, userID string, limit int) ([]recommend.RecommendationSet, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.sets.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recommendation sets: %w", err)
	}

	sets := []recommend.RecommendationSet{}
	if err := cur.All(ctx, &sets); err != nil {
		return nil, fmt.Errorf("decode recommendation sets: %w", err)
	}
	return sets, nil
}

// SavePreference implements storage.Store. The upsert only matches a stored
// rating that is not newer; when a newer one exists the upsert attempts an
// insert, hits the unique index and the write is dropped.
//
//nolint:gocritic // hugeParam: pref passed by value for immutability
func (s *Store) SavePreference(ctx context.Context, userID string, pref recommend.Preference) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}

	pref = storage.NormalizePreference(pref, s.now())
	doc := preferenceDoc{
		UserID:    userID,
		SongID:    pref.SongID,
		Liked:     pref.Liked,
		Timestamp: pref.Timestamp.UTC().Truncate(time.Millisecond),
	}

	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "songId", Value: pref.SongID},
		{Key: "timestamp", Value: bson.D{{Key: "$lte", Value: doc.Timestamp}}},
	}
	_, err := s.prefs.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		s.logger.Debug().
			Str("user_id", userID).
			Str("song_id", pref.SongID).
			Msg("Ignoring preference older than stored rating")
		return nil
	default:
		return fmt.Errorf("save preference: %w", err)
	}
}

// Preferences implements storage.Store.
func (s *Store) Preferences(ctx context.Context, userID string) ([]recommend.Preference, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "songId", Value: 1}})
	cur, err := s.prefs.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find preferences: %w", err)
	}

	var docs []preferenceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}

	prefs := make([]recommend.Preference, 0, len(docs))
	for _, d := range docs {
		prefs = append(prefs, recommend.Preference{SongID: d.SongID, Liked: d.Liked, Timestamp: d.Timestamp})
	}
	return prefs, nil
}

// SaveQuestionnaire implements storage.Store.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (s *Store) SaveQuestionnaire(ctx context.Context, q recommend.Questionnaire) (string, error) {
	if s.closed.Load() {
		return "", storage.ErrClosed
	}

	q = storage.NormalizeQuestionnaire(q, s.now())
	if _, err := s.qs.InsertOne(ctx, &q); err != nil {
		return "", fmt.Errorf("insert questionnaire: %w", err)
	}
	return q.ID, nil
}

// Questionnaires implements storage.Store.
func (s *Store) Questionnaires(ctx context.Context, userID string, limit int) ([]recommend.Questionnaire, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.qs.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find questionnaires: %w", err)
	}

	qs := []recommend.Questionnaire{}
	if err := cur.All(ctx, &qs); err != nil {
		return nil, fmt.Errorf("decode questionnaires: %w", err)
	}
	return qs, nil
}

// Ping implements storage.Store.
func (s *Store) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Drop removes the database. Used by tests to discard per-test databases.
func (s *Store) Drop(ctx context.Context) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	return s.db.Drop(ctx)
}

// Close implements storage.Store. It is safe to call more than once.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	s.logger.Info().Msg("MongoDB store closed")
	return nil
}

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)
