// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pdiddy/research-collector/pkg/types"
)

// statsScanLimit bounds the stats queries so a large store cannot stall
// the interactive path.
const statsScanLimit = 1000

// timeNow is the storage clock; tests substitute a fixed one.
var timeNow = time.Now

// MongoStore persists records in MongoDB collections. It is the primary
// backend: one document per paper keyed by _id, one per session.
type MongoStore struct {
	client   *mongo.Client
	papers   *mongo.Collection
	sessions *mongo.Collection
}

// OpenMongo connects to MongoDB and verifies the connection with a ping.
func OpenMongo(ctx context.Context, cfg types.StoreConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo store requires a connection URI")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = "research"
	}
	db := client.Database(dbName)

	return &MongoStore{
		client:   client,
		papers:   db.Collection(papersCollection),
		sessions: db.Collection(sessionsCollection),
	}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// StoreBatch upserts the records in one bulk write. The write is not
// all-or-nothing: MongoDB applies bulk operations individually, so on a
// mid-batch error the earlier upserts remain and the returned count
// reflects what was actually written.
func (s *MongoStore) StoreBatch(ctx context.Context, records []types.PaperRecord, topic, sessionID string) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("no paper records to store")
	}

	now := timeNow()
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		rec.ResearchTopic = topic
		rec.SessionID = sessionID
		rec.StoredAt = now
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rec.ID}).
			SetReplacement(rec).
			SetUpsert(true))
	}

	res, err := s.papers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		written := 0
		if res != nil {
			written = int(res.UpsertedCount + res.ModifiedCount + res.MatchedCount)
		}
		return written, fmt.Errorf("bulk writing papers: %w", err)
	}
	return len(records), nil
}

// StoreSession upserts one session summary document.
func (s *MongoStore) StoreSession(ctx context.Context, session types.Session) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.sessions.ReplaceOne(ctx, bson.M{"_id": session.SessionID}, session, opts); err != nil {
		return fmt.Errorf("storing session %s: %w", session.SessionID, err)
	}
	return nil
}

// Stats counts stored papers and groups them by source and primary
// category via aggregation.
func (s *MongoStore) Stats(ctx context.Context) (types.StoreStats, error) {
	total, err := s.papers.CountDocuments(ctx, bson.M{})
	if err != nil {
		return types.StoreStats{}, fmt.Errorf("counting papers: %w", err)
	}

	bySource, err := s.groupCount(ctx, "$source")
	if err != nil {
		return types.StoreStats{}, err
	}
	byCategory, err := s.groupCount(ctx, "$primary_category")
	if err != nil {
		return types.StoreStats{}, err
	}

	return types.StoreStats{
		TotalPapers:      int(total),
		PapersBySource:   bySource,
		PapersByCategory: byCategory,
	}, nil
}

// groupCount aggregates document counts grouped by the given field path.
func (s *MongoStore) groupCount(ctx context.Context, field string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$limit", Value: statsScanLimit}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := s.papers.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating papers by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			Key   string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding aggregation row: %w", err)
		}
		key := row.Key
		if key == "" {
			key = "unknown"
		}
		counts[key] = row.Count
	}
	return counts, cursor.Err()
}

// RecentSessions returns the newest sessions first.
func (s *MongoStore) RecentSessions(ctx context.Context, limit int) ([]types.Session, error) {
	if limit <= 0 {
		limit = 5
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.sessions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []types.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decoding sessions: %w", err)
	}
	return sessions, nil
}

// ListPapers returns stored records, filtered by research topic when
// topic is non-empty.
func (s *MongoStore) ListPapers(ctx context.Context, topic string, limit int) ([]types.PaperRecord, error) {
	if limit <= 0 {
		limit = statsScanLimit
	}
	filter := bson.M{}
	if topic != "" {
		filter["research_topic"] = topic
	}

	cursor, err := s.papers.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer cursor.Close(ctx)

	var records []types.PaperRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decoding papers: %w", err)
	}
	return records, nil
}
