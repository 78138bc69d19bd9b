package attestation

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/types"
)

// CollectionName is the MongoDB collection holding attestation records
const CollectionName = "attestations"

// MongoStorage implements StorageInterface on top of MongoDB.
type MongoStorage struct {
	db           *mongo.Database
	attestations *mongo.Collection
}

// Compile-time verification that MongoStorage implements StorageInterface
var _ StorageInterface = (*MongoStorage)(nil)

// NewMongoStorage constructs a new MongoStorage with the provided MongoDB database.
// Records are kept in the "attestations" collection.
//
// Parameters:
//   - db: A connected MongoDB database instance
//
// Returns:
//   - *MongoStorage: A new MongoStorage instance
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		db:           db,
		attestations: db.Collection(CollectionName),
	}
}

// EnsureIndexes creates a unique compound index on address and messageDigest,
// and an index on createdAt for sorted listing.
//
// Returns:
//   - error: An error if index creation fails, nil otherwise
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	proofIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "address", Value: 1},
			{Key: "messageDigest", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	createdIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}

	if _, err := s.attestations.Indexes().CreateMany(ctx, []mongo.IndexModel{proofIndex, createdIndex}); err != nil {
		return fmt.Errorf("failed to create indexes for attestations: %w", err)
	}
	return nil
}

// StoreAttestation upserts a record keyed by address and message digest, so
// attesting the same proof twice refreshes its timestamp.
func (s *MongoStorage) StoreAttestation(ctx context.Context, record *types.AttestationRecord) error {
	filter := bson.M{
		"address":       record.Address,
		"messageDigest": record.MessageDigest,
	}

	_, err := s.attestations.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store attestation: %w", err)
	}
	return nil
}

// DeleteAttestation deletes the record for address and messageDigest and
// reports whether one existed.
func (s *MongoStorage) DeleteAttestation(ctx context.Context, address, messageDigest string) (bool, error) {
	filter := bson.M{
		"address":       address,
		"messageDigest": messageDigest,
	}

	res, err := s.attestations.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to delete attestation: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// FindAttestations finds records matching the query, sorted by creation time
// (descending unless SortOrderAsc is requested) with optional pagination.
//
// Parameters:
//   - ctx: Context for the database operation
//   - query: AttestationQuery containing filter criteria and pagination options
//
// Returns:
//   - []*types.AttestationRecord: Matching records
//   - error: An error if the query operation fails, nil otherwise
func (s *MongoStorage) FindAttestations(ctx context.Context, query types.AttestationQuery) ([]*types.AttestationRecord, error) {
	mongoQuery := bson.M{}

	if query.Address != nil {
		mongoQuery["address"] = *query.Address
	}
	if query.MessageDigest != nil {
		mongoQuery["messageDigest"] = *query.MessageDigest
	}

	findOpts := options.Find()

	// Set sort order (default to descending by createdAt)
	sortOrder := -1
	if query.SortOrder != nil && *query.SortOrder == types.SortOrderAsc {
		sortOrder = 1
	}
	findOpts.SetSort(bson.D{{Key: "createdAt", Value: sortOrder}})

	if query.Skip != nil && *query.Skip > 0 {
		findOpts.SetSkip(int64(*query.Skip))
	}
	if query.Limit != nil && *query.Limit > 0 {
		findOpts.SetLimit(int64(*query.Limit))
	}

	cursor, err := s.attestations.Find(ctx, mongoQuery, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find attestations: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := make([]*types.AttestationRecord, 0)
	for cursor.Next(ctx) {
		var record types.AttestationRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to decode attestation: %w", err)
		}
		results = append(results, &record)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while finding attestations: %w", err)
	}
	return results, nil
}
