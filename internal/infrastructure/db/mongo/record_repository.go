package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crud-app/records-api/internal/core/domain"
)

const recordsCollection = "data"

type RecordRepository struct {
	col *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(recordsCollection)}
}

type mongoRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	User           primitive.ObjectID `bson:"user"`
	Username       string             `bson:"username"`
	Age            int                `bson:"age"`
	Specialization string             `bson:"specialization"`
	Address        string             `bson:"address"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (m mongoRecord) toDomain() *domain.Record {
	return &domain.Record{
		ID:             m.ID.Hex(),
		UserID:         m.User.Hex(),
		Username:       m.Username,
		Age:            m.Age,
		Specialization: m.Specialization,
		Address:        m.Address,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

// scopedFilter matches id and, when ownerID is non-empty, the owning user.
// ok is false when either id cannot name a document.
func scopedFilter(id, ownerID string) (bson.M, bool) {
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		owner, ok := objectID(ownerID)
		if !ok {
			return nil, false
		}
		filter["user"] = owner
	}
	return filter, true
}

// Create inserts a new record document.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	owner, ok := objectID(rec.UserID)
	if !ok {
		return nil, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoRecord{
		ID:             primitive.NewObjectID(),
		User:           owner,
		Username:       rec.Username,
		Age:            rec.Age,
		Specialization: rec.Specialization,
		Address:        rec.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByOwner returns every record of ownerID, newest first.
func (r *RecordRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Record, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return []*domain.Record{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"user": owner}, opts)
}

// FindByID retrieves a record by id.
// When ownerID is non-empty, an additional filter by user is applied.
func (r *RecordRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Record, error) {
	filter, ok := scopedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRecord
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return m.toDomain(), nil
}

func (r *RecordRepository) Update(ctx context.Context, id, ownerID string, f domain.RecordFields) (*domain.Record, error) {
	filter, ok := scopedFilter(id, ownerID)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"username":       f.Username,
		"age":            f.Age,
		"specialization": f.Specialization,
		"address":        f.Address,
		"updatedAt":      time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m mongoRecord
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("update record: %w", err)
	}
	return m.toDomain(), nil
}

func (r *RecordRepository) Delete(ctx context.Context, id, ownerID string) error {
	filter, ok := scopedFilter(id, ownerID)
	if !ok {
		return domain.ErrRecordNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, ok := objectID(ownerID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"user": owner})
	if err != nil {
		return 0, fmt.Errorf("delete records by owner: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *RecordRepository) Count(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if !since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": since.UTC()}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (r *RecordRepository) Recent(ctx context.Context, n int) ([]*domain.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(n))
	return r.find(ctx, bson.M{}, opts)
}

// EnsureIndexes creates necessary indexes on the data collection.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *RecordRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	out := make([]*domain.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
