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
	"github.com/crud-app/records-api/internal/core/ports"
)

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	Name                     string             `bson:"name"`
	Email                    string             `bson:"email"`
	Password                 string             `bson:"password"`
	Role                     string             `bson:"role"`
	IsActive                 bool               `bson:"isActive"`
	IsEmailVerified          bool               `bson:"isEmailVerified"`
	EmailVerificationToken   string             `bson:"emailVerificationToken,omitempty"`
	EmailVerificationExpires *time.Time         `bson:"emailVerificationExpires,omitempty"`
	ResetPasswordToken       string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires     *time.Time         `bson:"resetPasswordExpires,omitempty"`
	LastLogin                *time.Time         `bson:"lastLogin,omitempty"`
	CreatedAt                time.Time          `bson:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt"`
}

func fromDomainUser(u *domain.User) mongoUser {
	doc := mongoUser{
		Name:                     u.Name,
		Email:                    u.Email,
		Password:                 u.PasswordHash,
		Role:                     u.Role,
		IsActive:                 u.IsActive,
		IsEmailVerified:          u.IsEmailVerified,
		EmailVerificationToken:   u.EmailVerificationToken,
		EmailVerificationExpires: zeroToNil(u.EmailVerificationExpires),
		ResetPasswordToken:       u.ResetPasswordToken,
		ResetPasswordExpires:     zeroToNil(u.ResetPasswordExpires),
		LastLogin:                u.LastLogin,
		CreatedAt:                u.CreatedAt.UTC(),
		UpdatedAt:                u.UpdatedAt.UTC(),
	}
	if oid, ok := objectID(u.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                       m.ID.Hex(),
		Name:                     m.Name,
		Email:                    m.Email,
		PasswordHash:             m.Password,
		Role:                     m.Role,
		IsActive:                 m.IsActive,
		IsEmailVerified:          m.IsEmailVerified,
		EmailVerificationToken:   m.EmailVerificationToken,
		EmailVerificationExpires: nilToZero(m.EmailVerificationExpires),
		ResetPasswordToken:       m.ResetPasswordToken,
		ResetPasswordExpires:     nilToZero(m.ResetPasswordExpires),
		LastLogin:                m.LastLogin,
		CreatedAt:                m.CreatedAt.UTC(),
		UpdatedAt:                m.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainUser(user)
	doc.ID = primitive.NewObjectID()
	if doc.Role == "" {
		doc.Role = domain.RoleUser
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	users, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	_, err := r.findAndSet(ctx, id, verificationTokenSet(tokenHash, expires))
	return err
}

// MarkVerified matches the hashed OTP only while its window is open, so a
// replaced or expired code never activates the account.
func (r *UserRepository) MarkVerified(ctx context.Context, id, tokenHash string, now time.Time) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok || tokenHash == "" {
		return nil, domain.ErrUserNotFound
	}
	filter := bson.M{
		"_id":                      oid,
		"emailVerificationToken":   tokenHash,
		"emailVerificationExpires": bson.M{"$gt": now.UTC()},
	}
	return r.findAndUpdate(ctx, filter, verifiedUpdate(now))
}

func (r *UserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.findAndSet(ctx, id, bson.M{"lastLogin": at.UTC()})
	return err
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	_, err := r.findAndSet(ctx, id, resetTokenSet(tokenHash, expires))
	return err
}

// ResetPassword finds and consumes the reset token in one write. Two requests
// racing on the same token cannot both succeed.
func (r *UserRepository) ResetPassword(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	if tokenHash == "" {
		return nil, domain.ErrUserNotFound
	}
	filter := bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": bson.M{"$gt": now.UTC()},
	}
	return r.findAndUpdate(ctx, filter, passwordResetUpdate(passwordHash, now))
}

func verificationTokenSet(tokenHash string, expires time.Time) bson.M {
	return bson.M{
		"emailVerificationToken":   tokenHash,
		"emailVerificationExpires": expires.UTC(),
	}
}

func resetTokenSet(tokenHash string, expires time.Time) bson.M {
	return bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": expires.UTC(),
	}
}

func verifiedUpdate(now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"isEmailVerified": true,
			"isActive":        true,
			"updatedAt":       now.UTC(),
		},
		"$unset": bson.M{
			"emailVerificationToken":   "",
			"emailVerificationExpires": "",
		},
	}
}

func passwordResetUpdate(passwordHash string, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"password":  passwordHash,
			"updatedAt": now.UTC(),
		},
		"$unset": bson.M{
			"resetPasswordToken":   "",
			"resetPasswordExpires": "",
		},
	}
}

func (r *UserRepository) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	return r.findAndSet(ctx, id, bson.M{"role": role})
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	return r.findAndSet(ctx, id, bson.M{"isActive": active})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List returns one page of users sorted by createdAt descending.
func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	users, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context, f ports.UserCountFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, userCountFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func userCountFilter(f ports.UserCountFilter) bson.M {
	filter := bson.M{}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	if f.Verified != nil {
		filter["isEmailVerified"] = *f.Verified
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if !f.CreatedSince.IsZero() {
		filter["createdAt"] = bson.M{"$gte": f.CreatedSince.UTC()}
	}
	return filter
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "emailVerificationToken", Value: 1}}},
		{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := r.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (r *UserRepository) findAndSet(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	set["updatedAt"] = time.Now().UTC()
	return r.findAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

// findAndUpdate applies update to the first document matching filter and
// returns it as written.
func (r *UserRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}
