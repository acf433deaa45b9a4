package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/model"
)

// MongoUserRepo is the MongoDB-backed credential store. User records
// live in the `users` collection; ids are ObjectID hex strings.
type MongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo wraps the users collection and ensures the unique
// email index exists. Index creation failure is not fatal here; the
// duplicate-key path in Create still guards correctness.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	col := db.Collection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &MongoUserRepo{col: col}
}

// mongoUser is the persisted document shape. The string ID on
// model.UserIdentity maps to the ObjectID primary key.
type mongoUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Name          string             `bson:"name"`
	PasswordHash  string             `bson:"password_hash"`
	Role          string             `bson:"role"`
	IsActive      bool               `bson:"is_active"`
	LoginAttempts int                `bson:"login_attempts"`
	LockUntil     *time.Time         `bson:"lock_until,omitempty"`
	LastLogin     *time.Time         `bson:"last_login,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *mongoUser) toModel(includeHash bool) *model.UserIdentity {
	u := &model.UserIdentity{
		ID:            d.ID.Hex(),
		Email:         d.Email,
		Name:          d.Name,
		Role:          d.Role,
		IsActive:      d.IsActive,
		LoginAttempts: d.LoginAttempts,
		LockUntil:     d.LockUntil,
		LastLogin:     d.LastLogin,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if includeHash {
		u.PasswordHash = d.PasswordHash
	}
	return u
}

// FindByEmail fetches a user document by normalized email.
func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string, includeHash bool) (*model.UserIdentity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var doc mongoUser
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toModel(includeHash), nil
}

// FindByID fetches a user document by its ObjectID hex string.
func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (*model.UserIdentity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, auth.ErrUserNotFound
	}
	var doc mongoUser
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toModel(false), nil
}

// Create inserts a user document and writes the generated ObjectID
// back onto the identity.
func (r *MongoUserRepo) Create(ctx context.Context, u *model.UserIdentity) error {
	now := time.Now().UTC()
	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	u.ID = doc.ID.Hex()
	u.Email = doc.Email
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// RecordFailure increments login_attempts with an atomic $inc and
// returns the post-increment value from the updated document.
func (r *MongoUserRepo) RecordFailure(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, auth.ErrUserNotFound
	}
	var doc mongoUser
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"login_attempts": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, auth.ErrUserNotFound
		}
		return 0, err
	}
	return doc.LoginAttempts, nil
}

// SetLock stamps the lock expiry on the document.
func (r *MongoUserRepo) SetLock(ctx context.Context, id string, until time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"lock_until": until, "updated_at": time.Now().UTC()},
	})
	return err
}

// RecordSuccess clears the lockout fields and stamps last_login.
func (r *MongoUserRepo) RecordSuccess(ctx context.Context, id string, lastLogin time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return auth.ErrUserNotFound
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":   bson.M{"login_attempts": 0, "last_login": lastLogin, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"lock_until": ""},
	})
	return err
}
