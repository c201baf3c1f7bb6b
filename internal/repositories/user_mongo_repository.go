package repositories

import (
	"context"
	"fmt"
	"time"

	"garden/internal/models"
	"garden/internal/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the MongoDB collection holding users.
const UsersCollection = "users"

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new instance of MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Version = 1
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err, "email"))
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, translate(err, "id"))
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "isDeleted", Value: 1}, {Key: "updatedAt", Value: -1}})
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, translate(err, "email"))
	}
	return &user, nil
}

func (r *MongoUserRepository) List(ctx context.Context, params query.Params) ([]models.User, int64, error) {
	filter := mongoFilter(bson.M{"isDeleted": false}, params)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	cursor, err := r.coll.Find(ctx, filter, mongoFindOptions(params))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, total, nil
}

// Update replaces the stored document when its version matches.
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	expected := user.Version
	user.Version = expected + 1
	user.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID, "version": expected}, user)
	if err != nil {
		user.Version = expected
		return fmt.Errorf("failed to update user: %w", translate(err, "email"))
	}
	if res.MatchedCount == 0 {
		user.Version = expected
		return mongoMissingOrConflict(ctx, r.coll, user.ID)
	}
	return nil
}

// mongoMissingOrConflict explains a guarded replace that matched nothing.
func mongoMissingOrConflict(ctx context.Context, coll *mongo.Collection, id string) error {
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("record %s: %w", id, ErrVersionConflict)
}

var _ UserRepository = (*MongoUserRepository)(nil)
