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

// PostsCollection is the MongoDB collection holding posts and their comments.
const PostsCollection = "posts"

// MongoPostRepository is a MongoDB implementation of PostRepository.
type MongoPostRepository struct {
	posts *mongo.Collection
	users *mongo.Collection
}

// NewMongoPostRepository creates a new instance of MongoPostRepository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		posts: db.Collection(PostsCollection),
		users: db.Collection(UsersCollection),
	}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Version = 1
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", translate(err, "id"))
	}
	return nil
}

func (r *MongoPostRepository) findOne(ctx context.Context, filter bson.M) (*models.Post, error) {
	var post models.Post
	if err := r.posts.FindOne(ctx, filter).Decode(&post); err != nil {
		return nil, translate(err, "id")
	}
	posts := []models.Post{post}
	if err := r.attachAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := r.findOne(ctx, bson.M{"_id": id, "isDeleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return post, nil
}

func (r *MongoPostRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*models.Post, error) {
	post, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return post, nil
}

func (r *MongoPostRepository) List(ctx context.Context, params query.Params) ([]models.Post, int64, error) {
	filter := mongoFilter(bson.M{"isDeleted": false}, params)

	total, err := r.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	posts, err := r.find(ctx, filter, mongoFindOptions(params))
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *MongoPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"authorId": authorID, "isDeleted": false}, opts)
}

func (r *MongoPostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}, "isDeleted": false}, opts)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	if err := r.attachAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachAuthors joins author summaries onto posts with a single users query.
func (r *MongoPostRepository) attachAuthors(ctx context.Context, posts []models.Post) error {
	ids := authorIDs(posts)
	if len(ids) == 0 {
		return nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1})
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return fmt.Errorf("failed to load post authors: %w", err)
	}
	var authors []models.UserSummary
	if err := cursor.All(ctx, &authors); err != nil {
		return fmt.Errorf("failed to decode post authors: %w", err)
	}
	byID := make(map[string]models.UserSummary, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	for i := range posts {
		if a, ok := byID[posts[i].AuthorID]; ok {
			author := a
			posts[i].Author = &author
		}
	}
	return nil
}

func authorIDs(posts []models.Post) []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range posts {
		if p.AuthorID != "" && !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	return ids
}

// Update replaces the stored document when its version matches.
func (r *MongoPostRepository) Update(ctx context.Context, post *models.Post) error {
	expected := post.Version
	post.Version = expected + 1
	post.UpdatedAt = time.Now().UTC()

	res, err := r.posts.ReplaceOne(ctx, bson.M{"_id": post.ID, "version": expected}, post)
	if err != nil {
		post.Version = expected
		return fmt.Errorf("failed to update post: %w", translate(err, "id"))
	}
	if res.MatchedCount == 0 {
		post.Version = expected
		return mongoMissingOrConflict(ctx, r.posts, post.ID)
	}
	return nil
}

func (r *MongoPostRepository) IncrementVote(ctx context.Context, id string, vote Vote) error {
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": id, "isDeleted": false}, voteUpdate(vote, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to vote on post %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

func voteUpdate(vote Vote, now time.Time) bson.M {
	counter := "upVoteCount"
	if vote == DownVote {
		counter = "downVoteCount"
	}
	return bson.M{
		"$inc": bson.M{counter: 1, "version": 1},
		"$set": bson.M{"updatedAt": now},
	}
}

var _ PostRepository = (*MongoPostRepository)(nil)
