package repositories_test

import (
	"context"
	"testing"

	"garden/internal/models"
	"garden/internal/query"
	"garden/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func matched(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// counted answers the aggregate behind CountDocuments.
func counted(ns string, n int) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func findFilter(mt *mtest.T) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	require.Equal(mt, "find", evt.CommandName)
	return evt.Command.Lookup("filter").Document()
}

func TestMongoUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	mt := newMockMongo(t)

	mt.Run("matching version replaces the document", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(matched(1))

		user := &models.User{ID: "u1", Name: "Alice", Version: 3}
		require.NoError(mt, repo.Update(ctx, user))
		assert.Equal(mt, 4, user.Version)
		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
	})

	mt.Run("stale version is a conflict", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(matched(0), counted("test.users", 1))

		user := &models.User{ID: "u1", Name: "Alice", Version: 3}
		err := repo.Update(ctx, user)
		assert.ErrorIs(mt, err, repositories.ErrVersionConflict)
		assert.Equal(mt, 3, user.Version)

		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
		count := mt.GetStartedEvent()
		require.NotNil(mt, count)
		assert.Equal(mt, "aggregate", count.CommandName)
		assert.Equal(mt, "u1", count.Command.Lookup("pipeline", "0", "$match", "_id").StringValue())
	})

	mt.Run("missing document is not found", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(matched(0), counted("test.users", 0))

		user := &models.User{ID: "ghost", Version: 1}
		err := repo.Update(ctx, user)
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
		assert.Equal(mt, 1, user.Version)
	})

	mt.Run("duplicate email keeps the old version", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: email_1",
		}))

		user := &models.User{ID: "u1", Email: "taken@x.com", Version: 2}
		err := repo.Update(ctx, user)
		assert.ErrorIs(mt, err, repositories.ErrDuplicateKey)
		var dup *repositories.DuplicateKeyError
		require.ErrorAs(mt, err, &dup)
		assert.Equal(mt, "email", dup.Field)
		assert.Equal(mt, 2, user.Version)
	})
}

func TestMongoUserRepository_ListSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	mt := newMockMongo(t)

	mt.Run("list", func(mt *mtest.T) {
		repo := repositories.NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(
			counted("test.users", 1),
			mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "u1"}, {Key: "name", Value: "Alice"}, {Key: "isDeleted", Value: false}}),
		)

		params, err := query.Parse(map[string]string{}, query.UserSchema)
		require.NoError(mt, err)
		users, total, err := repo.List(ctx, params)
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, total)
		require.Len(mt, users, 1)
		assert.Equal(mt, "Alice", users[0].Name)

		count := mt.GetStartedEvent()
		require.NotNil(mt, count)
		assert.False(mt, count.Command.Lookup("pipeline", "0", "$match", "isDeleted").Boolean())
		assert.False(mt, findFilter(mt).Lookup("isDeleted").Boolean())
	})
}

func TestMongoPostRepository_Update(t *testing.T) {
	ctx := context.Background()
	mt := newMockMongo(t)

	mt.Run("stale version is a conflict", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(matched(0), counted("test.posts", 1))

		post := &models.Post{ID: "p1", Title: "Tomatoes", Version: 5}
		err := repo.Update(ctx, post)
		assert.ErrorIs(mt, err, repositories.ErrVersionConflict)
		assert.Equal(mt, 5, post.Version)
	})

	mt.Run("missing post is not found", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(matched(0), counted("test.posts", 0))

		err := repo.Update(ctx, &models.Post{ID: "ghost", Version: 1})
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})

	mt.Run("vote on a missing or deleted post is not found", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(matched(0))

		err := repo.IncrementVote(ctx, "p1", repositories.UpVote)
		assert.ErrorIs(mt, err, repositories.ErrNotFound)
	})
}

func TestMongoPostRepository_SoftDeleteFilters(t *testing.T) {
	ctx := context.Background()
	mt := newMockMongo(t)

	mt.Run("GetByID hides deleted posts", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "p1")
		assert.ErrorIs(mt, err, repositories.ErrNotFound)

		filter := findFilter(mt)
		assert.Equal(mt, "p1", filter.Lookup("_id").StringValue())
		assert.False(mt, filter.Lookup("isDeleted").Boolean())
	})

	mt.Run("GetByIDIncludingDeleted returns deleted posts", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "p1"},
				{Key: "authorId", Value: "u1"},
				{Key: "title", Value: "Tomatoes"},
				{Key: "isDeleted", Value: true},
				{Key: "version", Value: 2},
			}),
			mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "u1"}, {Key: "name", Value: "Alice"}}),
		)

		post, err := repo.GetByIDIncludingDeleted(ctx, "p1")
		require.NoError(mt, err)
		assert.True(mt, post.IsDeleted)
		assert.Equal(mt, 2, post.Version)
		require.NotNil(mt, post.Author)
		assert.Equal(mt, "Alice", post.Author.Name)

		_, missing := findFilter(mt).LookupErr("isDeleted")
		assert.Error(mt, missing)
	})

	mt.Run("ListByAuthor skips deleted posts", func(mt *mtest.T) {
		repo := repositories.NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch))

		posts, err := repo.ListByAuthor(ctx, "u1")
		require.NoError(mt, err)
		assert.Empty(mt, posts)

		filter := findFilter(mt)
		assert.Equal(mt, "u1", filter.Lookup("authorId").StringValue())
		assert.False(mt, filter.Lookup("isDeleted").Boolean())
	})
}
