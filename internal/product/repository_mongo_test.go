package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("List", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		oid := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "Classic SA Hoodie"},
			{Key: "brand", Value: "Mzansi Threads"},
			{Key: "category", Value: "clothing"},
			{Key: "price_zar", Value: 799.0},
			{Key: "images", Value: bson.A{"https://img/1.jpg"}},
			{Key: "sizes", Value: bson.A{"S", "M"}},
			{Key: "in_stock", Value: true},
		}))

		repo := NewMongoRepository(mt.Coll)
		res, err := repo.List(context.Background(), Filter{Query: "hoodie", Category: "clothing"})
		require.NoError(mt, err)
		require.Len(mt, res, 1)

		assert.Equal(mt, oid.Hex(), res[0].ID)
		assert.Equal(mt, "Mzansi Threads", *res[0].Brand)
		assert.Nil(mt, res[0].Description)
		assert.True(mt, res[0].Price.Equal(decimal.NewFromInt(799)))
		assert.Equal(mt, []string{"S", "M"}, res[0].Sizes)
	})

	mt.Run("ListError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    51091,
			Message: "Regular expression is invalid: missing terminating ] for character class",
			Name:    "Location51091",
		}))

		_, err := NewMongoRepository(mt.Coll).List(context.Background(), Filter{Query: "(["})
		assert.Error(mt, err)
	})

	mt.Run("IsEmpty", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "n", Value: int32(1)},
		}))

		empty, err := NewMongoRepository(mt.Coll).IsEmpty(context.Background())
		assert.NoError(mt, err)
		assert.False(mt, empty)
	})

	mt.Run("Create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := DemoProducts()[1]
		id, err := NewMongoRepository(mt.Coll).Create(context.Background(), &p)
		assert.NoError(mt, err)
		assert.Len(mt, id, 24)
		assert.Equal(mt, id, p.ID)
	})

	mt.Run("CreateInvalid", func(mt *mtest.T) {
		_, err := NewMongoRepository(mt.Coll).Create(context.Background(), &Product{Title: "x", Category: "hats"})
		assert.ErrorIs(mt, err, ErrInvalidCategory)
	})

	mt.Run("CreateMany", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		demo := DemoProducts()
		products := []*Product{&demo[0], &demo[1], &demo[2]}
		err := NewMongoRepository(mt.Coll).CreateMany(context.Background(), products)
		require.NoError(mt, err)
		for _, p := range products {
			assert.Len(mt, p.ID, 24)
		}
	})

	mt.Run("CreateManyUndoesPartialInsert", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 1, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		demo := DemoProducts()
		products := []*Product{&demo[0], &demo[1], &demo[2]}
		err := NewMongoRepository(mt.Coll).CreateMany(context.Background(), products)
		assert.Error(mt, err)
		for _, p := range products {
			assert.Empty(mt, p.ID)
		}

		started := mt.GetAllStartedEvents()
		require.Len(mt, started, 2)
		assert.Equal(mt, "insert", started[0].CommandName)
		assert.Equal(mt, "delete", started[1].CommandName)
	})
}
