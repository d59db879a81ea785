package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		o := sampleOrder()
		id, err := NewMongoRepository(mt.Coll).Create(context.Background(), o)
		require.NoError(mt, err)
		assert.Len(mt, id, 24)
		assert.Equal(mt, id, o.ID)
	})

	mt.Run("CreateError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		o := sampleOrder()
		id, err := NewMongoRepository(mt.Coll).Create(context.Background(), o)
		assert.Error(mt, err)
		assert.Empty(mt, id)
	})

	mt.Run("GetByID", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		oid := primitive.NewObjectID()
		created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "customer_name", Value: "Sipho"},
			{Key: "email", Value: "sipho@example.co.za"},
			{Key: "address", Value: "1 Main Road, Durban"},
			{Key: "items", Value: bson.A{bson.D{
				{Key: "product_id", Value: "p2"},
				{Key: "title", Value: "Street Runner V2"},
				{Key: "price_zar", Value: 1299.0},
				{Key: "quantity", Value: int32(1)},
				{Key: "size", Value: "8"},
				{Key: "image", Value: nil},
			}}},
			{Key: "subtotal_zar", Value: 1299.0},
			{Key: "shipping_zar", Value: 0.0},
			{Key: "total_zar", Value: 1299.0},
			{Key: "currency", Value: "ZAR"},
			{Key: "payment_plan", Value: bson.D{
				{Key: "plan_type", Value: "once_off"},
				{Key: "deposit_percent", Value: int32(0)},
				{Key: "months", Value: int32(1)},
				{Key: "monthly_amount", Value: 0.0},
			}},
			{Key: "status", Value: "pending"},
			{Key: "created_at", Value: created},
			{Key: "updated_at", Value: created},
		}))

		o, err := NewMongoRepository(mt.Coll).GetByID(context.Background(), oid.Hex())
		require.NoError(mt, err)

		assert.Equal(mt, oid.Hex(), o.ID)
		assert.Equal(mt, "Sipho", o.CustomerName)
		assert.Equal(mt, OnceOffPlan().Type, o.PaymentPlan.Type)
		assert.Equal(mt, 1, o.PaymentPlan.Months)
		assertDec(mt.T, "1299", o.Total)
		require.Len(mt, o.Items, 1)
		assert.Equal(mt, "8", *o.Items[0].Size)
		assert.Nil(mt, o.Items[0].Image)
		assert.True(mt, o.CreatedAt.Equal(created))
	})

	mt.Run("GetByIDNotFound", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewMongoRepository(mt.Coll).GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrOrderNotFound)
	})

	mt.Run("GetByIDMalformed", func(mt *mtest.T) {
		_, err := NewMongoRepository(mt.Coll).GetByID(context.Background(), "abc")
		assert.ErrorIs(mt, err, ErrOrderNotFound)
	})
}
