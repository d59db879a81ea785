package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDocument is the stored shape of a product in MongoDB.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Brand       *string            `bson:"brand"`
	Description *string            `bson:"description"`
	Category    string             `bson:"category"`
	PriceZAR    float64            `bson:"price_zar"`
	Images      []string           `bson:"images"`
	Sizes       []string           `bson:"sizes"`
	InStock     bool               `bson:"in_stock"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDocument) toProduct() *Product {
	return &Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Brand:       d.Brand,
		Description: d.Description,
		Category:    Category(d.Category),
		Price:       decimal.NewFromFloat(d.PriceZAR),
		Images:      d.Images,
		Sizes:       d.Sizes,
		InStock:     d.InStock,
	}
}

type mongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll, now: time.Now}
}

func caseInsensitive(pattern string) bson.M {
	return bson.M{"$regex": pattern, "$options": "i"}
}

func (r *mongoRepository) List(ctx context.Context, filter Filter) ([]*Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Query != "" {
		query["$or"] = bson.A{
			bson.M{"title": caseInsensitive(filter.Query)},
			bson.M{"brand": caseInsensitive(filter.Query)},
			bson.M{"description": caseInsensitive(filter.Query)},
		}
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]*Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toProduct())
	}
	return products, nil
}

func (r *mongoRepository) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *mongoRepository) newDocument(p *Product, now time.Time) productDocument {
	return productDocument{
		Title:       p.Title,
		Brand:       p.Brand,
		Description: p.Description,
		Category:    string(p.Category),
		PriceZAR:    p.Price.InexactFloat64(),
		Images:      nonNil(p.Images),
		Sizes:       nonNil(p.Sizes),
		InStock:     p.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *mongoRepository) Create(ctx context.Context, p *Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	res, err := r.coll.InsertOne(ctx, r.newDocument(p, r.now().UTC()))
	if err != nil {
		return "", err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}

	p.ID = oid.Hex()
	return p.ID, nil
}

// CreateMany inserts all products with a single InsertMany. When the insert
// fails part way, the documents that did land are removed again so the
// collection is left as it was.
func (r *mongoRepository) CreateMany(ctx context.Context, products []*Product) error {
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%q: %w", p.Title, err)
		}
	}
	if len(products) == 0 {
		return nil
	}

	now := r.now().UTC()
	ids := make([]primitive.ObjectID, len(products))
	docs := make([]interface{}, len(products))
	for i, p := range products {
		doc := r.newDocument(p, now)
		doc.ID = primitive.NewObjectID()
		ids[i] = doc.ID
		docs[i] = doc
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if _, derr := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); derr != nil {
			return errors.Join(err, fmt.Errorf("undo partial insert: %w", derr))
		}
		return err
	}

	for i, p := range products {
		p.ID = ids[i].Hex()
	}
	return nil
}
