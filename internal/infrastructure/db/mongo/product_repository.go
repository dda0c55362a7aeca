package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
)

const (
	collectionProducts = "products"
	collectionBrands   = "brands"
)

type ProductRepository struct {
	col    *mongo.Collection
	brands *mongo.Collection
	seq    *Sequences
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		col:    db.Collection(collectionProducts),
		brands: db.Collection(collectionBrands),
		seq:    NewSequences(db),
	}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// Count returns the number of products whose brand name contains brand.
func (r *ProductRepository) Count(ctx context.Context, brand string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := append(brandPipeline(brand), bson.D{{Key: "$count", Value: "total"}})
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	defer cur.Close(ctx)

	var res struct {
		Total int64 `bson:"total"`
	}
	if !cur.Next(ctx) {
		return 0, cur.Err()
	}
	if err := cur.Decode(&res); err != nil {
		return 0, fmt.Errorf("decode product count: %w", err)
	}
	return res.Total, nil
}

// Search returns one window of the filtered products ordered by model. The
// identifier breaks ties so windows never overlap.
func (r *ProductRepository) Search(ctx context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, searchPipeline(f))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	products := []domain.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, brandPipeline(domain.AllBrands)...)
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		return nil, domain.ErrProductNotFound
	}
	var p domain.Product
	if err := cur.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &p, nil
}

// BrandNames returns every brand name in alphabetical order.
func (r *ProductRepository) BrandNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"name": 1})
	cur, err := r.brands.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	var brands []domain.Brand
	if err := cur.All(ctx, &brands); err != nil {
		return nil, fmt.Errorf("decode brands: %w", err)
	}
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		names = append(names, b.Name)
	}
	return names, nil
}

// CreateBrand inserts a brand, or returns the existing one with that name.
func (r *ProductRepository) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var existing domain.Brand
	err := r.brands.FindOne(ctx, bson.M{"name": name}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find brand: %w", err)
	}

	id, err := r.seq.Next(ctx, collectionBrands)
	if err != nil {
		return nil, err
	}
	b := &domain.Brand{ID: id, Name: name}
	if _, err := r.brands.InsertOne(ctx, b); err != nil {
		return nil, fmt.Errorf("insert brand: %w", err)
	}
	return b, nil
}

// CreateProduct assigns the product identifier and inserts it. The embedded
// Brand is not stored, only BrandID.
func (r *ProductRepository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.Next(ctx, collectionProducts)
	if err != nil {
		return nil, err
	}
	doc := *p
	doc.ID = id
	doc.Brand = nil
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	doc.Brand = p.Brand
	return &doc, nil
}

// EnsureIndexes creates necessary indexes on the catalog collections.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "model", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "brand_id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("product indexes: %w", err)
	}
	_, err := r.brands.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("brand indexes: %w", err)
	}
	return nil
}

// brandPipeline joins each product with its brand and keeps those whose
// brand name contains brand. Matching is case-sensitive.
func brandPipeline(brand string) mongo.Pipeline {
	p := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collectionBrands,
			"localField":   "brand_id",
			"foreignField": "_id",
			"as":           "brand",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$brand",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
	if brand != domain.AllBrands {
		p = append(p, bson.D{{Key: "$match", Value: bson.M{
			"brand.name": bson.M{"$regex": regexp.QuoteMeta(brand)},
		}}})
	}
	return p
}

func searchPipeline(f ports.ProductFilter) mongo.Pipeline {
	dir := 1
	if f.Order == domain.SortDesc {
		dir = -1
	}
	return append(brandPipeline(f.Brand),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "model", Value: dir}, {Key: "_id", Value: dir}}}},
		bson.D{{Key: "$skip", Value: f.Offset}},
		bson.D{{Key: "$limit", Value: f.Limit}},
	)
}
