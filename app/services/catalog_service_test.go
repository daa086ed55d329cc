package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	categories map[string]*models.Category
}

func newFakeCategoryRepo(categories ...*models.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: map[string]*models.Category{}}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (f *fakeCategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) GetListed(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		if c.IsListed {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Category, int64, error) {
	all, _ := f.GetAll(ctx)
	return all, int64(len(all)), nil
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepo) SetListed(ctx context.Context, id string, listed bool) error {
	if c, ok := f.categories[id]; ok {
		c.IsListed = listed
	}
	return nil
}

func TestApplyBestOfferTakesLargerOffer(t *testing.T) {
	ctx := context.Background()
	category := &models.Category{ID: "cat-1", Name: "Shirts", CategoryOffer: 20, IsListed: true}
	svc := NewCatalogService(newFakeProductRepo(), newFakeCategoryRepo(category))

	product := &models.Product{
		CategoryID:   "cat-1",
		RegularPrice: decimal.NewFromInt(1000),
		ProductOffer: 10,
	}
	require.NoError(t, svc.ApplyBestOffer(ctx, product))
	assert.Equal(t, 20, product.EffectiveOffer)
	assert.True(t, product.SalePrice.Equal(decimal.NewFromInt(800)), "got %s", product.SalePrice)

	product.ProductOffer = 30
	require.NoError(t, svc.ApplyBestOffer(ctx, product))
	assert.Equal(t, 30, product.EffectiveOffer)
	assert.True(t, product.SalePrice.Equal(decimal.NewFromInt(700)))
}

func TestSaveProductPricesBeforePersisting(t *testing.T) {
	ctx := context.Background()
	category := &models.Category{ID: "cat-1", Name: "Shirts", CategoryOffer: 0, IsListed: true}
	products := newFakeProductRepo()
	svc := NewCatalogService(products, newFakeCategoryRepo(category))

	product := &models.Product{
		Name: "Oxford Shirt", Slug: "oxford-shirt", CategoryID: "cat-1",
		RegularPrice: decimal.NewFromInt(999), ProductOffer: 15,
	}
	require.NoError(t, svc.SaveProduct(ctx, product))
	require.NotEmpty(t, product.ID)

	stored, _ := products.GetByID(ctx, product.ID)
	assert.Equal(t, 15, stored.EffectiveOffer)
	assert.True(t, stored.SalePrice.Equal(decimal.NewFromInt(849)), "got %s", stored.SalePrice)
}

func TestUpdateCategoryOfferRepricesProducts(t *testing.T) {
	ctx := context.Background()
	category := &models.Category{ID: "cat-1", Name: "Shirts", CategoryOffer: 0, IsListed: true}

	cheap := testProduct("Basic Tee", 500, map[string]int{"M": 5})
	cheap.ProductOffer = 0
	discounted := testProduct("Premium Tee", 1000, map[string]int{"M": 5})
	discounted.ProductOffer = 40

	categories := newFakeCategoryRepo(category)
	products := newFakeProductRepo(cheap, discounted)
	svc := NewCatalogService(products, categories)

	require.NoError(t, svc.UpdateCategoryOffer(ctx, "cat-1", 25))
	assert.Equal(t, 25, categories.categories["cat-1"].CategoryOffer)

	storedCheap, _ := products.GetByID(ctx, cheap.ID)
	assert.Equal(t, 25, storedCheap.EffectiveOffer)
	assert.True(t, storedCheap.SalePrice.Equal(decimal.NewFromInt(375)), "got %s", storedCheap.SalePrice)

	// A product's own larger offer wins over the category offer.
	storedDisc, _ := products.GetByID(ctx, discounted.ID)
	assert.Equal(t, 40, storedDisc.EffectiveOffer)
	assert.True(t, storedDisc.SalePrice.Equal(decimal.NewFromInt(600)))
}

func TestUpdateCategoryOfferBounds(t *testing.T) {
	ctx := context.Background()
	category := &models.Category{ID: "cat-1", Name: "Shirts", IsListed: true}
	svc := NewCatalogService(newFakeProductRepo(), newFakeCategoryRepo(category))

	assert.Error(t, svc.UpdateCategoryOffer(ctx, "cat-1", -1))
	assert.Error(t, svc.UpdateCategoryOffer(ctx, "cat-1", models.MaxCategoryOffer+1))
	assert.NoError(t, svc.UpdateCategoryOffer(ctx, "cat-1", models.MaxCategoryOffer))
}
