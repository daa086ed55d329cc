package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWishlistRepo struct {
	wishlists map[string]*models.Wishlist // keyed by user id
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{wishlists: map[string]*models.Wishlist{}}
}

func (f *fakeWishlistRepo) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wishlist, error) {
	w, ok := f.wishlists[userID]
	if !ok {
		w = &models.Wishlist{ID: uuid.New().String(), UserID: userID}
		f.wishlists[userID] = w
	}
	cp := *w
	cp.Items = append([]models.WishlistItem{}, w.Items...)
	return &cp, nil
}

func (f *fakeWishlistRepo) FindItem(ctx context.Context, wishlistID, productID string) (*models.WishlistItem, error) {
	for _, w := range f.wishlists {
		if w.ID != wishlistID {
			continue
		}
		for i := range w.Items {
			if w.Items[i].ProductID == productID {
				cp := w.Items[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeWishlistRepo) AddItem(ctx context.Context, item *models.WishlistItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	for _, w := range f.wishlists {
		if w.ID == item.WishlistID {
			w.Items = append(w.Items, *item)
			return nil
		}
	}
	return nil
}

func (f *fakeWishlistRepo) RemoveItem(ctx context.Context, wishlistID, productID string) error {
	for _, w := range f.wishlists {
		if w.ID != wishlistID {
			continue
		}
		kept := w.Items[:0]
		for _, item := range w.Items {
			if item.ProductID == productID {
				continue
			}
			kept = append(kept, item)
		}
		w.Items = kept
	}
	return nil
}

func TestWishlistToggle(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 5})
	repo := newFakeWishlistRepo()
	svc := NewWishlistService(repo, newFakeProductRepo(product))

	in, err := svc.Toggle(ctx, "user-1", product.ID)
	require.NoError(t, err)
	assert.True(t, in)

	wishlist, _ := svc.Get(ctx, "user-1")
	require.Len(t, wishlist.Items, 1)

	in, err = svc.Toggle(ctx, "user-1", product.ID)
	require.NoError(t, err)
	assert.False(t, in)

	wishlist, _ = svc.Get(ctx, "user-1")
	assert.Empty(t, wishlist.Items)
}

func TestWishlistToggleBlockedProduct(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Banned Tee", 500, map[string]int{"M": 5})
	product.IsBlocked = true
	svc := NewWishlistService(newFakeWishlistRepo(), newFakeProductRepo(product))

	_, err := svc.Toggle(ctx, "user-1", product.ID)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = svc.Toggle(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestWishlistRemove(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 5})
	repo := newFakeWishlistRepo()
	svc := NewWishlistService(repo, newFakeProductRepo(product))

	_, err := svc.Toggle(ctx, "user-1", product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "user-1", product.ID))
	wishlist, _ := svc.Get(ctx, "user-1")
	assert.Empty(t, wishlist.Items)
}
