package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/shopspring/decimal"
)

// CartSummary is a cart re-validated and re-priced against the live catalog.
// Lines whose product went missing, got blocked, or whose category was
// unlisted are dropped from the cart before totals are computed; lines whose
// size bucket shrank are capped and flagged.
type CartSummary struct {
	Cart     *models.Cart
	Items    []CartLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal

	// Adjusted names products whose quantities were reduced to match stock.
	Adjusted []string
}

type CartLine struct {
	Item      models.CartItem
	Product   models.Product
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	InStock   bool
}

type CartService struct {
	cartRepo     repositories.CartRepository
	cartItemRepo repositories.CartItemRepository
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(
	cartRepo repositories.CartRepository,
	cartItemRepo repositories.CartItemRepository,
	productRepo repositories.ProductRepositoryImpl,
) *CartService {
	return &CartService{cartRepo: cartRepo, cartItemRepo: cartItemRepo, productRepo: productRepo}
}

// AddItem adds qty units of (product, size) to the user's cart, merging into
// an existing line when one exists. The merged quantity is capped at
// MaxQtyPerLine and also at the size bucket's current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID, size string, qty int) error {
	if qty < 1 {
		return ErrMinQuantity
	}
	if !models.IsValidSize(size) {
		return ErrInvalidSize
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.IsBlocked || product.Status == models.ProductStatusDiscontinued {
		return ErrProductUnavailable
	}
	if !product.Category.IsListed {
		return ErrCategoryUnlisted
	}

	available := product.VariantQuantity(size)
	if available <= 0 {
		return fmt.Errorf("%w: size %s is out of stock", ErrProductUnavailable, size)
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}

	line, err := s.cartItemRepo.FindLine(ctx, cart.ID, productID, size)
	if err != nil {
		return err
	}

	existing := 0
	if line != nil {
		existing = line.Qty
	}
	if existing+qty > models.MaxQtyPerLine {
		return ErrQuantityLimit
	}
	if existing+qty > available {
		return fmt.Errorf("%w: only %d left for size %s", ErrProductUnavailable, available, size)
	}

	unitPrice := product.UnitPrice()
	if line == nil {
		line = &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Size:      size,
			Qty:       qty,
		}
		line.Price = unitPrice
		line.TotalPrice = unitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
		return s.cartItemRepo.Create(ctx, line)
	}

	line.Qty += qty
	line.Price = unitPrice
	line.TotalPrice = unitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
	return s.cartItemRepo.Update(ctx, line)
}

// UpdateQuantity sets a line to an absolute quantity within [1, MaxQtyPerLine]
// and within the size bucket's stock.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID, size string, qty int) error {
	if qty < 1 {
		return ErrMinQuantity
	}
	if qty > models.MaxQtyPerLine {
		return ErrQuantityLimit
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}
	line, err := s.cartItemRepo.FindLine(ctx, cart.ID, productID, size)
	if err != nil {
		return err
	}
	if line == nil {
		return ErrItemNotFound
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.IsBlocked {
		return ErrProductUnavailable
	}
	if qty > product.VariantQuantity(size) {
		return fmt.Errorf("%w: only %d left for size %s", ErrProductUnavailable, product.VariantQuantity(size), size)
	}

	line.Qty = qty
	line.Price = product.UnitPrice()
	line.TotalPrice = line.Price.Mul(decimal.NewFromInt(int64(qty)))
	return s.cartItemRepo.Update(ctx, line)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size string) error {
	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartItemRepo.Delete(ctx, cart.ID, productID, size)
}

func (s *CartService) ItemCount(ctx context.Context, userID string) (int, error) {
	return s.cartRepo.GetCartItemCount(ctx, userID)
}

// GetSummary loads the cart, drops lines that are no longer purchasable,
// clamps quantities to current stock and recomputes every line against the
// product's current price. Stored line prices are never trusted.
func (s *CartService) GetSummary(ctx context.Context, userID string, discount decimal.Decimal) (*CartSummary, error) {
	cart, err := s.cartRepo.GetCartWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{
		Cart:     cart,
		Subtotal: decimal.Zero,
	}

	var stale []string
	for _, item := range cart.CartItems {
		product := item.Product
		if product == nil || product.IsBlocked || product.Status == models.ProductStatusDiscontinued || !product.Category.IsListed {
			stale = append(stale, item.ProductID)
			continue
		}

		qty := item.Qty
		available := product.VariantQuantity(item.Size)
		if available < qty {
			qty = available
			summary.Adjusted = append(summary.Adjusted, product.Name)
		}

		unitPrice := product.UnitPrice()
		line := CartLine{
			Item:      item,
			Product:   *product,
			UnitPrice: unitPrice,
			LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(qty))),
			InStock:   qty > 0,
		}
		line.Item.Qty = qty
		summary.Items = append(summary.Items, line)

		if qty > 0 {
			summary.Subtotal = summary.Subtotal.Add(line.LineTotal)
		}
	}

	if len(stale) > 0 {
		if err := s.cartItemRepo.DeleteByProductIDs(ctx, cart.ID, stale); err != nil {
			return nil, err
		}
	}

	if discount.GreaterThan(summary.Subtotal) {
		discount = summary.Subtotal
	}
	summary.Tax = calc.CalculateTax(summary.Subtotal)
	summary.Shipping = calc.ShippingFee(summary.Subtotal)
	summary.Total = calc.GrandTotal(summary.Subtotal, summary.Tax, summary.Shipping, discount)

	return summary, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.ClearCart(ctx, cart.ID)
}
