package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. They implement the same guarded semantics as
// the GORM implementations (all-or-nothing reservations, unique redemptions,
// balance-checked debits) so service tests exercise the real control flow.

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: map[string]*models.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) GetProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	products, _ := f.GetProducts(ctx)
	return products, int64(len(products)), nil
}

func (f *fakeProductRepo) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Product, int64, error) {
	return f.GetPaginated(ctx, limit, offset)
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if p, ok := f.products[id]; ok {
		p.IsBlocked = blocked
	}
	return nil
}

func (f *fakeProductRepo) UpdatePricing(ctx context.Context, id string, salePrice decimal.Decimal, effectiveOffer int) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SalePrice = salePrice
	p.EffectiveOffer = effectiveOffer
	return nil
}

func (f *fakeProductRepo) ReserveAll(ctx context.Context, lines []repositories.StockLine) error {
	// Check first so a failing line leaves nothing decremented.
	for _, line := range lines {
		p, ok := f.products[line.ProductID]
		if !ok || p.VariantQuantity(line.Size) < line.Qty {
			return fmt.Errorf("%w: product %s size %s qty %d", repositories.ErrInsufficientStock, line.ProductID, line.Size, line.Qty)
		}
	}
	for _, line := range lines {
		f.adjust(line.ProductID, line.Size, -line.Qty)
	}
	return nil
}

func (f *fakeProductRepo) Restock(ctx context.Context, productID, size string, qty int) error {
	if _, ok := f.products[productID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.adjust(productID, size, qty)
	return nil
}

func (f *fakeProductRepo) adjust(productID, size string, delta int) {
	p := f.products[productID]
	total := 0
	for i := range p.Variants {
		if p.Variants[i].Size == size {
			p.Variants[i].Quantity += delta
		}
		total += p.Variants[i].Quantity
	}
	p.Stock = total
	if p.Status != models.ProductStatusDiscontinued {
		if total <= 0 {
			p.Status = models.ProductStatusOutOfStock
		} else {
			p.Status = models.ProductStatusAvailable
		}
	}
}

func (f *fakeProductRepo) quantity(productID, size string) int {
	return f.products[productID].VariantQuantity(size)
}

// testProduct builds a purchasable product with a listed category and one
// stock bucket per entry in sizes.
func testProduct(name string, price int64, sizes map[string]int) *models.Product {
	p := &models.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Slug:         name,
		CategoryID:   "cat-1",
		Category:     models.Category{ID: "cat-1", Name: "Shirts", IsListed: true},
		RegularPrice: decimal.NewFromInt(price),
		SalePrice:    decimal.NewFromInt(price),
		Status:       models.ProductStatusAvailable,
	}
	for size, qty := range sizes {
		p.Variants = append(p.Variants, models.ProductVariant{
			ID: uuid.New().String(), ProductID: p.ID, Size: size, Quantity: qty,
		})
		p.Stock += qty
	}
	if p.Stock == 0 {
		p.Status = models.ProductStatusOutOfStock
	}
	return p
}

type fakeCartStore struct {
	carts map[string]*models.Cart // keyed by user id
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*models.Cart{}}
}

func (f *fakeCartStore) cartFor(userID string) *models.Cart {
	cart, ok := f.carts[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.New().String(), UserID: userID}
		f.carts[userID] = cart
	}
	return cart
}

func (f *fakeCartStore) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	cart := f.cartFor(userID)
	cp := *cart
	return &cp, nil
}

func (f *fakeCartStore) GetCartWithItems(ctx context.Context, userID string) (*models.Cart, error) {
	cart := f.cartFor(userID)
	cp := *cart
	cp.CartItems = append([]models.CartItem{}, cart.CartItems...)
	return &cp, nil
}

func (f *fakeCartStore) GetCartItemCount(ctx context.Context, userID string) (int, error) {
	return len(f.cartFor(userID).CartItems), nil
}

func (f *fakeCartStore) ClearCart(ctx context.Context, cartID string) error {
	for _, cart := range f.carts {
		if cart.ID == cartID {
			cart.CartItems = nil
		}
	}
	return nil
}

func (f *fakeCartStore) FindLine(ctx context.Context, cartID, productID, size string) (*models.CartItem, error) {
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.CartItems {
			item := cart.CartItems[i]
			if item.ProductID == productID && item.Size == size {
				cp := item
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCartStore) Create(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	for _, cart := range f.carts {
		if cart.ID == item.CartID {
			cart.CartItems = append(cart.CartItems, *item)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCartStore) Update(ctx context.Context, item *models.CartItem) error {
	for _, cart := range f.carts {
		for i := range cart.CartItems {
			if cart.CartItems[i].ID == item.ID {
				cart.CartItems[i] = *item
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCartStore) Delete(ctx context.Context, cartID, productID, size string) error {
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		kept := cart.CartItems[:0]
		for _, item := range cart.CartItems {
			if item.ProductID == productID && item.Size == size {
				continue
			}
			kept = append(kept, item)
		}
		cart.CartItems = kept
	}
	return nil
}

func (f *fakeCartStore) DeleteByProductIDs(ctx context.Context, cartID string, productIDs []string) error {
	drop := map[string]bool{}
	for _, id := range productIDs {
		drop[id] = true
	}
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		kept := cart.CartItems[:0]
		for _, item := range cart.CartItems {
			if drop[item.ProductID] {
				continue
			}
			kept = append(kept, item)
		}
		cart.CartItems = kept
	}
	return nil
}

// addLine puts a line straight into a user's cart with the product attached,
// the way GetCartWithItems would preload it.
func (f *fakeCartStore) addLine(userID string, product *models.Product, size string, qty int) {
	cart := f.cartFor(userID)
	cart.CartItems = append(cart.CartItems, models.CartItem{
		ID:        uuid.New().String(),
		CartID:    cart.ID,
		ProductID: product.ID,
		Product:   product,
		Size:      size,
		Qty:       qty,
	})
}

type fakeCouponRepo struct {
	coupons     map[string]*models.Coupon
	redemptions map[string]bool // couponID|userID
}

func newFakeCouponRepo(coupons ...*models.Coupon) *fakeCouponRepo {
	repo := &fakeCouponRepo{coupons: map[string]*models.Coupon{}, redemptions: map[string]bool{}}
	for _, c := range coupons {
		repo.coupons[c.ID] = c
	}
	return repo
}

func (f *fakeCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCouponRepo) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	c, ok := f.coupons[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCouponRepo) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Coupon, int64, error) {
	var out []models.Coupon
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCouponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	f.coupons[coupon.ID] = coupon
	return nil
}

func (f *fakeCouponRepo) Update(ctx context.Context, coupon *models.Coupon) error {
	f.coupons[coupon.ID] = coupon
	return nil
}

func (f *fakeCouponRepo) Delete(ctx context.Context, id string) error {
	delete(f.coupons, id)
	return nil
}

func (f *fakeCouponRepo) SetActive(ctx context.Context, id string, active bool) error {
	if c, ok := f.coupons[id]; ok {
		c.IsActive = active
		if active {
			c.Status = models.CouponStatusActive
		} else {
			c.Status = models.CouponStatusDisabled
		}
	}
	return nil
}

func (f *fakeCouponRepo) Deactivate(ctx context.Context, id, status string) error {
	if c, ok := f.coupons[id]; ok {
		c.IsActive = false
		c.Status = status
	}
	return nil
}

func (f *fakeCouponRepo) HasRedeemed(ctx context.Context, couponID, userID string) (bool, error) {
	return f.redemptions[couponID+"|"+userID], nil
}

func (f *fakeCouponRepo) Redeem(ctx context.Context, couponID, userID, orderCode string) error {
	key := couponID + "|" + userID
	if f.redemptions[key] {
		return repositories.ErrCouponAlreadyUsed
	}
	c, ok := f.coupons[couponID]
	if !ok || c.UsedCount >= c.MaxUsage {
		return repositories.ErrCouponDepleted
	}
	f.redemptions[key] = true
	c.UsedCount++
	if c.UsedCount >= c.MaxUsage {
		c.IsActive = false
		c.Status = models.CouponStatusExpired
	}
	return nil
}

type fakeWalletRepo struct {
	wallets map[string]*models.Wallet // keyed by user id
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: map[string]*models.Wallet{}}
}

func (f *fakeWalletRepo) walletFor(userID string) *models.Wallet {
	w, ok := f.wallets[userID]
	if !ok {
		w = &models.Wallet{ID: uuid.New().String(), UserID: userID, Balance: decimal.Zero}
		f.wallets[userID] = w
	}
	return w
}

func (f *fakeWalletRepo) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	cp := *f.walletFor(userID)
	return &cp, nil
}

func (f *fakeWalletRepo) GetWithTransactions(ctx context.Context, userID string) (*models.Wallet, error) {
	w := f.walletFor(userID)
	cp := *w
	cp.Transactions = append([]models.WalletTransaction{}, w.Transactions...)
	return &cp, nil
}

func (f *fakeWalletRepo) Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error {
	w := f.walletFor(userID)
	w.Balance = w.Balance.Add(amount)
	w.Transactions = append(w.Transactions, models.WalletTransaction{
		ID: uuid.New().String(), WalletID: w.ID, Type: models.WalletTxCredit,
		Amount: amount, Reason: reason, OrderCode: orderCode,
	})
	return nil
}

func (f *fakeWalletRepo) Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error {
	w := f.walletFor(userID)
	if w.Balance.LessThan(amount) {
		return repositories.ErrInsufficientBalance
	}
	w.Balance = w.Balance.Sub(amount)
	w.Transactions = append(w.Transactions, models.WalletTransaction{
		ID: uuid.New().String(), WalletID: w.ID, Type: models.WalletTxDebit,
		Amount: amount, Reason: reason, OrderCode: orderCode,
	})
	return nil
}

type fakeOrderRepo struct {
	orders map[string]*models.Order // keyed by order id
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*models.Order{}}
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) copyOut(order *models.Order) *models.Order {
	cp := *order
	cp.OrderItems = append([]models.OrderItem{}, order.OrderItems...)
	return &cp
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return f.copyOut(order), nil
}

func (f *fakeOrderRepo) GetByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.OrderCode == orderCode {
			return f.copyOut(order), nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetByCodeForUser(ctx context.Context, orderCode, userID string) (*models.Order, error) {
	order, err := f.GetByCode(ctx, orderCode)
	if err != nil || order == nil || order.UserID != userID {
		return nil, err
	}
	return order, nil
}

func (f *fakeOrderRepo) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.RazorpayOrderID == razorpayOrderID {
			return f.copyOut(order), nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, *f.copyOut(order))
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAdmin(ctx context.Context, filter repositories.OrderListFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, order := range f.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		out = append(out, *f.copyOut(order))
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID, fromStatus, toStatus string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if order.Status != fromStatus {
		return repositories.ErrOrderStatusConflict
	}
	order.Status = toStatus
	return nil
}

func (f *fakeOrderRepo) UpdateOrderAndItemsStatus(ctx context.Context, orderID, fromStatus, toStatus string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if order.Status != fromStatus {
		return repositories.ErrOrderStatusConflict
	}
	order.Status = toStatus
	for i := range order.OrderItems {
		switch order.OrderItems[i].Status {
		case models.OrderStatusCancelled, models.OrderStatusReturned, models.OrderStatusReturnRejected:
		default:
			order.OrderItems[i].Status = toStatus
		}
	}
	return nil
}

func (f *fakeOrderRepo) UpdatePayment(ctx context.Context, orderID, paymentStatus, razorpayPaymentID string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentStatus = paymentStatus
	if razorpayPaymentID != "" {
		order.RazorpayPaymentID = razorpayPaymentID
	}
	return nil
}

func (f *fakeOrderRepo) Save(ctx context.Context, order *models.Order) error {
	f.orders[order.ID] = f.copyOut(order)
	return nil
}

// fakeOrderItemRepo reads and writes items inside fakeOrderRepo's orders so
// both views stay consistent.
type fakeOrderItemRepo struct {
	orders *fakeOrderRepo
}

func (f *fakeOrderItemRepo) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		order, ok := f.orders.orders[items[i].OrderID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		order.OrderItems = append(order.OrderItems, items[i])
	}
	return nil
}

func (f *fakeOrderItemRepo) GetByID(ctx context.Context, id string) (*models.OrderItem, error) {
	for _, order := range f.orders.orders {
		for i := range order.OrderItems {
			if order.OrderItems[i].ID == id {
				cp := order.OrderItems[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeOrderItemRepo) Save(ctx context.Context, item *models.OrderItem) error {
	for _, order := range f.orders.orders {
		for i := range order.OrderItems {
			if order.OrderItems[i].ID == item.ID {
				order.OrderItems[i] = *item
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAddressRepo struct {
	addresses map[string]*models.Address
}

func newFakeAddressRepo(addresses ...*models.Address) *fakeAddressRepo {
	repo := &fakeAddressRepo{addresses: map[string]*models.Address{}}
	for _, a := range addresses {
		repo.addresses[a.ID] = a
	}
	return repo
}

func (f *fakeAddressRepo) FindAddressByID(ctx context.Context, id string) (*models.Address, error) {
	a, ok := f.addresses[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAddressRepo) FindByUserID(ctx context.Context, userID string) ([]models.Address, error) {
	var out []models.Address
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAddressRepo) FindDefaultForUser(ctx context.Context, userID string) (*models.Address, error) {
	for _, a := range f.addresses {
		if a.UserID == userID && a.IsPrimary {
			cp := *a
			return &cp, nil
		}
	}
	for _, a := range f.addresses {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAddressRepo) Create(ctx context.Context, address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	f.addresses[address.ID] = address
	return nil
}

func (f *fakeAddressRepo) Update(ctx context.Context, address *models.Address) error {
	f.addresses[address.ID] = address
	return nil
}

func (f *fakeAddressRepo) Delete(ctx context.Context, id, userID string) error {
	if a, ok := f.addresses[id]; ok && a.UserID == userID {
		delete(f.addresses, id)
	}
	return nil
}

type fakeGateway struct {
	orderID string
	fail    bool
	calls   int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	f.calls++
	if f.fail {
		return "", fmt.Errorf("gateway unavailable")
	}
	if f.orderID == "" {
		return "order_fake123", nil
	}
	return f.orderID, nil
}

type fakeOtpRepo struct {
	tokens map[string]*models.OtpToken // keyed by email|purpose
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{tokens: map[string]*models.OtpToken{}}
}

func (f *fakeOtpRepo) Upsert(ctx context.Context, token *models.OtpToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	f.tokens[token.Email+"|"+token.Purpose] = token
	return nil
}

func (f *fakeOtpRepo) Find(ctx context.Context, email, purpose string) (*models.OtpToken, error) {
	t, ok := f.tokens[email+"|"+purpose]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeOtpRepo) Delete(ctx context.Context, email, purpose string) error {
	delete(f.tokens, email+"|"+purpose)
	return nil
}

type fakeMailer struct {
	sent []string // recipients
	body string
}

func (f *fakeMailer) SendHTMLEmail(to, subject, htmlBody string) error {
	f.sent = append(f.sent, to)
	f.body = htmlBody
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	for _, u := range f.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if u, ok := f.users[id]; ok {
		u.IsBlocked = blocked
	}
	return nil
}

func (f *fakeUserRepo) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == models.RoleCustomer {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}
