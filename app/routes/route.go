package routes

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/handlers/admin"
	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto the mux router.
func NewRouter(db *gorm.DB, store sessions.SessionStore) *mux.Router {
	rnd := render.New()

	userRepo := repositories.NewUserRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	couponRepo := repositories.NewCouponRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	otpRepo := repositories.NewOtpRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)

	mailer := services.NewMailer(services.MailConfig{
		Host:     configs.LoadENV.EmailHost,
		Port:     configs.LoadENV.EmailPort,
		Username: configs.LoadENV.EmailUsername,
		Password: configs.LoadENV.EmailPassword,
		From:     configs.LoadENV.EmailFrom,
	})

	walletService := services.NewWalletService(walletRepo)
	userService := services.NewUserService(userRepo, walletService)
	otpService := services.NewOtpService(otpRepo, mailer)
	catalogService := services.NewCatalogService(productRepo, categoryRepo)
	cartService := services.NewCartService(cartRepo, cartItemRepo, productRepo)
	couponService := services.NewCouponService(couponRepo)
	gateway := services.NewRazorpayGateway(configs.GetRazorpayClient())
	checkoutService := services.NewCheckoutService(cartService, couponService, walletService, orderRepo, orderItemRepo, productRepo, addressRepo, gateway)
	paymentService := services.NewPaymentService(orderRepo, cartService, configs.LoadENV.RAZORPAY_KEY_SECRET)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, productRepo, walletService)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo)

	authHandler := handlers.NewAuthHandler(userService, otpService, store, rnd)
	productHandler := handlers.NewProductHandler(productRepo, categoryRepo, rnd)
	cartHandler := handlers.NewCartHandler(cartService, couponService, store, rnd)
	couponHandler := handlers.NewCouponHandler(couponService, cartService, store, rnd)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, store, rnd, configs.LoadENV.RAZORPAY_KEY_ID)
	paymentHandler := handlers.NewPaymentHandler(paymentService, rnd)
	orderHandler := handlers.NewOrderHandler(orderService, rnd)
	walletHandler := handlers.NewWalletHandler(walletService, rnd)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, rnd)
	addressHandler := handlers.NewAddressHandler(addressRepo, rnd)

	orderAdminHandler := admin.NewOrderAdminHandler(orderService, rnd)
	couponAdminHandler := admin.NewCouponAdminHandler(couponRepo, rnd)
	productAdminHandler := admin.NewProductAdminHandler(catalogService, productRepo, rnd)
	categoryAdminHandler := admin.NewCategoryAdminHandler(catalogService, categoryRepo, rnd)
	customerAdminHandler := admin.NewCustomerAdminHandler(userService, rnd)

	router := mux.NewRouter()
	router.Use(middlewares.CartCountMiddleware(store, cartRepo))

	// Public endpoints.
	router.HandleFunc("/signup/otp", authHandler.RequestSignupOtp).Methods(http.MethodPost)
	router.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	router.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	router.HandleFunc("/password/forgot", authHandler.ForgotPassword).Methods(http.MethodPost)
	router.HandleFunc("/password/reset", authHandler.ResetPassword).Methods(http.MethodPost)

	router.HandleFunc("/products", productHandler.List).Methods(http.MethodGet)
	router.HandleFunc("/products/{slug}", productHandler.Detail).Methods(http.MethodGet)

	// Customer endpoints.
	authed := router.NewRoute().Subrouter()
	authed.Use(middlewares.RequireUser(store, userRepo, rnd))

	authed.HandleFunc("/cart", cartHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/cart/count", cartHandler.Count).Methods(http.MethodGet)
	authed.HandleFunc("/cart/items", cartHandler.AddItem).Methods(http.MethodPost)
	authed.HandleFunc("/cart/items", cartHandler.UpdateItem).Methods(http.MethodPut)
	authed.HandleFunc("/cart/items", cartHandler.RemoveItem).Methods(http.MethodDelete)

	authed.HandleFunc("/coupons/apply", couponHandler.Apply).Methods(http.MethodPost)
	authed.HandleFunc("/coupons/apply", couponHandler.Remove).Methods(http.MethodDelete)

	authed.HandleFunc("/checkout", checkoutHandler.PlaceOrder).Methods(http.MethodPost)
	authed.HandleFunc("/payment/verify", paymentHandler.Verify).Methods(http.MethodPost)
	authed.HandleFunc("/payment/failed", paymentHandler.Failed).Methods(http.MethodPost)

	authed.HandleFunc("/orders", orderHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{code}", orderHandler.Detail).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{code}/cancel", orderHandler.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{code}/items/{itemID}/cancel", orderHandler.CancelItem).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{code}/items/{itemID}/return", orderHandler.RequestReturn).Methods(http.MethodPost)

	authed.HandleFunc("/referrals/apply", authHandler.ApplyReferral).Methods(http.MethodPost)

	authed.HandleFunc("/wallet", walletHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/wishlist", wishlistHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/wishlist/toggle", wishlistHandler.Toggle).Methods(http.MethodPost)

	authed.HandleFunc("/addresses", addressHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/addresses", addressHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/addresses/{id}", addressHandler.Update).Methods(http.MethodPut)
	authed.HandleFunc("/addresses/{id}", addressHandler.Delete).Methods(http.MethodDelete)

	// Back office.
	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.RequireAdmin(store, userRepo, rnd))

	adminRouter.HandleFunc("/orders", orderAdminHandler.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{code}", orderAdminHandler.Detail).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{code}/status", orderAdminHandler.UpdateStatus).Methods(http.MethodPut)
	adminRouter.HandleFunc("/order-items/{itemID}/return/approve", orderAdminHandler.ApproveReturn).Methods(http.MethodPost)
	adminRouter.HandleFunc("/order-items/{itemID}/return/reject", orderAdminHandler.RejectReturn).Methods(http.MethodPost)

	adminRouter.HandleFunc("/coupons", couponAdminHandler.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/coupons", couponAdminHandler.Create).Methods(http.MethodPost)
	adminRouter.HandleFunc("/coupons/{id}", couponAdminHandler.Update).Methods(http.MethodPut)
	adminRouter.HandleFunc("/coupons/{id}/active", couponAdminHandler.SetActive).Methods(http.MethodPut)
	adminRouter.HandleFunc("/coupons/{id}", couponAdminHandler.Delete).Methods(http.MethodDelete)

	adminRouter.HandleFunc("/products", productAdminHandler.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products", productAdminHandler.Create).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}", productAdminHandler.Update).Methods(http.MethodPut)
	adminRouter.HandleFunc("/products/{id}/block", productAdminHandler.SetBlocked).Methods(http.MethodPut)
	adminRouter.HandleFunc("/products/{id}/restock", productAdminHandler.Restock).Methods(http.MethodPost)

	adminRouter.HandleFunc("/categories", categoryAdminHandler.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories", categoryAdminHandler.Create).Methods(http.MethodPost)
	adminRouter.HandleFunc("/categories/{id}", categoryAdminHandler.Update).Methods(http.MethodPut)
	adminRouter.HandleFunc("/categories/{id}/listed", categoryAdminHandler.SetListed).Methods(http.MethodPut)
	adminRouter.HandleFunc("/categories/{id}/offer", categoryAdminHandler.SetOffer).Methods(http.MethodPut)

	adminRouter.HandleFunc("/customers", customerAdminHandler.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/customers/{id}/block", customerAdminHandler.SetBlocked).Methods(http.MethodPut)

	return router
}

// WithCSRF wraps the router with CSRF protection for browser form posts. The
// key comes from the session auth key so deployments need no extra secret.
func WithCSRF(router *mux.Router, authKey []byte, secure bool) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
	)
	return protect(router)
}
