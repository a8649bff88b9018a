package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/shoppee/shoppee-backend/internal/accounts"
	"github.com/shoppee/shoppee-backend/internal/analytics"
	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/cart"
	"github.com/shoppee/shoppee-backend/internal/catalog"
	"github.com/shoppee/shoppee-backend/internal/maintenance"
	"github.com/shoppee/shoppee-backend/internal/messages"
	"github.com/shoppee/shoppee-backend/internal/orders"
	"github.com/shoppee/shoppee-backend/internal/sessions"
)

// Deps carries everything the router wires together.
type Deps struct {
	Tokens      *auth.Tokens
	Maintenance *maintenance.Store
	Users       *accounts.UserRepo
	Admins      *accounts.AdminRepo
	Addresses   *accounts.AddressRepo
	Products    *catalog.ProductRepo
	Categories  *catalog.CategoryRepo
	Brands      *catalog.BrandRepo
	FlashSales  *catalog.FlashSaleRepo
	Carts       *cart.Service
	CartStore   cart.Store
	Orders      *orders.Service
	Messages    messages.Store
	Analytics   *analytics.Repo
	Sessions    *sessions.Service
	Cache       *redis.Client
}

// NewRouter builds the full route tree: public storefront reads, the
// customer surface, and the admin surface, each behind its own
// middleware chain.
func NewRouter(d Deps) http.Handler {
	authH := &authHandler{users: d.Users, admins: d.Admins, tokens: d.Tokens, sessions: d.Sessions}
	catalogH := &catalogHandler{products: d.Products, categories: d.Categories, brands: d.Brands, flashSales: d.FlashSales}
	cartH := &cartHandler{carts: d.Carts, store: d.CartStore}
	orderH := &orderHandler{orders: d.Orders, cache: d.Cache}
	accountH := &accountHandler{users: d.Users, admins: d.Admins, addresses: d.Addresses, sessions: d.Sessions}
	messageH := &messageHandler{store: d.Messages}
	analyticsH := &analyticsHandler{repo: d.Analytics}
	maintH := &maintenanceHandler{store: d.Maintenance}

	gate := maintenance.Gate(d.Maintenance)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Use(gate)
		r.Get("/products", catalogH.listProducts)
		r.Get("/products/{id}", catalogH.getProduct)
		r.Get("/categories", catalogH.listCategories)
		r.Get("/brands", catalogH.listBrands)
		r.Get("/flash-sales", catalogH.listFlashSales)
		r.Get("/new-arrivals", catalogH.newArrivals)
	})

	r.Route("/api/user/auth", func(r chi.Router) {
		r.Post("/register", authH.registerUser)
		r.Post("/login", authH.loginUser)
		r.Post("/logout", authH.logout)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(d.Tokens.Authenticate)
		r.Use(auth.RequireCustomer())
		r.Use(gate)
		if d.Sessions != nil {
			r.Use(d.Sessions.TrackVisits)
		}

		r.Get("/profile", accountH.profile)
		r.Put("/profile", accountH.updateProfile)
		r.Put("/password", accountH.changePassword)
		r.Get("/devices", accountH.recentDevices)

		r.Post("/addresses", accountH.addAddress)
		r.Get("/addresses", accountH.listAddresses)
		r.Put("/addresses/{id}", accountH.updateAddress)
		r.Delete("/addresses/{id}", accountH.deleteAddress)
		r.Put("/addresses/{id}/default", accountH.setDefaultAddress)

		r.Post("/cart", cartH.add)
		r.Get("/cart", cartH.get)
		r.Put("/cart", cartH.updateQuantity)
		r.Delete("/cart/item", cartH.remove)
		r.Delete("/cart", cartH.clear)

		r.Post("/orders/checkout", orderH.checkoutCOD)
		r.Post("/orders/razorpay", orderH.createGatewayOrder)
		r.Post("/orders/razorpay/confirm", orderH.placeAfterPayment)
		r.Get("/orders", orderH.myOrders)
		r.Get("/orders/{id}", orderH.getOrder)
		r.Get("/orders/{id}/invoice", orderH.downloadInvoice)

		r.Post("/messages", messageH.create)
		r.Get("/messages", messageH.listMine)
		r.Put("/messages/{id}", messageH.updateMine)
	})

	r.Route("/api/admin/auth", func(r chi.Router) {
		r.Post("/register", authH.registerAdmin)
		r.Post("/login", authH.loginAdmin)
		r.Post("/logout", authH.logout)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(d.Tokens.Authenticate)
		r.Use(auth.RequireSuperAdmin())

		// exempt from the gate so a superadmin can always turn
		// maintenance back off
		r.Get("/maintenance", maintH.get)
		r.Put("/maintenance", maintH.set)

		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Get("/profile", accountH.adminProfile)
			r.Put("/profile", accountH.updateAdminProfile)
			r.Put("/password", accountH.changeAdminPassword)

			r.Post("/products", catalogH.createProduct)
			r.Get("/products", catalogH.listProducts)
			r.Get("/products/{id}", catalogH.getProduct)
			r.Put("/products/{id}", catalogH.updateProduct)
			r.Delete("/products/{id}", catalogH.deleteProduct)

			r.Post("/categories", catalogH.createCategory)
			r.Get("/categories", catalogH.listCategories)
			r.Put("/categories/{id}", catalogH.updateCategory)
			r.Delete("/categories/{id}", catalogH.deleteCategory)

			r.Post("/brands", catalogH.createBrand)
			r.Get("/brands", catalogH.listBrands)
			r.Put("/brands/{id}", catalogH.updateBrand)
			r.Delete("/brands/{id}", catalogH.deleteBrand)

			r.Post("/flash-sales", catalogH.createFlashSale)
			r.Get("/flash-sales", catalogH.listFlashSales)
			r.Get("/flash-sales/{id}", catalogH.getFlashSale)
			r.Put("/flash-sales/{id}", catalogH.updateFlashSale)
			r.Delete("/flash-sales/{id}", catalogH.deleteFlashSale)

			r.Get("/users", accountH.listUsers)
			r.Get("/users/{id}", accountH.getUser)
			r.Put("/users/{id}", accountH.adminUpdateUser)
			r.Delete("/users/{id}", accountH.deleteUser)

			r.Get("/orders", orderH.listAll)
			r.Get("/orders/{id}", orderH.getOrder)
			r.Get("/orders/{id}/invoice", orderH.downloadInvoice)
			r.Put("/orders/{id}/status", orderH.updateStatus)

			r.Get("/messages", messageH.listAll)
			r.Put("/messages/{id}/read", messageH.markRead)
			r.Put("/messages/{id}/reply", messageH.reply)
			r.Delete("/messages/{id}", messageH.delete)
			r.Post("/messages/bulk-delete", messageH.bulkDelete)

			r.Get("/analytics/sales", analyticsH.salesOverview)
			r.Get("/analytics/category-sales", analyticsH.categorySales)
			r.Get("/analytics/visitors", analyticsH.visitors)
			r.Get("/analytics/sessions/country", analyticsH.sessionsByCountry)
			r.Get("/analytics/sessions/device", analyticsH.sessionsByDevice)
			r.Get("/analytics/customers", analyticsH.latestCustomers)
			r.Get("/analytics/transactions", analyticsH.transactions)
		})
	})

	return r
}
