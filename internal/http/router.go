package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Carts          CartService
	Checkout       CheckoutService
	Sales          SalesThrottle
	Debts          DebtsAPI
	Journal        SalesJournal
	Clients        ClientsAPI
	Refunds        RefundsAPI
	RequestTimeout time.Duration
}

// NewRouter assembles the terminal's API surface under /api/v1.
func NewRouter(cfg RouterConfig) chi.Router {
	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout, cfg.RequestTimeout)
	salesHandler := NewSalesHandler(cfg.Sales, cfg.RequestTimeout)
	analyticsHandler := NewAnalyticsHandler(cfg.Debts, cfg.Journal, cfg.RequestTimeout)
	clientsHandler := NewClientsHandler(cfg.Clients, cfg.RequestTimeout)
	refundsHandler := NewRefundsHandler(cfg.Refunds, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/registers/{register_id}", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}/quantity", cartHandler.UpdateQuantity)
				r.Put("/items/{product_id}/discount", cartHandler.UpdateDiscount)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
				r.Delete("/", cartHandler.ClearCart)
			})
			r.Post("/checkout", checkoutHandler.Checkout)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", salesHandler.ListSales)
			r.Post("/{sale_id}/confirm", salesHandler.ConfirmSale)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/debts/by-client", analyticsHandler.DebtsByClient)
			r.Get("/debts/aging", analyticsHandler.DebtAging)
			r.Get("/debts/collection", analyticsHandler.DebtCollection)
			r.Get("/sales/periods", analyticsHandler.SalesByPeriod)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clientsHandler.ListClients)
			r.Post("/", clientsHandler.CreateClient)
			r.Put("/{client_id}", clientsHandler.UpdateClient)
			r.Get("/{client_id}/debts", clientsHandler.ListClientDebts)
		})

		r.Route("/refund-returns", func(r chi.Router) {
			r.Post("/", refundsHandler.CreateRefundReturn)
			r.Put("/{refund_id}/{action}", refundsHandler.Transition)
		})
	})

	return r
}
