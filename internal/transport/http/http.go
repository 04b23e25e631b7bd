package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/webshop-labs/storefront/internal/service/services/authsvc"
	"github.com/webshop-labs/storefront/internal/service/services/ordersvc"
	"github.com/webshop-labs/storefront/internal/service/services/productsvc"
	authhandlers "github.com/webshop-labs/storefront/internal/transport/http/auth"
	createorderforuser "github.com/webshop-labs/storefront/internal/transport/http/create_order_for_user"
	listallorders "github.com/webshop-labs/storefront/internal/transport/http/list_all_orders"
	listmyorders "github.com/webshop-labs/storefront/internal/transport/http/list_my_orders"
	placeorder "github.com/webshop-labs/storefront/internal/transport/http/place_order"
	"github.com/webshop-labs/storefront/internal/transport/http/products"
	updateorderstatus "github.com/webshop-labs/storefront/internal/transport/http/update_order_status"
	"github.com/webshop-labs/storefront/pkg/http/middleware/auth"
	"github.com/webshop-labs/storefront/pkg/http/middleware/trace"
	"github.com/webshop-labs/storefront/pkg/logger"
)

type HTTPTransport struct {
	server        *http.Server
	router        *chi.Mux
	orderSvc      *ordersvc.OrderService
	productSvc    *productsvc.ProductService
	authSvc       *authsvc.AuthService
	authenticator *auth.Authenticator
}

func NewHTTPTransport(
	orderSvc *ordersvc.OrderService,
	productSvc *productsvc.ProductService,
	authSvc *authsvc.AuthService,
	authenticator *auth.Authenticator,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:        server,
		router:        router,
		orderSvc:      orderSvc,
		productSvc:    productSvc,
		authSvc:       authSvc,
		authenticator: authenticator,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.With(h.authenticator.Handler).Get("/profile", h.profile)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticator.Handler, h.authenticator.AdminOnly)
				r.Post("/", h.createProduct)
				r.Put("/{id}", h.updateProduct)
				r.Delete("/{id}", h.deleteProduct)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(h.authenticator.Handler)

			r.Post("/", h.placeOrder)
			r.Get("/my", h.listMyOrders)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticator.AdminOnly)
				r.Get("/", h.listAllOrders)
				r.Put("/{id}/status", h.updateOrderStatus)
				r.Post("/admin", h.createOrderForUser)
			})
		})
	})
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	authhandlers.Register(w, r, h.authSvc)
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	authhandlers.Login(w, r, h.authSvc)
}

func (h *HTTPTransport) profile(w http.ResponseWriter, r *http.Request) {
	authhandlers.Profile(w, r, h.authSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.ListProducts(w, r, h.productSvc)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	products.GetProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.CreateProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) updateProduct(w http.ResponseWriter, r *http.Request) {
	products.UpdateProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) deleteProduct(w http.ResponseWriter, r *http.Request) {
	products.DeleteProduct(w, r, h.productSvc)
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listMyOrders(w http.ResponseWriter, r *http.Request) {
	listmyorders.ListMyOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) listAllOrders(w http.ResponseWriter, r *http.Request) {
	listallorders.ListAllOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updateorderstatus.UpdateOrderStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) createOrderForUser(w http.ResponseWriter, r *http.Request) {
	createorderforuser.CreateOrderForUser(w, r, h.orderSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
