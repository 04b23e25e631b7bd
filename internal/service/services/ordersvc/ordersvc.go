package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/webshop-labs/storefront/internal/dal/interfaces/iauditrepo"
	"github.com/webshop-labs/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/webshop-labs/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/webshop-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/webshop-labs/storefront/internal/dal/interfaces/iuserrepo"
	"github.com/webshop-labs/storefront/internal/dal/postgres"
	"github.com/webshop-labs/storefront/internal/dal/uow"
	orderrepo "github.com/webshop-labs/storefront/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/webshop-labs/storefront/internal/dal/repositories/orderitem/postgres"
	"github.com/webshop-labs/storefront/internal/service/models/order"
	"github.com/webshop-labs/storefront/internal/service/models/orderevent"
	"github.com/webshop-labs/storefront/internal/service/models/orderitem"
	"github.com/webshop-labs/storefront/internal/service/models/product"
	"github.com/webshop-labs/storefront/internal/service/models/status"
)

var (
	// ErrNoItems is returned when an order is submitted without line items.
	ErrNoItems = errors.New("no order items")
	// ErrEmailRequired is returned when admin order creation omits the
	// customer email.
	ErrEmailRequired = errors.New("userEmail is required")
)

// OrderService is the order lifecycle service: placing orders, listing them
// for customers and admins, and mutating order status.
type OrderService struct {
	uowFactory    func() unitOfWork
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	userRepo      iuserrepo.IUserRepository
	productRepo   iproductrepo.IProductRepository
	auditRepo     iauditrepo.IAuditRepository
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres-backed repositories and unit of work
// for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
		s.orderRepo = orderrepo.NewPostgresOrderRepository(pgClient.Pool())
		s.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(pgClient.Pool())
	}
}

// WithUserRepository sets the user repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(userRepo iuserrepo.IUserRepository) option {
	return func(s *OrderService) {
		s.userRepo = userRepo
	}
}

// WithProductRepository sets the product repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(productRepo iproductrepo.IProductRepository) option {
	return func(s *OrderService) {
		s.productRepo = productRepo
	}
}

// WithAuditRepository sets the audit event publisher for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(auditRepo iauditrepo.IAuditRepository) option {
	return func(s *OrderService) {
		s.auditRepo = auditRepo
	}
}

// WithRepositories sets plain repositories and a unit of work factory.
// Intended for tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(
	uowFactory func() unitOfWork,
	orderRepo iorderrepo.IOrderRepository,
	orderItemRepo iorderitemrepo.IOrderItemRepository,
) option {
	return func(s *OrderService) {
		s.uowFactory = uowFactory
		s.orderRepo = orderRepo
		s.orderItemRepo = orderItemRepo
	}
}

// PlaceOrder creates an order owned by the calling user with status pending.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	userID int64,
	items []orderitem.OrderItem,
	totalCents int64,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(items) == 0 {
		return order.Order{}, ErrNoItems
	}

	created, err := s.createOrder(ctx, order.Order{
		UserID:     userID,
		TotalCents: totalCents,
		Status:     status.StatusPending,
		Items:      items,
	})
	if err != nil {
		return order.Order{}, err
	}

	s.publishEvent(ctx, orderevent.TypeOrderCreated, created)

	return created, nil
}

// ListOwnOrders returns the calling user's orders, most recent first, with
// line items resolved to product display fields.
func (s *OrderService) ListOwnOrders(ctx context.Context, userID int64) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListOwnOrders")
	defer span.End()

	orders, err := s.orderRepo.Query(ctx, &order.QueryOrdersModel{
		UserIds: []int64{userID},
	})
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.populateItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListAllOrders returns all orders, or, when searchTerm is set, the orders of
// users whose name or email contains the term. Admin only; the transport
// gates the role.
func (s *OrderService) ListAllOrders(ctx context.Context, searchTerm string) ([]order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.ListAllOrders")
	defer span.End()

	filter := &order.QueryOrdersModel{}

	if searchTerm != "" {
		users, err := s.userRepo.Search(ctx, searchTerm)
		if err != nil {
			return nil, err
		}

		// No matching users means no matching orders, not an error.
		if len(users) == 0 {
			return []order.Order{}, nil
		}

		for _, u := range users {
			filter.UserIds = append(filter.UserIds, u.ID)
		}
	}

	orders, err := s.orderRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	if err := s.populateItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := s.populateCustomers(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus sets a new lifecycle status on an order. Values outside the
// status enumeration are rejected before any read or write. Any enumeration
// member is accepted regardless of the current status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	parsed, err := status.Parse(newStatus)
	if err != nil {
		return order.Order{}, err
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, order.Order{
		ID:     orderID,
		Status: parsed,
	})
	if err != nil {
		return order.Order{}, err
	}

	orders := []order.Order{updated}
	if err := s.populateItems(ctx, orders); err != nil {
		return order.Order{}, err
	}
	if err := s.populateCustomers(ctx, orders); err != nil {
		return order.Order{}, err
	}

	s.publishEvent(ctx, orderevent.TypeOrderStatusChanged, orders[0])

	return orders[0], nil
}

// CreateForUser creates an order on behalf of the user with the given email.
// An initial status outside the enumeration silently falls back to pending;
// creation has a safe default where an explicit update does not.
func (s *OrderService) CreateForUser(
	ctx context.Context,
	userEmail string,
	items []orderitem.OrderItem,
	totalCents int64,
	initialStatus string,
) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "OrderService.CreateForUser")
	defer span.End()

	if userEmail == "" {
		return order.Order{}, ErrEmailRequired
	}
	if len(items) == 0 {
		return order.Order{}, ErrNoItems
	}

	owner, err := s.userRepo.GetByEmail(ctx, strings.ToLower(userEmail))
	if err != nil {
		return order.Order{}, err
	}

	created, err := s.createOrder(ctx, order.Order{
		UserID:     owner.ID,
		TotalCents: totalCents,
		Status:     status.ParseOrDefault(initialStatus),
		Items:      items,
	})
	if err != nil {
		return order.Order{}, err
	}

	created.Customer = &owner

	s.publishEvent(ctx, orderevent.TypeOrderCreated, created)

	return created, nil
}

// createOrder persists an order with its items in a single transaction.
func (s *OrderService) createOrder(ctx context.Context, o order.Order) (order.Order, error) {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	for i := range o.Items {
		o.Items[i].CreatedAt = now
	}

	work := s.uowFactory()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, err
	}

	inserted, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		_ = work.Rollback(ctx)

		return order.Order{}, err
	}

	items := make([]orderitem.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].OrderID = inserted.ID
	}

	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		_ = work.Rollback(ctx)

		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	inserted.Items = items

	return inserted, nil
}

// populateItems loads the line items for all orders in one batch and resolves
// their product display fields.
func (s *OrderService) populateItems(ctx context.Context, orders []order.Order) error {
	itemFilter := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemFilter.OrderIds = append(itemFilter.OrderIds, o.ID)
	}

	items, err := s.orderItemRepo.Query(ctx, itemFilter)
	if err != nil {
		return err
	}

	productIds := make([]int64, 0, len(items))
	seen := make(map[int64]bool)
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIds = append(productIds, item.ProductID)
		}
	}

	products := make(map[int64]product.Product)
	if s.productRepo != nil && len(productIds) > 0 {
		found, err := s.productRepo.Query(ctx, &product.QueryProductsModel{Ids: productIds})
		if err != nil {
			return err
		}
		for _, p := range found {
			products[p.ID] = p
		}
	}

	for i := range items {
		if p, ok := products[items[i].ProductID]; ok {
			items[i].Product = &p
		}
	}

	for i := range orders {
		orders[i].Items = []orderitem.OrderItem{}
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].Items = append(orders[i].Items, item)
			}
		}
	}

	return nil
}

// populateCustomers resolves owner name and email for admin-facing reads.
func (s *OrderService) populateCustomers(ctx context.Context, orders []order.Order) error {
	userIds := make([]int64, 0, len(orders))
	seen := make(map[int64]bool)
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			userIds = append(userIds, o.UserID)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, userIds)
	if err != nil {
		return err
	}

	byID := make(map[int64]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}

	for i := range orders {
		if idx, ok := byID[orders[i].UserID]; ok {
			orders[i].Customer = &users[idx]
		}
	}

	return nil
}

// publishEvent emits an audit event. Audit failures are logged, never
// propagated; the order mutation has already committed.
func (s *OrderService) publishEvent(ctx context.Context, eventType string, o order.Order) {
	if s.auditRepo == nil {
		return
	}

	err := s.auditRepo.Publish(ctx, []orderevent.OrderEvent{{
		Type:       eventType,
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalCents: o.TotalCents,
		OccurredAt: time.Now(),
	}})
	if err != nil {
		slog.Error("Failed to publish audit event", "order_id", o.ID, "type", eventType, "error", err)
	}
}
