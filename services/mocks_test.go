package services_test

import (
	"context"
	"encoding/json"

	"checkout-service/models"
	"checkout-service/repository"
	"checkout-service/services"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// ---- transaction runner ----

type snapshotter interface {
	snapshot() func()
}

// fakeTx runs the callback against the in-memory stores and restores their
// state when the callback fails, mirroring a rolled-back transaction.
type fakeTx struct {
	stores []snapshotter
}

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

func deepCopy[T any](src map[uuid.UUID]*T) map[uuid.UUID]*T {
	dst := make(map[uuid.UUID]*T, len(src))
	for k, v := range src {
		data, _ := json.Marshal(v)
		cp := new(T)
		_ = json.Unmarshal(data, cp)
		// json drops the raw gateway event bytes tagged json:"-"; tests
		// only assert on the flags, so that loss is acceptable here.
		dst[k] = cp
	}
	return dst
}

// ---- cart repository ----

type fakeCartRepo struct {
	carts map[uuid.UUID]*models.Cart // keyed by customer id
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uuid.UUID]*models.Cart)}
}

func (r *fakeCartRepo) snapshot() func() {
	saved := deepCopy(r.carts)
	return func() { r.carts = saved }
}

func (r *fakeCartRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID) (*models.Cart, error) {
	cart, ok := r.carts[customerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cart, nil
}

func (r *fakeCartRepo) Save(_ context.Context, cart *models.Cart) error {
	r.carts[cart.CustomerID] = cart
	return nil
}

func (r *fakeCartRepo) DeleteByCustomerID(_ context.Context, customerID uuid.UUID) error {
	delete(r.carts, customerID)
	return nil
}

// ---- customer repository ----

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*models.Customer)}
}

func (r *fakeCustomerRepo) snapshot() func() {
	saved := deepCopy(r.customers)
	return func() { r.customers = saved }
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepo) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	customer, ok := r.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	customer.Password = hashed
	return nil
}

// ---- product repository / inventory ledger ----

type fakeProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (r *fakeProductRepo) snapshot() func() {
	saved := deepCopy(r.products)
	return func() { r.products = saved }
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	var products []*models.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) ReserveOneUnit(_ context.Context, productID uuid.UUID, color, size string) (bool, error) {
	product, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	unit := product.FindSize(color, size)
	if unit == nil || unit.InventoryQuantity <= 0 {
		return false, nil
	}
	unit.InventoryQuantity--
	return true, nil
}

func (r *fakeProductRepo) quantity(productID uuid.UUID, color, size string) int {
	if unit := r.products[productID].FindSize(color, size); unit != nil {
		return unit.InventoryQuantity
	}
	return -1
}

// ---- order repository ----

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (r *fakeOrderRepo) snapshot() func() {
	saved := deepCopy(r.orders)
	return func() { r.orders = saved }
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByIDAndCustomerID(_ context.Context, id, customerID uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok || order.CustomerID != customerID {
		return nil, repository.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByCustomerID(_ context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, *order)
		}
	}
	return orders, int64(len(orders)), nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	for _, order := range r.orders {
		orders = append(orders, *order)
	}
	return orders, int64(len(orders)), nil
}

func (r *fakeOrderRepo) UpdateFlags(_ context.Context, id uuid.UUID, updates bson.M) error {
	order, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := updates["is_delivered"].(bool); ok {
		order.IsDelivered = v
	}
	if v, ok := updates["is_cancelled"].(bool); ok {
		order.IsCancelled = v
	}
	if v, ok := updates["is_payment_completed"].(bool); ok {
		order.IsPaymentCompleted = v
	}
	return nil
}

// ---- settlement repository ----

type fakeSettlementRepo struct {
	records map[uuid.UUID]*models.SettlementRecord
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{records: make(map[uuid.UUID]*models.SettlementRecord)}
}

func (r *fakeSettlementRepo) snapshot() func() {
	saved := deepCopy(r.records)
	return func() { r.records = saved }
}

func (r *fakeSettlementRepo) Create(_ context.Context, record *models.SettlementRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *fakeSettlementRepo) DeleteByOrderID(_ context.Context, orderID uuid.UUID) error {
	for id, record := range r.records {
		if record.OrderID == orderID {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *fakeSettlementRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.SettlementRecord, error) {
	for _, record := range r.records {
		if record.OrderID == orderID {
			return record, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSettlementRepo) MarkDelivered(_ context.Context, id uuid.UUID, gatewayEvent []byte) error {
	record, ok := r.records[id]
	if !ok {
		return repository.ErrNotFound
	}
	record.Delivered = true
	record.GatewayEvent = gatewayEvent
	return nil
}

func (r *fakeSettlementRepo) byOrderID(orderID uuid.UUID) *models.SettlementRecord {
	for _, record := range r.records {
		if record.OrderID == orderID {
			return record
		}
	}
	return nil
}

// ---- analytics repository ----

type fakeAnalyticsRepo struct {
	dashboard models.Analytics
	sold      map[uuid.UUID]int64
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{
		dashboard: models.Analytics{Name: models.DashboardName},
		sold:      make(map[uuid.UUID]int64),
	}
}

func (r *fakeAnalyticsRepo) snapshot() func() {
	savedDashboard := r.dashboard
	savedSold := make(map[uuid.UUID]int64, len(r.sold))
	for k, v := range r.sold {
		savedSold[k] = v
	}
	return func() {
		r.dashboard = savedDashboard
		r.sold = savedSold
	}
}

func (r *fakeAnalyticsRepo) IncrementOrders(_ context.Context, amount int) error {
	r.dashboard.TotalOrders++
	r.dashboard.TotalOrderAmount += int64(amount)
	return nil
}

func (r *fakeAnalyticsRepo) IncrementSold(_ context.Context, productID uuid.UUID, units int) error {
	r.sold[productID] += int64(units)
	return nil
}

func (r *fakeAnalyticsRepo) GetDashboard(_ context.Context) (*models.Analytics, error) {
	snapshot := r.dashboard
	return &snapshot, nil
}

func (r *fakeAnalyticsRepo) TopSelling(_ context.Context, limit int) ([]models.BestSelling, error) {
	var top []models.BestSelling
	for id, qty := range r.sold {
		top = append(top, models.BestSelling{ProductID: id, Quantity: qty})
	}
	return top, nil
}

// ---- payment gateway ----

type fakeGateway struct {
	err     error
	lastReq services.PaymentIntentRequest
	calls   int
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, req services.PaymentIntentRequest) (*services.PaymentIntentResult, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return &services.PaymentIntentResult{IntentID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

// ---- confirmation publisher ----

type fakePublisher struct {
	published []services.OrderConfirmation
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, confirmation services.OrderConfirmation) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, confirmation)
	return nil
}

// ---- cache invalidator ----

type fakeCache struct {
	invalidations int
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.invalidations++
	return nil
}
