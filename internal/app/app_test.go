package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boutikpaw/storefront/internal/admin"
	"github.com/boutikpaw/storefront/internal/assistant"
	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/catalog/mirror"
	"github.com/boutikpaw/storefront/internal/checkout"
	"github.com/boutikpaw/storefront/internal/localstore"
	"github.com/boutikpaw/storefront/internal/remote"
	"github.com/boutikpaw/storefront/internal/toast"
)

type fakeSubscription struct {
	cancel func()
}

func (s *fakeSubscription) Cancel() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

type fakeRemote struct {
	mu       sync.Mutex
	rows     map[remote.Kind][]remote.Row
	handlers map[remote.Kind][]func(remote.Event)
	inserted map[remote.Kind][]remote.Row
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		rows:     make(map[remote.Kind][]remote.Row),
		handlers: make(map[remote.Kind][]func(remote.Event)),
		inserted: make(map[remote.Kind][]remote.Row),
	}
}

func (f *fakeRemote) setRows(kind remote.Kind, rows []remote.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[kind] = rows
}

func (f *fakeRemote) insertCount(kind remote.Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted[kind])
}

func (f *fakeRemote) Fetch(ctx context.Context, kind remote.Kind) ([]remote.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Row(nil), f.rows[kind]...), nil
}

func (f *fakeRemote) Insert(ctx context.Context, kind remote.Kind, row remote.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted[kind] = append(f.inserted[kind], row)
	f.rows[kind] = append(f.rows[kind], row)
	return nil
}

func (f *fakeRemote) Update(ctx context.Context, kind remote.Kind, id string, patch remote.Row) error {
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, kind remote.Kind, id string) error {
	return nil
}

func (f *fakeRemote) SubscribeChanges(ctx context.Context, kind remote.Kind, onEvent func(remote.Event)) (remote.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[kind] = append(f.handlers[kind], onEvent)
	return &fakeSubscription{}, nil
}

func (f *fakeRemote) emit(kind remote.Kind, op remote.Op) {
	f.mu.Lock()
	handlers := append([]func(remote.Event){}, f.handlers[kind]...)
	f.mu.Unlock()
	for _, handler := range handlers {
		handler(remote.Event{Kind: kind, Op: op})
	}
}

type memStore struct {
	mu       sync.Mutex
	cart     []localstore.CartEntry
	wishlist []string
	contact  string
	history  []localstore.PastOrder
}

func (s *memStore) SaveCart(ctx context.Context, entries []localstore.CartEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = append([]localstore.CartEntry(nil), entries...)
	return nil
}

func (s *memStore) LoadCart(ctx context.Context) ([]localstore.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]localstore.CartEntry(nil), s.cart...), nil
}

func (s *memStore) SaveWishlist(ctx context.Context, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist = append([]string(nil), productIDs...)
	return nil
}

func (s *memStore) LoadWishlist(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.wishlist...), nil
}

func (s *memStore) SaveContact(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = number
	return nil
}

func (s *memStore) LoadContact(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact, nil
}

func (s *memStore) SaveOrderHistory(ctx context.Context, orders []localstore.PastOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]localstore.PastOrder(nil), orders...)
	return nil
}

func (s *memStore) LoadOrderHistory(ctx context.Context) ([]localstore.PastOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]localstore.PastOrder(nil), s.history...), nil
}

type adviceInvoker struct {
	mu    sync.Mutex
	calls int
}

func (f *adviceInvoker) Invoke(ctx context.Context, input assistant.InvokeInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return "Ajoute yon chapo!", nil
}

func (f *adviceInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func productRow(id, name string, price int64) remote.Row {
	return remote.Row{"id": id, "name": name, "price": price, "category": "Lakay"}
}

func newTestApp(t *testing.T, remoteClient remote.Client, store localstore.Store, invoker assistant.Invoker) *App {
	t.Helper()
	var asst *assistant.Assistant
	if invoker != nil {
		asst = assistant.New(invoker)
	}
	a := New(mirror.New(remoteClient), store, asst, admin.NewSession("sezam"))
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(a.Stop)
	return a
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartGoesLiveOnNonEmptySnapshot(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	backend.setRows(remote.KindProducts, []remote.Row{productRow("p1", "Sandal kui", 4500)})
	a := newTestApp(t, backend, &memStore{}, nil)

	waitFor(t, "live phase", func() bool { return a.Phase() == PhaseLive })
	products := a.Products(catalog.CategoryAll, "")
	if len(products) != 1 || products[0].Name != "Sandal kui" {
		t.Fatalf("Products() = %+v, want the backend snapshot", products)
	}
}

func TestEmptyBackendIsSeeded(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	a := newTestApp(t, backend, &memStore{}, nil)

	waitFor(t, "seeded phase", func() bool { return a.Phase() == PhaseSeeded })
	seed := catalog.SeedProducts()
	if got := a.Products(catalog.CategoryAll, ""); len(got) != len(seed) {
		t.Fatalf("Products() has %d items, want the %d starter products", len(got), len(seed))
	}

	waitFor(t, "starter products planted remotely", func() bool {
		return backend.insertCount(remote.KindProducts) == len(seed)
	})

	// The planting generates change events; the refetched snapshot takes over.
	backend.emit(remote.KindProducts, remote.OpInsert)
	waitFor(t, "live phase after planting", func() bool { return a.Phase() == PhaseLive })
}

func TestConfirmedEmptyBackendGoesLive(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	a := newTestApp(t, backend, &memStore{}, nil)

	waitFor(t, "seeded phase", func() bool { return a.Phase() == PhaseSeeded })
	waitFor(t, "starter products planted remotely", func() bool {
		return backend.insertCount(remote.KindProducts) == len(catalog.SeedProducts())
	})

	// The backend empties out again; the refetched empty snapshot is real
	// data now and must replace the starter set for good.
	backend.setRows(remote.KindProducts, nil)
	backend.emit(remote.KindProducts, remote.OpDelete)

	waitFor(t, "live phase on confirmed-empty snapshot", func() bool { return a.Phase() == PhaseLive })
	if got := a.Products(catalog.CategoryAll, ""); len(got) != 0 {
		t.Fatalf("Products() has %d items after confirmed-empty snapshot, want none", len(got))
	}
}

func TestProductsAppliesFilters(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	backend.setRows(remote.KindProducts, []remote.Row{
		remote.Row{"id": "p1", "name": "Sandal kui", "price": int64(4500), "category": "Chosèt"},
		remote.Row{"id": "p2", "name": "Chapo pay", "price": int64(7500), "category": "Tèt"},
	})
	a := newTestApp(t, backend, &memStore{}, nil)
	waitFor(t, "live phase", func() bool { return a.Phase() == PhaseLive })

	if got := a.Products("Tèt", ""); len(got) != 1 || got[0].ID != "p2" {
		t.Errorf(`Products("Tèt", "") = %+v, want only the hat`, got)
	}
	if got := a.Products(catalog.CategoryAll, "sandal"); len(got) != 1 || got[0].ID != "p1" {
		t.Errorf(`Products(All, "sandal") = %+v, want only the sandal`, got)
	}
}

func TestWishlistToggleAndPersistence(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	backend := newFakeRemote()
	backend.setRows(remote.KindProducts, []remote.Row{productRow("p1", "Sandal kui", 4500)})
	a := newTestApp(t, backend, store, nil)

	if !a.ToggleWishlist(context.Background(), "p1") {
		t.Fatal("first toggle = false, want wished")
	}
	if !a.Wished("p1") {
		t.Fatal("Wished(p1) = false after toggle")
	}
	if got, _ := store.LoadWishlist(context.Background()); len(got) != 1 || got[0] != "p1" {
		t.Fatalf("persisted wishlist = %v, want [p1]", got)
	}

	if a.ToggleWishlist(context.Background(), "p1") {
		t.Fatal("second toggle = true, want removed")
	}
	if got, _ := store.LoadWishlist(context.Background()); len(got) != 0 {
		t.Fatalf("persisted wishlist = %v, want empty", got)
	}
}

func TestWhatsAppNumberOverride(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	a := newTestApp(t, newFakeRemote(), store, nil)

	if got := a.WhatsAppNumber(); got != catalog.DefaultWhatsAppNumber {
		t.Fatalf("WhatsAppNumber() = %q, want default", got)
	}
	if err := a.SetWhatsAppNumber(context.Background(), "+50911112222"); err != nil {
		t.Fatalf("SetWhatsAppNumber() error = %v", err)
	}
	if got := a.WhatsAppNumber(); got != "+50911112222" {
		t.Fatalf("WhatsAppNumber() = %q, want override", got)
	}
	if store.contact != "+50911112222" {
		t.Fatalf("persisted contact = %q, want override", store.contact)
	}
}

func TestAdviceRefreshesOnTotalChange(t *testing.T) {
	t.Parallel()

	invoker := &adviceInvoker{}
	a := newTestApp(t, newFakeRemote(), &memStore{}, invoker)

	product := catalog.Product{ID: "p1", Name: "Sandal kui", Price: 4500, Category: "Chosèt"}
	a.AddToCart(context.Background(), product)
	if a.Advice() == "" {
		t.Fatal("Advice() empty after cart change")
	}
	first := invoker.callCount()

	// Removing an absent id keeps the total unchanged; no new advice.
	a.RemoveFromCart(context.Background(), "missing")
	if got := invoker.callCount(); got != first {
		t.Fatalf("invoker calls = %d after no-op removal, want %d", got, first)
	}

	a.ChangeQuantity(context.Background(), "p1", +1)
	if got := invoker.callCount(); got != first+1 {
		t.Fatalf("invoker calls = %d after total change, want %d", got, first+1)
	}
}

func TestManagementRequiresUnlock(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	a := newTestApp(t, backend, &memStore{}, nil)
	waitFor(t, "seeded phase", func() bool { return a.Phase() == PhaseSeeded })
	planted := backend.insertCount(remote.KindProducts)

	product := catalog.Product{Name: "Chapo pay", Price: 7500, Category: "Tèt"}
	if a.CreateProduct(context.Background(), product) {
		t.Fatal("CreateProduct() = true while locked")
	}
	if got := backend.insertCount(remote.KindProducts); got != planted {
		t.Fatalf("backend inserts = %d, want no insert while locked", got)
	}
	if !hasToast(a.Toasts, toast.KindError) {
		t.Fatal("no error toast after locked management attempt")
	}

	if err := a.Admin.Unlock("sezam"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if !a.CreateProduct(context.Background(), product) {
		t.Fatal("CreateProduct() = false while unlocked")
	}
	if got := backend.insertCount(remote.KindProducts); got != planted+1 {
		t.Fatalf("backend inserts = %d, want %d", got, planted+1)
	}
}

func TestSubmitOrderKeepsCart(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	a := newTestApp(t, newFakeRemote(), store, nil)

	a.AddToCart(context.Background(), catalog.Product{ID: "p1", Name: "Sandal kui", Price: 4500, Category: "Chosèt"})
	a.Checkout.SetDetails(checkout.OrderDetails{
		CustomerName: "Marie",
		Address:      "Petyonvil",
		Phone:        "+509 1234",
	})

	order, err := a.SubmitOrder(context.Background())
	if err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}
	if order.Total != 4500 {
		t.Errorf("order total = %d, want 4500", order.Total)
	}
	if got := a.Cart.ItemCount(); got != 1 {
		t.Errorf("cart item count = %d after submit, want unchanged", got)
	}
	if history, _ := store.LoadOrderHistory(context.Background()); len(history) != 1 {
		t.Errorf("order history has %d entries, want 1", len(history))
	}
	if !hasToast(a.Toasts, toast.KindSuccess) {
		t.Error("no success toast after submitted order")
	}
}

func TestAskKeepsChatHistory(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, newFakeRemote(), &memStore{}, &adviceInvoker{})

	reply := a.Ask(context.Background(), "eske nou gen chapo?")
	if reply == "" {
		t.Fatal("Ask() returned empty reply")
	}
	history := a.ChatHistory()
	if len(history) != 2 {
		t.Fatalf("ChatHistory() has %d turns, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Text != "eske nou gen chapo?" {
		t.Errorf("history[0] = %+v, want the question", history[0])
	}
	if history[1].Role != "assistant" || history[1].Text != reply {
		t.Errorf("history[1] = %+v, want the reply", history[1])
	}
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeImages) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	return "https://bucket.example/object/public/images/" + filename, nil
}

func (f *fakeImages) Delete(ctx context.Context, publicURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicURL)
	return nil
}

func TestUpdateProductDiscardsReplacedImage(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	oldImage := "https://bucket.example/object/public/images/old.png"
	backend.setRows(remote.KindProducts, []remote.Row{
		remote.Row{"id": "p1", "name": "Sandal kui", "price": int64(4500), "category": "Chosèt", "image": oldImage},
	})
	a := newTestApp(t, backend, &memStore{}, nil)
	images := &fakeImages{}
	a.UseImageStore(images)
	waitFor(t, "live phase", func() bool { return a.Phase() == PhaseLive })
	if err := a.Admin.Unlock("sezam"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	updated := catalog.Product{
		ID:       "p1",
		Name:     "Sandal kui",
		Price:    4500,
		Category: "Chosèt",
		Image:    "https://bucket.example/object/public/images/new.png",
	}
	if !a.UpdateProduct(context.Background(), updated) {
		t.Fatal("UpdateProduct() = false")
	}
	if len(images.deleted) != 1 || images.deleted[0] != oldImage {
		t.Fatalf("deleted images = %v, want the replaced one", images.deleted)
	}
}

func TestDeleteProductDiscardsImage(t *testing.T) {
	t.Parallel()

	backend := newFakeRemote()
	image := "https://bucket.example/object/public/images/p1.png"
	backend.setRows(remote.KindProducts, []remote.Row{
		remote.Row{"id": "p1", "name": "Sandal kui", "price": int64(4500), "category": "Chosèt", "image": image},
	})
	a := newTestApp(t, backend, &memStore{}, nil)
	images := &fakeImages{}
	a.UseImageStore(images)
	waitFor(t, "live phase", func() bool { return a.Phase() == PhaseLive })
	if err := a.Admin.Unlock("sezam"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	if !a.DeleteProduct(context.Background(), "p1") {
		t.Fatal("DeleteProduct() = false")
	}
	if len(images.deleted) != 1 || images.deleted[0] != image {
		t.Fatalf("deleted images = %v, want the product's image", images.deleted)
	}
}

func TestUploadImageRequiresUnlockAndStore(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, newFakeRemote(), &memStore{}, nil)
	if _, err := a.UploadImage(context.Background(), "x.png", "image/png", []byte("png")); err != ErrLocked {
		t.Fatalf("UploadImage() while locked error = %v, want ErrLocked", err)
	}
	if err := a.Admin.Unlock("sezam"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if _, err := a.UploadImage(context.Background(), "x.png", "image/png", []byte("png")); err != ErrNoImageStore {
		t.Fatalf("UploadImage() without store error = %v, want ErrNoImageStore", err)
	}

	a.UseImageStore(&fakeImages{})
	publicURL, err := a.UploadImage(context.Background(), "x.png", "image/png", []byte("png"))
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if publicURL == "" {
		t.Fatal("UploadImage() returned empty URL")
	}
}

func hasToast(q *toast.Queue, kind toast.Kind) bool {
	for _, entry := range q.Active() {
		if entry.Kind == kind {
			return true
		}
	}
	return false
}
