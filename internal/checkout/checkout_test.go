package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/localstore"
)

type fakeStore struct {
	history []localstore.PastOrder
	saveErr error
}

func (s *fakeStore) SaveCart(ctx context.Context, entries []localstore.CartEntry) error {
	return nil
}

func (s *fakeStore) LoadCart(ctx context.Context) ([]localstore.CartEntry, error) {
	return nil, nil
}

func (s *fakeStore) SaveWishlist(ctx context.Context, ids []string) error { return nil }

func (s *fakeStore) LoadWishlist(ctx context.Context) ([]string, error) { return nil, nil }

func (s *fakeStore) SaveContact(ctx context.Context, number string) error { return nil }

func (s *fakeStore) LoadContact(ctx context.Context) (string, error) { return "", nil }

func (s *fakeStore) SaveOrderHistory(ctx context.Context, orders []localstore.PastOrder) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.history = append([]localstore.PastOrder(nil), orders...)
	return nil
}

func (s *fakeStore) LoadOrderHistory(ctx context.Context) ([]localstore.PastOrder, error) {
	return append([]localstore.PastOrder(nil), s.history...), nil
}

type fakeMessenger struct {
	links   []string
	openErr error
}

func (m *fakeMessenger) Open(link string) error {
	if m.openErr != nil {
		return m.openErr
	}
	m.links = append(m.links, link)
	return nil
}

func newTestComposer(store localstore.Store, messenger Messenger) *Composer {
	c := New(store, messenger)
	c.clock = func() time.Time {
		return time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	}
	count := 0
	c.newToken = func() (string, error) {
		count++
		return []string{"aaaaaa", "bbbbbb", "cccccc"}[count-1], nil
	}
	return c
}

func sampleEntries() []localstore.CartEntry {
	return []localstore.CartEntry{
		{Product: catalog.Product{ID: "p1", Name: "Sandal kui", Price: 4500}, Quantity: 2},
		{Product: catalog.Product{ID: "p2", Name: "Chapo pay", Price: 7500}, Quantity: 1},
	}
}

func TestStepFlowPreservesDetails(t *testing.T) {
	t.Parallel()

	c := newTestComposer(&fakeStore{}, nil)
	if got := c.Step(); got != StepCart {
		t.Fatalf("Step() = %q, want %q", got, StepCart)
	}

	c.SetDetails(OrderDetails{CustomerName: "Marie", Address: "Petyonvil", Phone: "+509 1234"})
	c.BeginCheckout()
	if got := c.Step(); got != StepCheckout {
		t.Fatalf("Step() = %q, want %q", got, StepCheckout)
	}

	c.BackToCart()
	if got := c.Step(); got != StepCart {
		t.Fatalf("Step() = %q, want %q", got, StepCart)
	}
	if got := c.Details(); got.CustomerName != "Marie" || got.Address != "Petyonvil" {
		t.Fatalf("Details() = %+v, want preserved input", got)
	}
}

func TestSubmitRejectsMissingDetails(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		details OrderDetails
	}{
		{"empty", OrderDetails{}},
		{"whitespace name", OrderDetails{CustomerName: "  ", Address: "Petyonvil", Phone: "+509 1234"}},
		{"missing address", OrderDetails{CustomerName: "Marie", Phone: "+509 1234"}},
		{"missing phone", OrderDetails{CustomerName: "Marie", Address: "Petyonvil"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			c := newTestComposer(store, nil)
			c.SetDetails(tc.details)
			if _, err := c.Submit(context.Background(), sampleEntries(), "+50936620118"); !errors.Is(err, ErrMissingDetails) {
				t.Fatalf("Submit() error = %v, want ErrMissingDetails", err)
			}
			if len(store.history) != 0 {
				t.Fatalf("history has %d orders, want none", len(store.history))
			}
		})
	}
}

func TestSubmitRecordsOrder(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		history: []localstore.PastOrder{{ID: "older", Total: 100}},
	}
	messenger := &fakeMessenger{}
	c := newTestComposer(store, messenger)
	c.SetDetails(OrderDetails{CustomerName: " Marie ", Address: "Petyonvil", Phone: "+509 1234"})

	entries := sampleEntries()
	order, err := c.Submit(context.Background(), entries, "+50936620118")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if want := "1773480600000-aaaaaa"; order.ID != want {
		t.Errorf("order ID = %q, want %q", order.ID, want)
	}
	if want := int64(16500); order.Total != want {
		t.Errorf("order total = %d, want %d", order.Total, want)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order has %d items, want 2", len(order.Items))
	}

	if len(store.history) != 2 {
		t.Fatalf("history has %d orders, want 2", len(store.history))
	}
	if store.history[0].ID != order.ID {
		t.Errorf("history[0].ID = %q, want new order first", store.history[0].ID)
	}
	if store.history[1].ID != "older" {
		t.Errorf("history[1].ID = %q, want older order kept", store.history[1].ID)
	}

	if len(messenger.links) != 1 {
		t.Fatalf("messenger opened %d links, want 1", len(messenger.links))
	}
	if !strings.HasPrefix(messenger.links[0], "https://wa.me/+50936620118?text=") {
		t.Errorf("link = %q, want wa.me hand-off", messenger.links[0])
	}
}

func TestSubmitDoesNotMutateEntries(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := newTestComposer(store, nil)
	c.SetDetails(OrderDetails{CustomerName: "Marie", Address: "Petyonvil", Phone: "+509 1234"})

	entries := sampleEntries()
	order, err := c.Submit(context.Background(), entries, "+50936620118")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	entries[0].Quantity = 99
	if order.Items[0].Quantity != 2 {
		t.Errorf("order item quantity = %d, want snapshot unaffected by later edits", order.Items[0].Quantity)
	}
}

func TestSubmitSaveFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{saveErr: errors.New("disk full")}
	messenger := &fakeMessenger{}
	c := newTestComposer(store, messenger)
	c.SetDetails(OrderDetails{CustomerName: "Marie", Address: "Petyonvil", Phone: "+509 1234"})

	if _, err := c.Submit(context.Background(), sampleEntries(), "+50936620118"); err == nil {
		t.Fatal("Submit() error = nil, want save failure")
	}
	if len(messenger.links) != 0 {
		t.Fatalf("messenger opened %d links, want none after failed save", len(messenger.links))
	}
}

func TestRenderMessage(t *testing.T) {
	t.Parallel()

	msg := RenderMessage(OrderDetails{
		CustomerName: "Marie",
		Address:      "Petyonvil",
		Phone:        "+509 1234",
	}, sampleEntries())

	for _, want := range []string{
		"*📦 NOUVÈL KÒMAND - BOUTIK PAW*",
		"👤 *Kliyan:* Marie",
		"📍 *Livrezon:* Petyonvil",
		"📞 *Tel:* +509 1234",
		"• Sandal kui (2x) : *9,000 G*",
		"• Chapo pay (1x) : *7,500 G*",
		"💰 *TOTAL POU PEYE:* *16,500 Gdes*",
		"_Voye mesaj sa a kounye a pou nou ka kòmanse prepare kòmand ou an!_",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q\nmessage:\n%s", want, msg)
		}
	}
}

func TestComposeLinkEncodesMessage(t *testing.T) {
	t.Parallel()

	link := ComposeLink("+50936620118", "bonjou mond *test*")
	if want := "https://wa.me/+50936620118?text=bonjou+mond+%2Atest%2A"; link != want {
		t.Errorf("ComposeLink() = %q, want %q", link, want)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for amount, want := range cases {
		if got := formatAmount(amount); got != want {
			t.Errorf("formatAmount(%d) = %q, want %q", amount, got, want)
		}
	}
}
