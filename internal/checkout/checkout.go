// Package checkout turns the cart into an order record and a prefilled
// outbound message.
//
// The composer is a two-step flow: the cart view, then the delivery-details
// view. Stepping back to the cart keeps everything already typed, so
// amending items never costs the user their contact details. A successful
// submit appends to the local order history and hands the rendered message
// off for delivery; it deliberately does not clear the cart, so the order
// can be re-sent or edited before it is confirmed externally.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/boutikpaw/storefront/internal/localstore"
	"github.com/boutikpaw/storefront/internal/platform/id"
)

// Step is the composer's position in the checkout flow.
type Step string

const (
	// StepCart shows the cart contents.
	StepCart Step = "cart"
	// StepCheckout collects delivery details.
	StepCheckout Step = "checkout"
)

// ErrMissingDetails indicates a required delivery field was empty.
var ErrMissingDetails = errors.New("customer name, address, and phone are required")

// OrderDetails is the ephemeral delivery input. It is never persisted on its
// own, only embedded into a PastOrder and the outbound message.
type OrderDetails struct {
	CustomerName string
	Address      string
	Phone        string
}

// Messenger hands the composed link off to the external messaging
// application. Delivery is fire-and-forget; no response is expected.
type Messenger interface {
	Open(link string) error
}

// Composer validates delivery details, records orders locally, and renders
// the outbound message.
type Composer struct {
	store     localstore.Store
	messenger Messenger
	clock     func() time.Time
	newToken  func() (string, error)

	mu      sync.Mutex
	step    Step
	details OrderDetails
}

// New creates a composer at the cart step. The messenger may be nil when the
// caller opens the link itself.
func New(store localstore.Store, messenger Messenger) *Composer {
	return &Composer{
		store:     store,
		messenger: messenger,
		clock:     time.Now,
		newToken:  newOrderToken,
		step:      StepCart,
	}
}

// Step reports the current flow position.
func (c *Composer) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// BeginCheckout moves from the cart view to the delivery-details view.
func (c *Composer) BeginCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepCheckout
}

// BackToCart returns to the cart view. Entered details are preserved.
func (c *Composer) BackToCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepCart
}

// Details returns the delivery details entered so far.
func (c *Composer) Details() OrderDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// SetDetails records the delivery details as typed, untrimmed.
func (c *Composer) SetDetails(details OrderDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details = details
}

// Submit validates the delivery details, appends a new order to the local
// history (most recent first), and opens the outbound message addressed to
// waNumber. The cart is left untouched.
func (c *Composer) Submit(ctx context.Context, entries []localstore.CartEntry, waNumber string) (localstore.PastOrder, error) {
	c.mu.Lock()
	details := c.details
	c.mu.Unlock()

	details.CustomerName = strings.TrimSpace(details.CustomerName)
	details.Address = strings.TrimSpace(details.Address)
	details.Phone = strings.TrimSpace(details.Phone)
	if details.CustomerName == "" || details.Address == "" || details.Phone == "" {
		return localstore.PastOrder{}, ErrMissingDetails
	}

	token, err := c.newToken()
	if err != nil {
		return localstore.PastOrder{}, fmt.Errorf("order token: %w", err)
	}
	now := c.clock().UTC()
	order := localstore.PastOrder{
		ID:    fmt.Sprintf("%d-%s", now.UnixMilli(), token),
		Date:  now,
		Items: copyEntries(entries),
		Total: orderTotal(entries),
	}

	history, err := c.store.LoadOrderHistory(ctx)
	if err != nil {
		return localstore.PastOrder{}, fmt.Errorf("load order history: %w", err)
	}
	updated := append([]localstore.PastOrder{order}, history...)
	if err := c.store.SaveOrderHistory(ctx, updated); err != nil {
		return localstore.PastOrder{}, fmt.Errorf("save order history: %w", err)
	}

	link := ComposeLink(waNumber, RenderMessage(details, entries))
	if c.messenger != nil {
		if err := c.messenger.Open(link); err != nil {
			return localstore.PastOrder{}, fmt.Errorf("open messaging hand-off: %w", err)
		}
	}
	return order, nil
}

// RenderMessage builds the human-readable itemized order message.
func RenderMessage(details OrderDetails, entries []localstore.CartEntry) string {
	var b strings.Builder
	b.WriteString("*📦 NOUVÈL KÒMAND - BOUTIK PAW*\n\n")
	fmt.Fprintf(&b, "👤 *Kliyan:* %s\n", details.CustomerName)
	fmt.Fprintf(&b, "📍 *Livrezon:* %s\n", details.Address)
	fmt.Fprintf(&b, "📞 *Tel:* %s\n\n", details.Phone)
	b.WriteString("🛒 *Panyen:*\n")
	for _, entry := range entries {
		subtotal := entry.Product.Price * int64(entry.Quantity)
		fmt.Fprintf(&b, "• %s (%dx) : *%s G*\n", entry.Product.Name, entry.Quantity, formatAmount(subtotal))
	}
	b.WriteString("\n---")
	fmt.Fprintf(&b, "\n💰 *TOTAL POU PEYE:* *%s Gdes*", formatAmount(orderTotal(entries)))
	b.WriteString("\n\n_Voye mesaj sa a kounye a pou nou ka kòmanse prepare kòmand ou an!_")
	return b.String()
}

// ComposeLink builds the messaging hand-off URL with the message body
// URL-encoded.
func ComposeLink(waNumber, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", waNumber, url.QueryEscape(message))
}

func orderTotal(entries []localstore.CartEntry) int64 {
	var total int64
	for _, entry := range entries {
		total += entry.Product.Price * int64(entry.Quantity)
	}
	return total
}

func copyEntries(entries []localstore.CartEntry) []localstore.CartEntry {
	return append([]localstore.CartEntry(nil), entries...)
}

// formatAmount renders an integer gourde amount with thousands separators.
func formatAmount(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// newOrderToken provides the uniqueness suffix for time-derived order ids.
func newOrderToken() (string, error) {
	token, err := id.NewID()
	if err != nil {
		return "", err
	}
	return token[:6], nil
}
