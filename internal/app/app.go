// Package app wires the storefront together: the live catalog mirror, the
// cart, checkout, the assistant, local persistence, and the management gate.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/boutikpaw/storefront/internal/admin"
	"github.com/boutikpaw/storefront/internal/assistant"
	"github.com/boutikpaw/storefront/internal/blob"
	"github.com/boutikpaw/storefront/internal/cart"
	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/catalog/mirror"
	"github.com/boutikpaw/storefront/internal/checkout"
	"github.com/boutikpaw/storefront/internal/localstore"
	"github.com/boutikpaw/storefront/internal/toast"
)

// CatalogPhase describes where the visible catalog comes from.
type CatalogPhase string

const (
	// PhaseLoading means no snapshot has arrived yet.
	PhaseLoading CatalogPhase = "loading"
	// PhaseSeeded means the backend was empty and the built-in starter
	// catalog is shown while it is being planted remotely.
	PhaseSeeded CatalogPhase = "seeded"
	// PhaseLive means snapshots from the backend drive the catalog.
	PhaseLive CatalogPhase = "live"
)

// toastNotifier adapts the toast queue to the cart's notifier, dropping the
// entry ids the cart has no use for.
type toastNotifier struct {
	q *toast.Queue
}

func (n toastNotifier) Success(message string) { n.q.Success(message) }

func (n toastNotifier) Info(message string) { n.q.Info(message) }

// App is the storefront controller. All exported methods are safe for
// concurrent use.
type App struct {
	mirror    *mirror.Mirror
	store     localstore.Store
	assistant *assistant.Assistant
	images    blob.Store

	Toasts   *toast.Queue
	Cart     *cart.Aggregator
	Admin    *admin.Session
	Checkout *checkout.Composer

	mu              sync.Mutex
	phase           CatalogPhase
	products        []catalog.Product
	categories      []catalog.Category
	banner          *catalog.Banner
	wishlist        map[string]bool
	contact         string
	advice          string
	lastAdviceTotal int64
	chatHistory     []assistant.Message
	unsubscribes    []mirror.UnsubscribeFunc
}

// New assembles an app from its collaborators. The assistant may be nil
// when no model provider is configured.
func New(m *mirror.Mirror, store localstore.Store, asst *assistant.Assistant, session *admin.Session) *App {
	toasts := toast.New()
	return &App{
		mirror:    m,
		store:     store,
		assistant: asst,
		Toasts:    toasts,
		Cart:      cart.New(store, toastNotifier{toasts}),
		Admin:     session,
		Checkout:  checkout.New(store, nil),
		phase:     PhaseLoading,
		wishlist:  make(map[string]bool),
	}
}

// UseImageStore attaches a bucket for product and banner images. Without
// one, image uploads are rejected and replaced images are left in place.
func (a *App) UseImageStore(store blob.Store) {
	a.images = store
}

// Start restores persisted state and subscribes to the live catalog.
// Snapshots keep flowing until Stop is called.
func (a *App) Start(ctx context.Context) error {
	if err := a.Cart.Restore(ctx); err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	if err := a.restoreLocal(ctx); err != nil {
		return err
	}

	unsubProducts, err := a.mirror.SubscribeProducts(ctx, a.onProducts)
	if err != nil {
		return fmt.Errorf("subscribe products: %w", err)
	}
	a.rememberUnsubscribe(unsubProducts)

	unsubCategories, err := a.mirror.SubscribeCategories(ctx, a.onCategories)
	if err != nil {
		a.Stop()
		return fmt.Errorf("subscribe categories: %w", err)
	}
	a.rememberUnsubscribe(unsubCategories)

	unsubBanner, err := a.mirror.SubscribeBanner(ctx, a.onBanner)
	if err != nil {
		a.Stop()
		return fmt.Errorf("subscribe banner: %w", err)
	}
	a.rememberUnsubscribe(unsubBanner)
	return nil
}

// Stop cancels every live subscription. Safe to call more than once.
func (a *App) Stop() {
	a.mu.Lock()
	unsubs := a.unsubscribes
	a.unsubscribes = nil
	a.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

func (a *App) restoreLocal(ctx context.Context) error {
	wishlist, err := a.store.LoadWishlist(ctx)
	if err != nil {
		return fmt.Errorf("restore wishlist: %w", err)
	}
	contact, err := a.store.LoadContact(ctx)
	if err != nil {
		return fmt.Errorf("restore contact: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range wishlist {
		a.wishlist[id] = true
	}
	a.contact = contact
	return nil
}

func (a *App) rememberUnsubscribe(unsub mirror.UnsubscribeFunc) {
	a.mu.Lock()
	a.unsubscribes = append(a.unsubscribes, unsub)
	a.mu.Unlock()
}

// onProducts handles a products snapshot. The first empty snapshot switches
// the catalog to the built-in starter set and plants it remotely; the
// resulting change events bring back a real snapshot that promotes the
// catalog to live.
func (a *App) onProducts(products []catalog.Product) {
	a.mu.Lock()
	seedRemote := false
	switch {
	case a.phase == PhaseLoading && len(products) == 0:
		a.phase = PhaseSeeded
		a.products = catalog.SeedProducts()
		seedRemote = true
	default:
		// Any snapshot after the first confirms the backend state, even an
		// empty one: the starter set never comes back.
		a.phase = PhaseLive
		a.products = products
	}
	a.mu.Unlock()

	if seedRemote {
		for _, product := range catalog.SeedProducts() {
			if !a.mirror.CreateProduct(context.Background(), product) {
				log.Printf("app: planting starter product %q failed", product.Name)
			}
		}
	}
}

func (a *App) onCategories(categories []catalog.Category) {
	a.mu.Lock()
	a.categories = categories
	a.mu.Unlock()
}

func (a *App) onBanner(banner *catalog.Banner) {
	a.mu.Lock()
	a.banner = banner
	a.mu.Unlock()
}

// Phase reports where the catalog currently comes from.
func (a *App) Phase() CatalogPhase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Products returns the catalog filtered by category and search term.
func (a *App) Products(category, searchTerm string) []catalog.Product {
	a.mu.Lock()
	products := a.products
	a.mu.Unlock()
	return catalog.FilterProducts(products, category, searchTerm)
}

// CategoryNames returns the selectable category names, catch-all first.
func (a *App) CategoryNames() []string {
	a.mu.Lock()
	categories := a.categories
	a.mu.Unlock()
	return catalog.CategoryNames(categories)
}

// Categories returns the raw category rows.
func (a *App) Categories() []catalog.Category {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Category(nil), a.categories...)
}

// Banner returns the active banner, or nil when none is configured.
func (a *App) Banner() *catalog.Banner {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.banner == nil {
		return nil
	}
	banner := *a.banner
	return &banner
}

// AddToCart adds a product and refreshes the shopping advice.
func (a *App) AddToCart(ctx context.Context, product catalog.Product) {
	a.Cart.Add(ctx, product)
	a.refreshAdvice(ctx)
}

// ChangeQuantity adjusts a cart line and refreshes the shopping advice.
func (a *App) ChangeQuantity(ctx context.Context, productID string, delta int) {
	a.Cart.ChangeQuantity(ctx, productID, delta)
	a.refreshAdvice(ctx)
}

// RemoveFromCart removes a cart line and refreshes the shopping advice.
func (a *App) RemoveFromCart(ctx context.Context, productID string) {
	a.Cart.Remove(ctx, productID)
	a.refreshAdvice(ctx)
}

// Advice returns the current shopping advice line.
func (a *App) Advice() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.advice
}

// refreshAdvice asks the assistant for a new suggestion when the cart total
// changed since the last one.
func (a *App) refreshAdvice(ctx context.Context) {
	if a.assistant == nil {
		return
	}
	total := a.Cart.Total()
	a.mu.Lock()
	if total == a.lastAdviceTotal && a.advice != "" {
		a.mu.Unlock()
		return
	}
	products := a.products
	a.mu.Unlock()

	advice := a.assistant.ShoppingAdvice(ctx, total, products)

	a.mu.Lock()
	a.advice = advice
	a.lastAdviceTotal = total
	a.mu.Unlock()
}

// ToggleWishlist flips a product's wishlist membership and reports the new
// state. The change is written through to local storage.
func (a *App) ToggleWishlist(ctx context.Context, productID string) bool {
	a.mu.Lock()
	wished := !a.wishlist[productID]
	if wished {
		a.wishlist[productID] = true
	} else {
		delete(a.wishlist, productID)
	}
	ids := a.wishlistIDsLocked()
	a.mu.Unlock()

	if err := a.store.SaveWishlist(ctx, ids); err != nil {
		log.Printf("app: persisting wishlist failed: %v", err)
	}
	if wished {
		a.Toasts.Success("Ajoute nan lis anvi ou!")
	} else {
		a.Toasts.Info("Retire nan lis anvi ou")
	}
	return wished
}

// Wished reports whether a product is on the wishlist.
func (a *App) Wished(productID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wishlist[productID]
}

// Wishlist returns the wishlisted product ids.
func (a *App) Wishlist() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wishlistIDsLocked()
}

func (a *App) wishlistIDsLocked() []string {
	ids := make([]string, 0, len(a.wishlist))
	for _, product := range a.products {
		if a.wishlist[product.ID] {
			ids = append(ids, product.ID)
		}
	}
	// Keep ids whose products are not in the current snapshot; a thin
	// snapshot must not erase the wishlist.
	for id := range a.wishlist {
		if !containsID(a.products, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsID(products []catalog.Product, id string) bool {
	for _, product := range products {
		if product.ID == id {
			return true
		}
	}
	return false
}

// WhatsAppNumber returns the checkout destination number, falling back to
// the store default when no override is saved.
func (a *App) WhatsAppNumber() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.contact != "" {
		return a.contact
	}
	return catalog.DefaultWhatsAppNumber
}

// SetWhatsAppNumber overrides the checkout destination and persists it. An
// empty number restores the default.
func (a *App) SetWhatsAppNumber(ctx context.Context, number string) error {
	if err := a.store.SaveContact(ctx, number); err != nil {
		return fmt.Errorf("save contact: %w", err)
	}
	a.mu.Lock()
	a.contact = number
	a.mu.Unlock()
	return nil
}

// SubmitOrder submits the checkout flow with the current cart. The cart is
// kept so the order can be amended and re-sent.
func (a *App) SubmitOrder(ctx context.Context) (localstore.PastOrder, error) {
	order, err := a.Checkout.Submit(ctx, a.Cart.Entries(), a.WhatsAppNumber())
	if err != nil {
		return localstore.PastOrder{}, err
	}
	a.Toasts.Success("Kòmand ou an voye! N ap kontakte w sou WhatsApp.")
	return order, nil
}

// Ask sends a customer question to the assistant with the conversation,
// cart, and catalog as context, and returns the reply. Both turns are kept
// in the in-memory chat history.
func (a *App) Ask(ctx context.Context, question string) string {
	if a.assistant == nil {
		return assistant.FallbackChat
	}
	a.mu.Lock()
	history := append([]assistant.Message(nil), a.chatHistory...)
	products := a.products
	a.mu.Unlock()

	reply := a.assistant.Chat(ctx, history, question, a.Cart.Entries(), products)

	a.mu.Lock()
	a.chatHistory = append(a.chatHistory,
		assistant.Message{Role: "user", Text: question},
		assistant.Message{Role: "assistant", Text: reply},
	)
	a.mu.Unlock()
	return reply
}

// ChatHistory returns the conversation so far.
func (a *App) ChatHistory() []assistant.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]assistant.Message(nil), a.chatHistory...)
}
