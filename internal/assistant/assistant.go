// Package assistant generates storefront copy and shopping guidance.
//
// Every operation degrades to a fixed Creole fallback string instead of
// returning an error: a broken or unconfigured model provider must never
// block browsing or checkout.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/localstore"
)

// Fallback replies used whenever the provider is unavailable or returns
// nothing usable.
const (
	FallbackDescription = "Yon bèl pwodui ou pa dwe manke!"
	FallbackAdvice      = "Bon chwa, kontinye konsa!"
	FallbackChat        = "Mwen pa ka reponn kounye a, men m pare pou m pran kòmand ou!"
)

const (
	maxAdviceProducts = 5
	maxChatProducts   = 10
)

// InvokeInput carries one model invocation.
type InvokeInput struct {
	Instructions string
	Prompt       string
}

// Invoker sends a prompt to a model provider and returns its text output.
type Invoker interface {
	Invoke(ctx context.Context, input InvokeInput) (string, error)
}

// Message is one prior turn of the chat conversation.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Assistant wraps an Invoker with the storefront's prompts and fallbacks.
type Assistant struct {
	invoker Invoker
}

// New creates an assistant. A nil invoker yields fallback replies for every
// call.
func New(invoker Invoker) *Assistant {
	return &Assistant{invoker: invoker}
}

// GenerateProductDescription writes a short sales pitch for a product. On
// any failure it returns FallbackDescription.
func (a *Assistant) GenerateProductDescription(ctx context.Context, name, category string) string {
	prompt := fmt.Sprintf("Ekri yon deskripsyon vant kout e atiran an kreyòl ayisyen pou pwodui sa a: %q (kategori: %s). Maksimòm de fraz.", name, category)
	return a.invoke(ctx, InvokeInput{
		Instructions: "Ou se yon vandè ki konnen pwodui li yo byen. Reponn an kreyòl ayisyen sèlman.",
		Prompt:       prompt,
	}, FallbackDescription)
}

// ShoppingAdvice suggests a next purchase based on the cart total and a
// sample of the catalog. On any failure it returns FallbackAdvice.
func (a *Assistant) ShoppingAdvice(ctx context.Context, cartTotal int64, products []catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kliyan an gen yon panyen ki vo %d goud.", cartTotal)
	if sample := productLines(products, maxAdviceProducts); sample != "" {
		b.WriteString(" Men kèk pwodui nou genyen:\n")
		b.WriteString(sample)
	}
	b.WriteString("\nBay yon sèl konsèy kout e zanmitay sou sa li ta ka ajoute.")
	return a.invoke(ctx, InvokeInput{
		Instructions: "Ou se yon asistan boutik an liy. Reponn an kreyòl ayisyen, yon sèl fraz.",
		Prompt:       b.String(),
	}, FallbackAdvice)
}

// Chat answers a customer question with the conversation so far, the cart,
// and a sample of the catalog as context. On any failure it returns
// FallbackChat.
func (a *Assistant) Chat(ctx context.Context, history []Message, question string, entries []localstore.CartEntry, products []catalog.Product) string {
	var b strings.Builder
	if sample := productLines(products, maxChatProducts); sample != "" {
		b.WriteString("Pwodui nan boutik la:\n")
		b.WriteString(sample)
	}
	if len(entries) > 0 {
		b.WriteString("Panyen kliyan an:\n")
		for _, entry := range entries {
			fmt.Fprintf(&b, "- %s x%d\n", entry.Product.Name, entry.Quantity)
		}
	}
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Text)
	}
	fmt.Fprintf(&b, "user: %s", question)
	return a.invoke(ctx, InvokeInput{
		Instructions: "Ou se asistan Boutik Paw, yon boutik an liy ayisyen. Reponn kliyan an an kreyòl ayisyen, kout e itil. Si yo vle kòmande, di yo ale nan panyen an.",
		Prompt:       b.String(),
	}, FallbackChat)
}

func (a *Assistant) invoke(ctx context.Context, input InvokeInput, fallback string) string {
	if a.invoker == nil {
		return fallback
	}
	output, err := a.invoker.Invoke(ctx, input)
	if err != nil {
		log.Printf("assistant: invoke failed: %v", err)
		return fallback
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return fallback
	}
	return output
}

func productLines(products []catalog.Product, limit int) string {
	if len(products) > limit {
		products = products[:limit]
	}
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s): %d goud\n", p.Name, p.Category, p.Price)
	}
	return b.String()
}
