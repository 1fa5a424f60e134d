package catalog

// SeedProducts is the bundled fallback catalog. It is shown only when the
// very first remote snapshot is empty, and fed to the seed command when
// bootstrapping a fresh remote store.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "seed-1",
			Name:        "Guide Intelligence Artificielle (IA)",
			Price:       15000,
			Category:    "Ebook",
			Description: "Aprann baz entèlijans atifisyèl ak kijan ou ka itilize li pou ranfòse travay ou ak konesans ou.",
			Image:       "https://picsum.photos/seed/ebook1/400/400",
		},
		{
			ID:          "seed-2",
			Name:        "Un an pour gagner un million",
			Price:       5000,
			Category:    "Ebook",
			Description: "Un ebook culinaire regroupant plus de 50 recettes revisitées.",
			Image:       "https://picsum.photos/seed/ebook2/400/400",
		},
		{
			ID:          "seed-3",
			Name:        "Smartwatch Series X",
			Price:       45000,
			Category:    "Electronic",
			Description: "Suivi de santé avancé, notifications intelligentes et étanche.",
			Image:       "https://picsum.photos/seed/elec1/400/400",
		},
		{
			ID:          "seed-4",
			Name:        "Écouteurs Bluetooth Pro",
			Price:       25000,
			Category:    "Electronic",
			Description: "Réduction de bruit active et autonomie de 24 heures.",
			Image:       "https://picsum.photos/seed/elec2/400/400",
		},
		{
			ID:          "seed-5",
			Name:        "Sac à Dos Urbain",
			Price:       12000,
			Category:    "Shop",
			Description: "Design ergonomique avec port USB de recharge intégré.",
			Image:       "https://picsum.photos/seed/shop1/400/400",
		},
		{
			ID:          "seed-6",
			Name:        "Gourde Inox Isotherme 1L",
			Price:       8000,
			Category:    "Shop",
			Description: "Garde vos boissons au frais pendant 24h et au chaud pendant 12h.",
			Image:       "https://picsum.photos/seed/shop2/400/400",
		},
		{
			ID:          "seed-7",
			Name:        "Sac de Riz Parfumé 5kg",
			Price:       4500,
			Category:    "Provisions",
			Description: "Riz de qualité supérieure, idéal pour vos repas de famille.",
			Image:       "https://picsum.photos/seed/food1/400/400",
		},
		{
			ID:          "seed-8",
			Name:        "Huile Végétale 5L",
			Price:       7500,
			Category:    "Provisions",
			Description: "Huile raffinée, sans cholestérol, pour toutes vos cuissons.",
			Image:       "https://picsum.photos/seed/food2/400/400",
		},
		{
			ID:          "seed-9",
			Name:        "Carton de Pâtes Alimentaires",
			Price:       11000,
			Category:    "Provisions",
			Description: "Assortiment de spaghettis et macaronis (20 paquets).",
			Image:       "https://picsum.photos/seed/food3/400/400",
		},
	}
}

// DefaultWhatsAppNumber is the compiled-in outbound contact, used until an
// admin override is persisted locally.
const DefaultWhatsAppNumber = "+50936620118"
