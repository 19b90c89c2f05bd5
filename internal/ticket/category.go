package ticket

// Category describes one entry of the support category registry. The registry
// is fixed at compile time; Key is the wire value carried by the category
// select menu and Name is the human-readable label written into channel
// topics and transcripts.
type Category struct {
	Key   string
	Name  string
	Emoji string
}

// FallbackCategoryName is used whenever a category cannot be resolved, e.g.
// when a channel topic was edited by hand and no longer parses.
const FallbackCategoryName = "Ticket"

var categories = []Category{
	{Key: "soporte_tecnico", Name: "Soporte Técnico", Emoji: "🛠️"},
	{Key: "compras", Name: "Compras", Emoji: "💳"},
	{Key: "sugerencias", Name: "Sugerencias", Emoji: "💡"},
	{Key: "reportar_usuario", Name: "Reportar Usuario", Emoji: "🚨"},
	{Key: "otro_no_mencionado", Name: "Otro No Mencionado", Emoji: "🔒"},
}

// Categories returns the registry entries in menu order.
func Categories() []Category {
	result := make([]Category, len(categories))
	copy(result, categories)
	return result
}

// CategoryName resolves a category key to its display name.
// Unknown keys resolve to FallbackCategoryName.
func CategoryName(key string) string {
	for _, c := range categories {
		if c.Key == key {
			return c.Name
		}
	}
	return FallbackCategoryName
}
