package ticket

import "testing"

func TestCategories(t *testing.T) {
	all := Categories()

	if len(all) != 5 {
		t.Fatalf("Expected 5 categories, got %d", len(all))
	}

	// Menu order is part of the contract.
	expectedKeys := []string{"soporte_tecnico", "compras", "sugerencias", "reportar_usuario", "otro_no_mencionado"}
	for i, key := range expectedKeys {
		if all[i].Key != key {
			t.Errorf("Expected category %d to be %q, got %q", i, key, all[i].Key)
		}
		if all[i].Name == "" || all[i].Emoji == "" {
			t.Errorf("Category %q must have a name and an emoji", key)
		}
	}

	// Callers must not be able to mutate the registry.
	all[0].Name = "mutated"
	if Categories()[0].Name == "mutated" {
		t.Error("Categories must return a copy of the registry")
	}
}

func TestCategoryName(t *testing.T) {
	tests := []struct {
		key  string
		name string
	}{
		{key: "soporte_tecnico", name: "Soporte Técnico"},
		{key: "compras", name: "Compras"},
		{key: "sugerencias", name: "Sugerencias"},
		{key: "reportar_usuario", name: "Reportar Usuario"},
		{key: "otro_no_mencionado", name: "Otro No Mencionado"},
		{key: "unknown", name: FallbackCategoryName},
		{key: "", name: FallbackCategoryName},
	}

	for _, tt := range tests {
		if got := CategoryName(tt.key); got != tt.name {
			t.Errorf("CategoryName(%q): expected %q, got %q", tt.key, tt.name, got)
		}
	}
}
