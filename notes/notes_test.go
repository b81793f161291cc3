package notes

import "testing"

func TestCatalogLookups(t *testing.T) {
	for _, n := range Catalog {
		got, ok := ByKey(n.Key)
		if !ok || got.ID != n.ID {
			t.Errorf("ByKey(%q) = %+v, %v; want %q", n.Key, got, ok, n.ID)
		}
		got, ok = ByID(n.ID)
		if !ok || got.Key != n.Key {
			t.Errorf("ByID(%q) = %+v, %v; want key %q", n.ID, got, ok, n.Key)
		}
	}
}

func TestUnknownKey(t *testing.T) {
	if _, ok := ByKey("z"); ok {
		t.Error("ByKey(\"z\") should not resolve")
	}
	if _, ok := ByID("tivra_ma"); ok {
		t.Error("ByID(\"tivra_ma\") should not resolve")
	}
}

func TestCatalogIsConsistent(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range Catalog {
		if seen[n.ID] {
			t.Errorf("duplicate note id %q", n.ID)
		}
		seen[n.ID] = true
		if n.File == "" || n.Key == "" || n.Display == "" {
			t.Errorf("note %q has empty fields: %+v", n.ID, n)
		}
	}
}
