package handlers

import (
	"testing"

	"github.com/menulink/menulink/services/business-service/internal/model"
)

func TestGroupMenuBucketsByCategory(t *testing.T) {
	items := []model.MenuItem{
		{Name: "Espresso", Category: "drinks", Available: true},
		{Name: "Croissant", Category: "pastry", Available: true},
		{Name: "Latte", Category: "drinks", Available: true},
		{Name: "Secret Item", Category: "drinks", Available: false},
		{Name: "Loose Item", Category: "", Available: true},
	}

	sections := groupMenu(items)
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if sections[0].Category != "drinks" || len(sections[0].Items) != 2 {
		t.Fatalf("drinks section = %+v, want 2 items", sections[0])
	}
	if sections[1].Category != "pastry" || len(sections[1].Items) != 1 {
		t.Fatalf("pastry section = %+v, want 1 item", sections[1])
	}
	if sections[2].Category != "menu" {
		t.Fatalf("uncategorized bucket = %q, want menu", sections[2].Category)
	}
	for _, sec := range sections {
		for _, item := range sec.Items {
			if !item.Available {
				t.Errorf("unavailable item %q leaked into public menu", item.Name)
			}
		}
	}
}

func TestGroupMenuEmpty(t *testing.T) {
	if sections := groupMenu(nil); len(sections) != 0 {
		t.Fatalf("got %d sections, want 0", len(sections))
	}
}
