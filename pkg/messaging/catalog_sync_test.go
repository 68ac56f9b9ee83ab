package messaging

import (
	"testing"
	"time"

	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
)

func TestGetName(t *testing.T) {
	if n := getName("se", ProductChanged); n != "se_product_changed" {
		t.Errorf("Expected se_product_changed, got %s", n)
	}
}

func TestDecodeCatalogChange(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	body, err := jsoncompat.Marshal(CatalogChange{Node: "node-1", Reason: "admin reload", Version: 4, At: at})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	change, err := DecodeCatalogChange(body)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if change.Node != "node-1" || change.Version != 4 || !change.At.Equal(at) {
		t.Errorf("Unexpected change %+v", change)
	}
	if _, err := DecodeCatalogChange([]byte("not json")); err == nil {
		t.Errorf("Expected decode error")
	}
}
