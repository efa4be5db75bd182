package pricelists

import (
	"testing"

	"github.com/lib/pq"

	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
)

func TestAssignmentMatchesStore(t *testing.T) {
	open := models.PriceListAssignment{Stores: pq.StringArray{}}
	if !assignmentMatchesStore(open, "store-a") {
		t.Error("assignment with no store filter should match any store")
	}
	if !assignmentMatchesStore(open, "") {
		t.Error("assignment with no store filter should match an unscoped request")
	}

	scoped := models.PriceListAssignment{Stores: pq.StringArray{"store-a", "store-b"}}
	if !assignmentMatchesStore(scoped, "store-b") {
		t.Error("assignment should match a listed store")
	}
	if assignmentMatchesStore(scoped, "store-c") {
		t.Error("assignment should not match an unlisted store")
	}
	if assignmentMatchesStore(scoped, "") {
		t.Error("store-limited assignment should not match an unscoped request")
	}
}
