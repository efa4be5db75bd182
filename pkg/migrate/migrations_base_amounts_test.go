package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBaseAmountsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_base_amounts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no base amounts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS base_amounts",
		"FOREIGN KEY (price_list_guid) REFERENCES price_lists(guid) ON DELETE CASCADE",
		"CHECK (quantity >= 1)",
		"CHECK (list_value >= 0)",
		"ux_base_amounts_pl_object_qty",
		"DROP TABLE IF EXISTS base_amounts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
