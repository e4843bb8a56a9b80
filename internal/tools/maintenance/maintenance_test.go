package maintenance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func execute(t *testing.T, store *fakeStore, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewCommand(Config{DatabaseURL: "postgres://localhost/medusa", Timeout: time.Minute}, openerFor(store), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Timeout != 10*time.Minute {
		t.Fatalf("Timeout = %v, want 10m", cfg.Timeout)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("STOREFRONT_MAINTENANCE_DATABASE_URL", "postgres://db/medusa")
	t.Setenv("STOREFRONT_MAINTENANCE_TIMEOUT", "30s")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Config{DatabaseURL: "postgres://db/medusa", Timeout: 30 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("ParseConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestMigrateThenBump(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	out, _, err := execute(t, store, "migrate")
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if out != "cache_version ready: id=cv_test version=1\n" {
		t.Fatalf("migrate output = %q", out)
	}
	if !store.closed {
		t.Fatal("expected store to be closed")
	}

	out, _, err = execute(t, store, "bump-cache-version")
	if err != nil {
		t.Fatalf("bump error = %v", err)
	}
	if out != "cache version bumped to 2\n" {
		t.Fatalf("bump output = %q", out)
	}
}

func TestBumpWithoutMigrateFails(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, &fakeStore{}, "bump-cache-version")
	if err == nil || !strings.Contains(err.Error(), "run migrate first") {
		t.Fatalf("err = %v, want migrate hint", err)
	}
}

func TestBumpJSONOutput(t *testing.T) {
	t.Parallel()

	store := &fakeStore{migrated: true, version: CacheVersion{ID: "cv_1", Version: 6}}
	out, _, err := execute(t, store, "bump-cache-version", "--json")
	if err != nil {
		t.Fatalf("bump error = %v", err)
	}
	var got bumpResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if diff := cmp.Diff(bumpResult{Mode: "bump-cache-version", Version: 7}, got); diff != "" {
		t.Fatalf("bump report mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		counts      ProductCounts
		wantOut     string
		wantWarning bool
	}{
		{
			name:    "published catalog",
			counts:  ProductCounts{Products: 3, PublishedProducts: 2, Variants: 9},
			wantOut: "products: 3\npublished products: 2\nvariants: 9\n",
		},
		{
			name:        "nothing published",
			counts:      ProductCounts{Products: 2, Variants: 4},
			wantOut:     "products: 2\npublished products: 0\nvariants: 4\n",
			wantWarning: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, errOut, err := execute(t, &fakeStore{counts: tc.counts}, "check-products")
			if err != nil {
				t.Fatalf("check-products error = %v", err)
			}
			if out != tc.wantOut {
				t.Fatalf("output = %q, want %q", out, tc.wantOut)
			}
			if got := strings.Contains(errOut, "no published products"); got != tc.wantWarning {
				t.Fatalf("warning = %t, want %t (stderr %q)", got, tc.wantWarning, errOut)
			}
		})
	}
}

func TestCleanInventoryItems(t *testing.T) {
	t.Parallel()

	t.Run("dry run keeps rows", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{orphans: 4}
		out, _, err := execute(t, store, "clean-inventory-items", "--dry-run")
		if err != nil {
			t.Fatalf("clean error = %v", err)
		}
		if store.deleteCall != 0 || store.orphans != 4 {
			t.Fatalf("dry run deleted rows: calls=%d orphans=%d", store.deleteCall, store.orphans)
		}
		if out != "orphan inventory items: 4 (dry run, nothing deleted)\n" {
			t.Fatalf("output = %q", out)
		}
	})

	t.Run("deletes orphans", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{orphans: 4}
		out, _, err := execute(t, store, "clean-inventory-items")
		if err != nil {
			t.Fatalf("clean error = %v", err)
		}
		if store.deleted != 4 {
			t.Fatalf("deleted = %d, want 4", store.deleted)
		}
		if out != "deleted orphan inventory items: 4\n" {
			t.Fatalf("output = %q", out)
		}
	})

	t.Run("skips delete when clean", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		if _, _, err := execute(t, store, "clean-inventory-items"); err != nil {
			t.Fatalf("clean error = %v", err)
		}
		if store.deleteCall != 0 {
			t.Fatalf("delete calls = %d, want 0", store.deleteCall)
		}
	})

	t.Run("json report", func(t *testing.T) {
		t.Parallel()

		out, _, err := execute(t, &fakeStore{orphans: 2}, "clean-inventory-items", "--json")
		if err != nil {
			t.Fatalf("clean error = %v", err)
		}
		var got cleanResult
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode output %q: %v", out, err)
		}
		want := cleanResult{Mode: "clean-inventory-items", Orphans: 2, Deleted: 2}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("clean report mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delete failure", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{orphans: 1, deleteErr: errors.New("deadlock")}
		_, _, err := execute(t, store, "clean-inventory-items")
		if err == nil || !strings.Contains(err.Error(), "deadlock") {
			t.Fatalf("err = %v, want delete failure", err)
		}
		if !store.closed {
			t.Fatal("expected store to be closed after failure")
		}
	})
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing database url", func(t *testing.T) {
		t.Parallel()

		cmd := NewCommand(Config{}, openerFor(&fakeStore{}), nil, nil)
		cmd.SetArgs([]string{"check-products"})
		if err := cmd.ExecuteContext(context.Background()); err == nil || !strings.Contains(err.Error(), "database URL is required") {
			t.Fatalf("err = %v, want missing database URL", err)
		}
	})

	t.Run("open failure", func(t *testing.T) {
		t.Parallel()

		failing := func(context.Context, string) (Store, error) { return nil, errors.New("connection refused") }
		cmd := NewCommand(Config{DatabaseURL: "postgres://nowhere"}, failing, nil, nil)
		cmd.SetArgs([]string{"migrate"})
		if err := cmd.ExecuteContext(context.Background()); err == nil || !strings.Contains(err.Error(), "open database") {
			t.Fatalf("err = %v, want open failure", err)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()

		if _, _, err := execute(t, &fakeStore{}, "reindex"); err == nil {
			t.Fatal("expected unknown command error")
		}
	})

	t.Run("close failure is reported", func(t *testing.T) {
		t.Parallel()

		_, errOut, err := execute(t, &fakeStore{closeErr: errors.New("broken pipe")}, "check-products")
		if err != nil {
			t.Fatalf("check-products error = %v", err)
		}
		if !strings.Contains(errOut, "close database: broken pipe") {
			t.Fatalf("stderr = %q, want close failure", errOut)
		}
	})

	t.Run("database url flag overrides config", func(t *testing.T) {
		t.Parallel()

		var gotURL string
		opener := func(_ context.Context, url string) (Store, error) {
			gotURL = url
			return &fakeStore{}, nil
		}
		cmd := NewCommand(Config{DatabaseURL: "postgres://env"}, opener, nil, nil)
		cmd.SetArgs([]string{"check-products", "--database-url", "postgres://flag"})
		if err := cmd.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("check-products error = %v", err)
		}
		if gotURL != "postgres://flag" {
			t.Fatalf("database url = %q, want flag value", gotURL)
		}
	})
}

func TestOpenPostgresRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := OpenPostgres(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty database URL")
	}
}
