package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localloop/localloop-backend/internal/filter"
)

func captureListFilter(t *testing.T, target string) filter.Filter {
	t.Helper()

	app := fiber.New()
	var got filter.Filter
	app.Get("/tips", func(c *fiber.Ctx) error {
		got = listFilter(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	return got
}

func TestListFilterDefaults(t *testing.T) {
	f := captureListFilter(t, "/tips")

	if !f.IncludeExpired {
		t.Fatal("a bare list request must include expired tips")
	}
	if f.Categories != nil {
		t.Fatal("no categories param should mean all categories")
	}
	if f.Query != "" {
		t.Fatalf("unexpected query %q", f.Query)
	}
}

func TestListFilterParsesParams(t *testing.T) {
	f := captureListFilter(t, "/tips?q=coffee&categories=Nature,%20Events&include_expired=false")

	if f.IncludeExpired {
		t.Fatal("include_expired=false should exclude expired tips")
	}
	if f.Query != "coffee" {
		t.Fatalf("query = %q, want coffee", f.Query)
	}
	if len(f.Categories) != 2 || !f.Categories["Nature"] || !f.Categories["Events"] {
		t.Fatalf("categories = %v, want Nature and Events", f.Categories)
	}
}

func TestListFilterEmptyCategoryEntriesDropped(t *testing.T) {
	f := captureListFilter(t, "/tips?categories=Nature,,%20")

	if len(f.Categories) != 1 || !f.Categories["Nature"] {
		t.Fatalf("categories = %v, want only Nature", f.Categories)
	}
}
