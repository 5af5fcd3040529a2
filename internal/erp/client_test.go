package erp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"takt/internal/erp"
	"takt/internal/uph"
)

func serveCycles(t *testing.T, pages [][]map[string]any, wantAuth string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/work-cycles" {
			http.NotFound(w, r)
			return
		}
		if wantAuth != "" && r.Header.Get("Authorization") != wantAuth {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		page := offset / limit
		records := []map[string]any{}
		if page < len(pages) {
			records = pages[page]
		}
		if err := json.NewEncoder(w).Encode(map[string]any{"records": records}); err != nil {
			t.Errorf("encode page: %v", err)
		}
	}))
}

func rec(operator, mo string, qty, seconds float64, state any) map[string]any {
	return map[string]any{
		"operator_name":    operator,
		"work_center":      "Sewing",
		"routing":          "R1",
		"mo_number":        mo,
		"mo_quantity":      qty,
		"duration_seconds": seconds,
		"state":            state,
	}
}

func TestFetchWorkCyclesPaginates(t *testing.T) {
	pages := [][]map[string]any{
		{rec("A", "MO1", 50, 1800, "done"), rec("A", "MO2", 20, 900, "done")},
		{rec("B", "MO3", 30, 1200, nil)},
	}
	server := serveCycles(t, pages, "")
	defer server.Close()

	client := erp.NewClientWith(server.URL, "", 2, 0, server.Client(), nil)
	cycles, err := client.FetchWorkCycles(context.Background())
	if err != nil {
		t.Fatalf("FetchWorkCycles failed: %v", err)
	}
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles across pages, got %d", len(cycles))
	}
	if cycles[2].Operator != "B" || cycles[2].State != "" {
		t.Fatalf("unexpected third cycle: %#v", cycles[2])
	}
}

func TestFetchWorkCyclesDropsNonDoneStates(t *testing.T) {
	pages := [][]map[string]any{
		{
			rec("A", "MO1", 50, 1800, "done"),
			rec("A", "MO2", 20, 900, "cancelled"),
			rec("A", "MO3", 10, 600, nil),
		},
	}
	server := serveCycles(t, pages, "")
	defer server.Close()

	client := erp.NewClientWith(server.URL, "", 10, 0, server.Client(), nil)
	cycles, err := client.FetchWorkCycles(context.Background())
	if err != nil {
		t.Fatalf("FetchWorkCycles failed: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("expected cancelled cycle dropped, got %d cycles", len(cycles))
	}
	for _, c := range cycles {
		if c.State != "" && c.State != uph.StateDone {
			t.Fatalf("unexpected state %q", c.State)
		}
	}
}

func TestFetchWorkCyclesSendsBearerToken(t *testing.T) {
	pages := [][]map[string]any{{rec("A", "MO1", 50, 1800, "done")}}
	server := serveCycles(t, pages, "Bearer secret")
	defer server.Close()

	client := erp.NewClientWith(server.URL, "secret", 10, 0, server.Client(), nil)
	if _, err := client.FetchWorkCycles(context.Background()); err != nil {
		t.Fatalf("expected authorized fetch to succeed: %v", err)
	}

	unauthorized := erp.NewClientWith(server.URL, "wrong", 10, 0, server.Client(), nil)
	if _, err := unauthorized.FetchWorkCycles(context.Background()); err == nil {
		t.Fatal("expected error for bad token")
	}
}

func TestFetchWorkCyclesSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := erp.NewClientWith(server.URL, "", 10, 0, server.Client(), nil)
	_, err := client.FetchWorkCycles(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if want := fmt.Sprintf("erp returned %d", http.StatusInternalServerError); !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in error, got %v", want, err)
	}
}
