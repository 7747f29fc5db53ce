package vehicle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOptionsFromStringList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/years" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`["2021","2022","2023"]`))
	}))
	defer srv.Close()

	got, err := NewOptionProvider(srv.URL).Years(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[1].Value != "2022" || got[1].Label != "2022" {
		t.Errorf("unexpected options %v", got)
	}
}

func TestOptionsFromRecordList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") != "2022" || r.URL.Query().Get("make") != "Ford" {
			t.Errorf("missing narrowing params: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"value":"f-150","label":"F-150"},{"value":"ranger"}]`))
	}))
	defer srv.Close()

	got, err := NewOptionProvider(srv.URL).Models(context.Background(), "2022", "Ford")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected options %v", got)
	}
	if got[0].Value != "f-150" || got[0].Label != "F-150" {
		t.Errorf("unexpected record option %v", got[0])
	}
	if got[1].Label != "ranger" {
		t.Errorf("expected label fallback to value, got %v", got[1])
	}
}

func TestOptionsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewOptionProvider(srv.URL).Years(context.Background()); err == nil {
		t.Error("expected error on non-200 status")
	}
}
