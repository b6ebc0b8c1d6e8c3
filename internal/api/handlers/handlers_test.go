package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/school-marketplace/internal/activity"
	"github.com/dvloznov/school-marketplace/internal/activity/inmemory"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// ---- mock implementations ----

type mockSource struct {
	listFn     func(activity.Filter) ([]activity.RawTransaction, error)
	lastFilter activity.Filter
}

func (m *mockSource) ListRecords(ctx context.Context, filter activity.Filter) ([]activity.RawTransaction, error) {
	m.lastFilter = filter
	if m.listFn != nil {
		return m.listFn(filter)
	}
	return nil, nil
}

// ---- helpers ----

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestRouter(source activity.Source, logBuf *bytes.Buffer) http.Handler {
	log := zerolog.Nop()
	if logBuf != nil {
		log = zerolog.New(logBuf)
	}
	h := NewTransactionsHandler(source, activity.NewNormalizer(activity.FixedClock(fixedNow)), log)
	return Routes(h)
}

func decodeRows(t *testing.T, rec *httptest.ResponseRecorder) []activity.DisplayTransaction {
	t.Helper()
	var rows []activity.DisplayTransaction
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rows
}

// ---- tests ----

func TestListTransactions_FromStore(t *testing.T) {
	router := newTestRouter(inmemory.NewStore(inmemory.SeedRecords()...), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?type=Sale", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	rows := decodeRows(t, rec)
	want := []activity.DisplayTransaction{
		{ID: 1, Type: activity.TypeSale, Item: "Physics Textbook", Date: "2024-04-20", Amount: "$45.00",
			Status: activity.StatusCompleted, CounterpartyName: "Alex Johnson", ItemID: "i7"},
		{ID: 5, Type: activity.TypeSale, Item: "Scientific Calculator TI-84", Date: "2024-04-02", Amount: "$65.00",
			Status: activity.StatusCancelled, CounterpartyName: "Alex Smith", ItemID: "2"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestListTransactions_QueryParams(t *testing.T) {
	source := &mockSource{}
	router := newTestRouter(source, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?status=Pending&limit=5&offset=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	want := activity.Filter{Status: activity.StatusPending, Limit: 5}
	if diff := cmp.Diff(want, source.lastFilter); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestListTransactions_SourceError(t *testing.T) {
	source := &mockSource{listFn: func(activity.Filter) ([]activity.RawTransaction, error) {
		return nil, errors.New("backend down")
	}}
	router := newTestRouter(source, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestListTransactions_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(&mockSource{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestNormalizeTransactions(t *testing.T) {
	logBuf := &bytes.Buffer{}
	router := newTestRouter(&mockSource{}, logBuf)

	body := `[{"type":"Fundraiser","transactionId":"t1","activityId":"f1","activity":{"amountRaised":50}},
		{"type":"Sale","transactionId":"t5","item":{"itemName":"Physics Textbook","price":"45"}}]`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/normalize", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	rows := decodeRows(t, rec)
	want := []activity.DisplayTransaction{
		{ID: 1, Type: activity.TypeFundraiser, Date: "2024-05-01", Amount: "$50.00", ItemID: "f1"},
		{ID: 5, Type: activity.TypeSale, Item: "Physics Textbook", Date: "2024-05-01", Amount: "$0.00"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logBuf.String(), "item.price") {
		t.Errorf("malformed field not logged: %s", logBuf.String())
	}
}

func TestNormalizeTransactions_NonList(t *testing.T) {
	router := newTestRouter(&mockSource{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/normalize", strings.NewReader(`{"type":"Sale"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestNormalizeTransactions_InvalidJSON(t *testing.T) {
	router := newTestRouter(&mockSource{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/normalize", strings.NewReader(`[{`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNormalizeTransactions_TooLarge(t *testing.T) {
	router := newTestRouter(&mockSource{}, nil)

	body := "[" + strings.Repeat(" ", MaxBodyBytes) + "]"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/normalize", strings.NewReader(body)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestNormalizeTransactions_ReadError(t *testing.T) {
	router := newTestRouter(&mockSource{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/normalize", failingReader{}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&mockSource{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
	if _, err := time.Parse(time.RFC3339, body["time"]); err != nil {
		t.Errorf("time %q is not RFC3339: %v", body["time"], err)
	}
}
