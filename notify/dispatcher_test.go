package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/berejant/sheetengine/contracts"
	"github.com/stretchr/testify/assert"
)

func TestDispatcher_NotifiesRegisteredWebhook(t *testing.T) {
	var mu sync.Mutex
	var received contracts.CellUpdate

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher()
	d.Start()
	defer d.Close()

	d.SetWebhookUrl("sheet1", "a1", server.URL)

	d.Notify("sheet1", []contracts.CellUpdate{
		{CellId: "a1", Value: 5, Formula: "5"},
		{CellId: "b1", Value: 6, Formula: "a1+1"},
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return received.CellId == "a1"
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, float64(5), received.Value)
}

func TestDispatcher_SkipsCellsWithoutWebhook(t *testing.T) {
	var calls int
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher()
	d.Start()
	defer d.Close()

	d.SetWebhookUrl("sheet1", "a1", server.URL)

	d.Notify("sheet1", []contracts.CellUpdate{{CellId: "b1", Value: 6, Formula: "a1+1"}})

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestDispatcher_NotifySkipsSheetWithNoWebhooks(t *testing.T) {
	d := NewDispatcher()
	d.Start()
	defer d.Close()

	// Must not panic or block even though nothing is registered.
	d.Notify("sheet1", []contracts.CellUpdate{{CellId: "a1", Value: 5, Formula: "5"}})
}

func TestDispatcher_SetWebhookUrlEmptyUnregisters(t *testing.T) {
	d := NewDispatcher()

	d.SetWebhookUrl("sheet1", "a1", "http://example.test/hook")
	assert.Equal(t, "http://example.test/hook", d.GetWebhookUrl("sheet1", "a1"))

	d.SetWebhookUrl("sheet1", "a1", "")
	assert.Equal(t, "", d.GetWebhookUrl("sheet1", "a1"))
}
