// Package notify implements contracts.Notifier: a per-(sheet,cell) webhook
// registry and a fixed worker pool that posts updates to registered URLs
// without blocking the engine that produced them.
package notify

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/bytedance/sonic"

	"github.com/berejant/sheetengine/contracts"
)

// WorkerCount is the number of goroutines draining the send queue.
const WorkerCount = 5

// QueueDepth bounds how many pending webhook sends may be buffered before
// the goroutine that Notify spawns to enqueue them starts blocking; Notify
// itself never blocks on a full queue.
const QueueDepth = 20

type sendCommand struct {
	webhook string
	update  contracts.CellUpdate
}

type sheetWebhooks map[string]string

// Dispatcher is a contracts.Notifier backed by a buffered channel and a
// fixed pool of HTTP-posting workers.
type Dispatcher struct {
	queue  chan sendCommand
	client *http.Client

	mu       sync.RWMutex
	webhooks map[string]sheetWebhooks
}

// NewDispatcher builds a Dispatcher. Call Start before any Notify call is
// expected to reach a worker, and Close once to drain and stop the pool.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		queue:    make(chan sendCommand, QueueDepth),
		client:   &http.Client{Timeout: 5 * time.Second},
		webhooks: map[string]sheetWebhooks{},
	}
}

// SetWebhookUrl registers (or, for an empty webhookUrl, unregisters) the
// webhook for a single (sheetId, cellId) pair.
func (d *Dispatcher) SetWebhookUrl(sheetId, cellId, webhookUrl string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.webhooks[sheetId]; !ok {
		d.webhooks[sheetId] = sheetWebhooks{}
	}

	if webhookUrl == "" {
		delete(d.webhooks[sheetId], cellId)
	} else {
		d.webhooks[sheetId][cellId] = webhookUrl
	}
}

// GetWebhookUrl returns the registered webhook for (sheetId, cellId), or ""
// if none is registered.
func (d *Dispatcher) GetWebhookUrl(sheetId, cellId string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.webhooks[sheetId][cellId]
}

// Notify enqueues a send for every cell in cells that has a registered
// webhook, suppressing the whole call if the sheet has none at all. A bulk
// load replay never reaches here: the engine skips notification when it
// replays stored formulas. It returns without waiting for delivery.
func (d *Dispatcher) Notify(sheetId string, cells []contracts.CellUpdate) {
	d.mu.RLock()
	sheetHooks, ok := d.webhooks[sheetId]
	if !ok || len(sheetHooks) == 0 {
		d.mu.RUnlock()
		return
	}
	// Copy the webhooks we need while still holding the read lock, then
	// release it before pushing onto the (possibly blocking) queue.
	matched := make([]sendCommand, 0, len(cells))
	for _, cell := range cells {
		if webhook, ok := sheetHooks[cell.CellId]; ok {
			matched = append(matched, sendCommand{webhook: webhook, update: cell})
		}
	}
	d.mu.RUnlock()

	go func() {
		for _, cmd := range matched {
			d.queue <- cmd
		}
	}()
}

// Start launches the fixed worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < WorkerCount; i++ {
		go d.runWorker()
	}
}

// Close stops accepting new work and lets queued workers drain.
func (d *Dispatcher) Close() {
	close(d.queue)
}

func (d *Dispatcher) runWorker() {
	for cmd := range d.queue {
		payload, err := json.Marshal(cmd.update)
		if err != nil {
			fmt.Printf("webhook payload marshal error: %s\n", err)
			continue
		}

		resp, err := d.client.Post(cmd.webhook, "application/json", bytes.NewReader(payload))
		if err != nil {
			fmt.Printf("webhook send error: %s\n", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			fmt.Printf("unexpected webhook response status: %s\n", resp.Status)
		}
	}
}
