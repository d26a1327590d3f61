package mocks

import (
	"testing"

	"github.com/berejant/sheetengine/contracts"
	"github.com/stretchr/testify/mock"
)

// Notifier is a mock implementation of contracts.Notifier.
type Notifier struct {
	mock.Mock
}

// NewNotifier builds a Notifier mock that asserts its expectations when t
// ends.
func NewNotifier(t *testing.T) *Notifier {
	m := &Notifier{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Notifier) SetWebhookUrl(sheetId, cellId, webhookUrl string) {
	m.Called(sheetId, cellId, webhookUrl)
}

func (m *Notifier) GetWebhookUrl(sheetId, cellId string) string {
	args := m.Called(sheetId, cellId)
	return args.String(0)
}

func (m *Notifier) Notify(sheetId string, cells []contracts.CellUpdate) {
	m.Called(sheetId, cells)
}

func (m *Notifier) Start() {
	m.Called()
}

func (m *Notifier) Close() {
	m.Called()
}
