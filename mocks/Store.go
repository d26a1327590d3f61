// Package mocks holds hand-authored, mockery-shaped test doubles for the
// contracts package's interfaces.
package mocks

import (
	"testing"

	"github.com/berejant/sheetengine/contracts"
	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of contracts.Store.
type Store struct {
	mock.Mock
}

// NewStore builds a Store mock that asserts its expectations when t ends.
func NewStore(t *testing.T) *Store {
	m := &Store{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Store) ReadFormulas(sheet string) ([]contracts.CellFormula, error) {
	args := m.Called(sheet)
	var formulas []contracts.CellFormula
	if args.Get(0) != nil {
		formulas = args.Get(0).([]contracts.CellFormula)
	}
	return formulas, args.Error(1)
}

func (m *Store) UpdateCell(sheet, cellId, formula string) error {
	args := m.Called(sheet, cellId, formula)
	return args.Error(0)
}

func (m *Store) Delete(sheet, cellId string) error {
	args := m.Called(sheet, cellId)
	return args.Error(0)
}

func (m *Store) Clear(sheet string) error {
	args := m.Called(sheet)
	return args.Error(0)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}
