// ABOUTME: In-memory record store used by the handler tests
// ABOUTME: Records calls and can be told to fail per table
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/harperreed/reicrm/airtable"
	"github.com/harperreed/reicrm/logging"
)

type storedRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type storeCall struct {
	Method string
	Table  string
}

// memStore is an in-memory RecordStore. Errors set in the fail maps are
// returned instead of touching the table.
type memStore struct {
	mu         sync.Mutex
	tables     map[string][]storedRecord
	calls      []storeCall
	failList   map[string]error
	failCreate map[string]error
	failUpdate error
	seq        int
}

func newMemStore() *memStore {
	return &memStore{
		tables:     make(map[string][]storedRecord),
		failList:   make(map[string]error),
		failCreate: make(map[string]error),
	}
}

func (m *memStore) seed(table string, fields map[string]any) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("rec%03d", m.seq)
	m.tables[table] = append(m.tables[table], storedRecord{ID: id, Fields: fields})
	return id
}

func (m *memStore) records(table string) []storedRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storedRecord(nil), m.tables[table]...)
}

func (m *memStore) countCalls(method, table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method && c.Table == table {
			n++
		}
	}
	return n
}

func (m *memStore) List(_ context.Context, table string, query airtable.ListQuery, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, storeCall{"GET", table})
	if err := m.failList[table]; err != nil {
		return err
	}

	matched := []storedRecord{}
	for _, rec := range m.tables[table] {
		if query.FilterByFormula == "" || matchesFormula(rec, query.FilterByFormula) {
			matched = append(matched, rec)
		}
	}
	return roundTrip(matched, out)
}

func (m *memStore) Create(_ context.Context, table string, fields any, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, storeCall{"POST", table})
	if err := m.failCreate[table]; err != nil {
		return err
	}

	var decoded map[string]any
	if err := roundTrip(fields, &decoded); err != nil {
		return err
	}
	m.seq++
	rec := storedRecord{ID: fmt.Sprintf("rec%03d", m.seq), Fields: decoded}
	m.tables[table] = append(m.tables[table], rec)
	return roundTrip(rec, out)
}

func (m *memStore) Update(_ context.Context, table, id string, fields any, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, storeCall{"PATCH", table})
	if m.failUpdate != nil {
		return m.failUpdate
	}

	var patch map[string]any
	if err := roundTrip(fields, &patch); err != nil {
		return err
	}
	for i, rec := range m.tables[table] {
		if rec.ID != id {
			continue
		}
		for k, v := range patch {
			rec.Fields[k] = v
		}
		m.tables[table][i] = rec
		return roundTrip(rec, out)
	}
	return &airtable.APIError{StatusCode: 404, Type: "NOT_FOUND"}
}

func matchesFormula(rec storedRecord, formula string) bool {
	for field, value := range rec.Fields {
		s, ok := value.(string)
		if ok && airtable.EqualsFormula(field, s) == formula {
			return true
		}
	}
	return false
}

func roundTrip(in, out any) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func quietLogger() *charmlog.Logger {
	return logging.New("error", "text", io.Discard)
}

type gateway struct {
	store      *memStore
	properties *PropertyHandlers
	contacts   *ContactHandlers
	activities *ActivityHandlers
	dashboard  *DashboardHandlers
}

func newGateway(t *testing.T, strict bool) *gateway {
	t.Helper()
	store := newMemStore()
	gw := NewGateway(store, strict, quietLogger())
	return &gateway{
		store:      store,
		properties: gw.Properties,
		contacts:   gw.Contacts,
		activities: gw.Activities,
		dashboard:  gw.Dashboard,
	}
}
