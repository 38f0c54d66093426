// Package resultview projects clustering results into rows and columns for
// display. It never modifies the clusters it shows.
package resultview

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/dd0wney/cluso-cohesion/pkg/nodeset"
)

// ColumnKind describes the type of values in a column.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindFloat
)

var (
	simpleHeaders   = []string{"Cluster", "Details"}
	simpleKinds     = []ColumnKind{KindText, KindText}
	detailedHeaders = []string{"Cluster", "Nodes", "Density", "In-weight", "Out-weight", "Quality"}
	detailedKinds   = []ColumnKind{KindText, KindInt, KindFloat, KindFloat, KindFloat, KindFloat}
)

// EventKind distinguishes table change notifications.
type EventKind int

const (
	// StructureChanged means the set of columns changed
	StructureChanged EventKind = iota
	// DataChanged means the rows changed
	DataChanged
)

// Listener is notified after the table changes.
type Listener func(EventKind)

// TableModel shows one cluster per row. In simple mode a row has the members
// and a one-cell summary; in detailed mode every property has its own column.
type TableModel struct {
	mu        sync.RWMutex
	clusters  []*nodeset.Cluster
	details   []string
	name      func(int) string
	detailed  bool
	listeners []Listener
}

// NewTableModel creates a table over clusters. name maps node indices to
// labels; nil shows the indices.
func NewTableModel(clusters []*nodeset.Cluster, name func(int) string) *TableModel {
	if name == nil {
		name = strconv.Itoa
	}
	m := &TableModel{name: name}
	m.load(clusters)
	return m
}

func (m *TableModel) load(clusters []*nodeset.Cluster) {
	m.clusters = append([]*nodeset.Cluster(nil), clusters...)
	m.details = make([]string, len(clusters))
	for i, c := range m.clusters {
		m.details[i] = Details(c)
	}
}

// Details summarises a cluster in one line.
func Details(c *nodeset.Cluster) string {
	return fmt.Sprintf("%d nodes, density %.4f, quality %.4f", c.Size, c.Density, c.Quality)
}

// SetClusters replaces the rows.
func (m *TableModel) SetClusters(clusters []*nodeset.Cluster) {
	m.mu.Lock()
	m.load(clusters)
	m.mu.Unlock()
	m.notify(DataChanged)
}

// AddListener registers l and returns a function that removes it.
func (m *TableModel) AddListener(l Listener) (remove func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
	idx := len(m.listeners) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners[idx] = nil
	}
}

func (m *TableModel) notify(kind EventKind) {
	m.mu.RLock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range listeners {
		if l != nil {
			l(kind)
		}
	}
}

// DetailedMode reports whether each property has its own column.
func (m *TableModel) DetailedMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.detailed
}

// SetDetailedMode switches between simple and detailed columns. Listeners
// hear about it only when the mode actually changes.
func (m *TableModel) SetDetailedMode(detailed bool) {
	m.mu.Lock()
	if m.detailed == detailed {
		m.mu.Unlock()
		return
	}
	m.detailed = detailed
	m.mu.Unlock()
	m.notify(StructureChanged)
}

func (m *TableModel) headers() ([]string, []ColumnKind) {
	if m.detailed {
		return detailedHeaders, detailedKinds
	}
	return simpleHeaders, simpleKinds
}

// ColumnCount returns the number of columns in the current mode.
func (m *TableModel) ColumnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, _ := m.headers()
	return len(h)
}

// RowCount returns the number of clusters.
func (m *TableModel) RowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clusters)
}

// ColumnName returns the header of col.
func (m *TableModel) ColumnName(col int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, _ := m.headers()
	return h[col]
}

// ColumnKind returns the value type of col.
func (m *TableModel) ColumnKind(col int) ColumnKind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, k := m.headers()
	return k[col]
}

// Cluster returns the cluster shown in row.
func (m *TableModel) Cluster(row int) *nodeset.Cluster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clusters[row]
}

// ValueAt returns the cell value: a string, an int or a float64 depending
// on ColumnKind.
func (m *TableModel) ValueAt(row, col int) any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.clusters[row]
	if col == 0 {
		return c.Names(m.name, " ")
	}
	if !m.detailed {
		return m.details[row]
	}
	switch col {
	case 1:
		return c.Size
	case 2:
		return c.Density
	case 3:
		return c.InternalWeight
	case 4:
		return c.BoundaryWeight
	case 5:
		return c.Quality
	}
	panic(fmt.Sprintf("resultview: column %d out of range", col))
}

// Text returns the cell formatted for display.
func (m *TableModel) Text(row, col int) string {
	switch v := m.ValueAt(row, col).(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', 4, 64)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Row returns every cell of row formatted for display.
func (m *TableModel) Row(row int) []string {
	cols := m.ColumnCount()
	out := make([]string, cols)
	for col := range cols {
		out[col] = m.Text(row, col)
	}
	return out
}

// Header returns the current column names.
func (m *TableModel) Header() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, _ := m.headers()
	return append([]string(nil), h...)
}
