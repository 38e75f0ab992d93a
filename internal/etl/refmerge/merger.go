// Package refmerge backfills transaction geography from the customer master,
// falling back to a static city→state lookup.
package refmerge

import (
	"log"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"salesiq/internal/domain"
	"salesiq/internal/etl/frame"
	"salesiq/internal/etl/ingest"
	"salesiq/internal/etl/schema"
)

// refGeo is the authoritative geography for one customer.
type refGeo struct {
	city  string
	state string
}

// Merger left-joins a batch against the customer master on customer name.
type Merger struct {
	// MasterPath is the customer master workbook; its absence degrades the
	// merge to the city fallback, never a failure.
	MasterPath string
	// CityStates maps uppercase city names to states.
	CityStates map[string]string

	normalizer *schema.Normalizer
}

// New creates a Merger with the default city table.
func New(masterPath string) *Merger {
	return &Merger{
		MasterPath: masterPath,
		CityStates: DefaultCityStates,
		normalizer: schema.New(),
	}
}

// Apply resolves city and state for every row:
//
//  1. Join against the master on normalized customer name; per column, the
//     master's value wins and the row's own value is the fallback.
//  2. Rows whose state is still blank or the not-found sentinel are looked up
//     by city; a miss sets the sentinel.
//
// The STATE column is always present afterwards and never blank.
func (m *Merger) Apply(df dataframe.DataFrame) dataframe.DataFrame {
	if frame.IsEmpty(df) {
		return df
	}

	ref := m.loadMaster()
	if ref != nil {
		df = m.merge(df, ref)
	}
	return m.fillStates(df)
}

// loadMaster reads and normalizes the customer master, returning a customer
// name → geography map. Missing or unreadable masters are soft warnings.
func (m *Merger) loadMaster() map[string]refGeo {
	if m.MasterPath == "" {
		return nil
	}
	if _, err := os.Stat(m.MasterPath); err != nil {
		log.Printf("refmerge: customer master not found, skipping merge")
		return nil
	}
	master, err := ingest.ReadFile(m.MasterPath)
	if err != nil {
		log.Printf("refmerge: customer master unreadable, skipping merge: %v", err)
		return nil
	}
	master = m.normalizer.Apply(master)
	if !frame.HasColumn(master, schema.ColCustomer) {
		log.Printf("refmerge: customer master has no customer name column, skipping merge")
		return nil
	}

	names := frame.Column(master, schema.ColCustomer)
	cities := frame.Column(master, schema.ColCity)
	states := frame.Column(master, schema.ColState)
	ref := make(map[string]refGeo, len(names))
	for i, name := range names {
		key := joinKey(name)
		if key == "" {
			continue
		}
		if _, dup := ref[key]; dup {
			continue // first master row wins
		}
		g := refGeo{}
		if cities != nil {
			g.city = strings.TrimSpace(cities[i])
		}
		if states != nil {
			g.state = strings.TrimSpace(states[i])
		}
		ref[key] = g
	}
	return ref
}

func (m *Merger) merge(df dataframe.DataFrame, ref map[string]refGeo) dataframe.DataFrame {
	if !frame.HasColumn(df, schema.ColCustomer) {
		log.Printf("refmerge: batch has no customer name column, skipping merge")
		return df
	}

	names := frame.Column(df, schema.ColCustomer)
	cities := columnOrBlank(df, schema.ColCity, len(names))
	states := columnOrBlank(df, schema.ColState, len(names))

	for i, name := range names {
		g, ok := ref[joinKey(name)]
		if !ok {
			continue
		}
		// The master is authoritative per column; the row's own value only
		// survives where the master is silent.
		if g.city != "" {
			cities[i] = g.city
		}
		if g.state != "" {
			states[i] = g.state
		}
	}
	df = frame.WithColumn(df, schema.ColCity, cities)
	return frame.WithColumn(df, schema.ColState, states)
}

// fillStates resolves every remaining blank or sentinel state via the city
// table, writing the sentinel on a miss.
func (m *Merger) fillStates(df dataframe.DataFrame) dataframe.DataFrame {
	n := df.Nrow()
	states := columnOrBlank(df, schema.ColState, n)
	cities := frame.Column(df, schema.ColCity)

	for i, s := range states {
		if !stateMissing(s) {
			continue
		}
		resolved := domain.StateNotFound
		if cities != nil {
			if mapped, ok := m.CityStates[strings.ToUpper(strings.TrimSpace(cities[i]))]; ok {
				resolved = mapped
			}
		}
		states[i] = resolved
	}
	return frame.WithColumn(df, schema.ColState, states)
}

func stateMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.Contains(strings.ToUpper(s), "NOT FOUND")
}

func joinKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func columnOrBlank(df dataframe.DataFrame, name string, n int) []string {
	if vals := frame.Column(df, name); vals != nil {
		return vals
	}
	return make([]string, n)
}
