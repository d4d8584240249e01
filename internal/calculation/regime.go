package calculation

import (
	"fmt"
	"sort"

	"github.com/rpgo/wealth-simulator/internal/domain"
)

type transition struct {
	target     int
	cumulative float64
}

// RegimeTable is the compiled, read-only form of a RegimeSet. It is shared
// by every trajectory; each trajectory walks it with its own RegimeChain.
type RegimeTable struct {
	names   []string
	regimes []domain.Regime
	rows    [][]transition
	initial int
}

// NewRegimeTable compiles a regime set. Transition rows are ordered by
// target name so a given uniform draw always picks the same successor.
func NewRegimeTable(set domain.RegimeSet) (*RegimeTable, error) {
	names := set.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("regime set has no regimes")
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	initial, ok := index[set.Initial]
	if !ok {
		return nil, fmt.Errorf("initial regime %q is not defined", set.Initial)
	}

	t := &RegimeTable{
		names:   names,
		regimes: make([]domain.Regime, len(names)),
		rows:    make([][]transition, len(names)),
		initial: initial,
	}
	for i, n := range names {
		r := set.Regimes[n]
		t.regimes[i] = r

		targets := make([]string, 0, len(r.Transitions))
		for target := range r.Transitions {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		cum := 0.0
		row := make([]transition, 0, len(targets))
		for _, target := range targets {
			j, ok := index[target]
			if !ok {
				return nil, fmt.Errorf("regime %q transitions to unknown regime %q", n, target)
			}
			p := r.Transitions[target]
			if p <= 0 {
				continue
			}
			cum += p
			row = append(row, transition{target: j, cumulative: cum})
		}
		t.rows[i] = row
	}
	return t, nil
}

// Start returns a chain positioned at the initial regime.
func (t *RegimeTable) Start() *RegimeChain {
	return &RegimeChain{table: t, current: t.initial}
}

// RegimeChain is the per-trajectory state of a regime Markov process.
type RegimeChain struct {
	table   *RegimeTable
	current int
}

// Current returns the parameters of the active regime.
func (c *RegimeChain) Current() domain.Regime { return c.table.regimes[c.current] }

// CurrentName returns the name of the active regime.
func (c *RegimeChain) CurrentName() string { return c.table.names[c.current] }

// Advance moves to the next regime using a uniform draw u in [0,1).
// A regime without transitions is absorbing.
func (c *RegimeChain) Advance(u float64) {
	row := c.table.rows[c.current]
	if len(row) == 0 {
		return
	}
	for _, tr := range row {
		if u < tr.cumulative {
			c.current = tr.target
			return
		}
	}
	// Rows may sum to slightly below 1.
	c.current = row[len(row)-1].target
}
