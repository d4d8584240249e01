package domain

import (
	"sort"
	"strings"
)

// Regime is one state of a Markov regime chain.
type Regime struct {
	// Mean and Volatility are annualized.
	Mean       float64 `yaml:"mean" json:"mean"`
	Volatility float64 `yaml:"volatility" json:"volatility"`
	// Transitions maps the next regime name to its probability. An empty
	// row keeps the chain in this regime forever.
	Transitions map[string]float64 `yaml:"transitions" json:"transitions"`
}

// RegimeSet is a complete chain definition with its starting state.
type RegimeSet struct {
	Initial string            `yaml:"initial" json:"initial"`
	Regimes map[string]Regime `yaml:"regimes" json:"regimes"`
}

// Names returns the regime names in sorted order.
func (rs RegimeSet) Names() []string {
	names := make([]string, 0, len(rs.Regimes))
	for n := range rs.Regimes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EconomicModel pairs a market chain with an independently evolving inflation chain.
type EconomicModel struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Market      RegimeSet `yaml:"market" json:"market"`
	Inflation   RegimeSet `yaml:"inflation" json:"inflation"`
}

// DefaultModelName is used by FallbackModel for unknown names.
const DefaultModelName = "volatile"

var builtInModels = map[string]*EconomicModel{
	"volatile": {
		Name:        "volatile",
		Description: "Boom-bust cycles: long calm growth punctuated by rare crashes and slow recoveries",
		Market: RegimeSet{
			Initial: "normal",
			Regimes: map[string]Regime{
				"normal":    {Mean: 0.08, Volatility: 0.15, Transitions: map[string]float64{"normal": 0.99, "crash": 0.01}},
				"crash":     {Mean: -0.40, Volatility: 0.50, Transitions: map[string]float64{"recession": 1.0}},
				"recession": {Mean: -0.05, Volatility: 0.30, Transitions: map[string]float64{"recession": 0.95, "recovery": 0.05}},
				"recovery":  {Mean: 0.25, Volatility: 0.40, Transitions: map[string]float64{"normal": 1.0}},
			},
		},
		Inflation: RegimeSet{
			Initial: "normal",
			Regimes: map[string]Regime{
				"normal": {Mean: 0.025, Volatility: 0.01, Transitions: map[string]float64{"normal": 0.98, "high": 0.02}},
				"high":   {Mean: 0.06, Volatility: 0.03, Transitions: map[string]float64{"normal": 0.90, "high": 0.10}},
			},
		},
	},
	"stagflation": {
		Name:        "stagflation",
		Description: "1970s style stagnation with persistent high inflation",
		Market: RegimeSet{
			Initial: "stagnation",
			Regimes: map[string]Regime{
				"stagnation":    {Mean: 0.01, Volatility: 0.20, Transitions: map[string]float64{"stagnation": 0.98, "weak-recovery": 0.02}},
				"weak-recovery": {Mean: 0.05, Volatility: 0.25, Transitions: map[string]float64{"stagnation": 1.0}},
			},
		},
		Inflation: RegimeSet{
			Initial: "high",
			Regimes: map[string]Regime{
				"high":      {Mean: 0.08, Volatility: 0.04, Transitions: map[string]float64{"high": 0.99, "very-high": 0.01}},
				"very-high": {Mean: 0.12, Volatility: 0.05, Transitions: map[string]float64{"high": 1.0}},
			},
		},
	},
	"steady-growth": {
		Name:        "steady-growth",
		Description: "Post-2009 style steady growth with rare shallow dips and low inflation",
		Market: RegimeSet{
			Initial: "growth",
			Regimes: map[string]Regime{
				"growth": {Mean: 0.10, Volatility: 0.12, Transitions: map[string]float64{"growth": 0.995, "dip": 0.005}},
				"dip":    {Mean: -0.10, Volatility: 0.25, Transitions: map[string]float64{"growth": 1.0}},
			},
		},
		Inflation: RegimeSet{
			Initial: "low",
			Regimes: map[string]Regime{
				"low": {Mean: 0.02, Volatility: 0.005, Transitions: map[string]float64{"low": 1.0}},
			},
		},
	},
	"lost-decade": {
		Name:        "lost-decade",
		Description: "Japan style prolonged stagnation with intermittent deflation",
		Market: RegimeSet{
			Initial: "stagnation",
			Regimes: map[string]Regime{
				"stagnation": {Mean: -0.01, Volatility: 0.18, Transitions: map[string]float64{"stagnation": 1.0}},
			},
		},
		Inflation: RegimeSet{
			Initial: "deflation",
			Regimes: map[string]Regime{
				"deflation": {Mean: -0.01, Volatility: 0.01, Transitions: map[string]float64{"deflation": 0.99, "normal": 0.01}},
				"normal":    {Mean: 0.01, Volatility: 0.01, Transitions: map[string]float64{"deflation": 1.0}},
			},
		},
	},
	"business-cycle": {
		Name:        "business-cycle",
		Description: "Four phase cycle: expansion, correction, contraction and recovery",
		Market: RegimeSet{
			Initial: "expansion",
			Regimes: map[string]Regime{
				"expansion":   {Mean: 0.12, Volatility: 0.15, Transitions: map[string]float64{"expansion": 0.97, "correction": 0.03}},
				"correction":  {Mean: -0.15, Volatility: 0.25, Transitions: map[string]float64{"expansion": 0.60, "contraction": 0.40}},
				"contraction": {Mean: -0.25, Volatility: 0.35, Transitions: map[string]float64{"contraction": 0.85, "recovery": 0.15}},
				"recovery":    {Mean: 0.20, Volatility: 0.25, Transitions: map[string]float64{"recovery": 0.80, "expansion": 0.20}},
			},
		},
		Inflation: RegimeSet{
			Initial: "normal",
			Regimes: map[string]Regime{
				"normal": {Mean: 0.025, Volatility: 0.01, Transitions: map[string]float64{"normal": 0.98, "high": 0.02}},
				"high":   {Mean: 0.05, Volatility: 0.02, Transitions: map[string]float64{"normal": 0.90, "high": 0.10}},
			},
		},
	},
}

// LookupModel finds a built-in economic model by name (case-insensitive).
func LookupModel(name string) (*EconomicModel, bool) {
	m, ok := builtInModels[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// FallbackModel behaves like LookupModel but returns the volatile model for unknown names.
func FallbackModel(name string) *EconomicModel {
	if m, ok := LookupModel(name); ok {
		return m
	}
	return builtInModels[DefaultModelName]
}

// ModelNames lists the built-in economic models.
func ModelNames() []string {
	names := make([]string, 0, len(builtInModels))
	for n := range builtInModels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
