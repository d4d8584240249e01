package config

import (
	"fmt"
	"os"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario parameter files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// baseline holds the values a scenario file inherits for keys it omits.
// Everything monetary stays zero so that nothing is simulated implicitly.
func baseline() domain.SimulationParameters {
	return domain.SimulationParameters{
		Withdrawal: domain.WithdrawalSettings{
			Strategy:      domain.WithdrawalFixed,
			Percentage:    0.04,
			GuardrailBand: 0.10,
		},
		Rebalancing: domain.RebalanceSettings{
			Strategy:         domain.RebalanceNone,
			EquityAllocation: 1.0,
		},
		Taxes: domain.TaxSettings{
			AccountTaxThreshold: 5000,
		},
		Pension: domain.PensionSettings{
			Fund: domain.PensionFundSettings{
				LifeExpectancyAge: domain.DefaultLifeExpectancyAge,
			},
		},
		NumSimulations:   1000,
		FailureThreshold: domain.DefaultFailureThreshold,
	}
}

// LoadFromFile loads simulation parameters from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.SimulationParameters, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	params, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return params, nil
}

// Parse decodes YAML parameters on top of the baseline and validates them.
func (ip *InputParser) Parse(data []byte) (*domain.SimulationParameters, error) {
	params := baseline()
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateParameters(&params); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	return &params, nil
}

// SaveToFile writes parameters as YAML.
func (ip *InputParser) SaveToFile(params *domain.SimulationParameters, filename string) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// CreateExampleParameters returns a fully populated scenario exercising the
// guardrail strategy, a glidepath and the private pension fund.
func (ip *InputParser) CreateExampleParameters() *domain.SimulationParameters {
	p := domain.DefaultParameters()
	p.Name = "Glidepath with pension fund"
	p.EconomicModel = "volatile"
	p.Withdrawal.Strategy = domain.WithdrawalGuardrail
	p.Rebalancing.Strategy = domain.RebalanceGlidepath
	p.Pension.Fund.Enabled = true
	p.Seed = 42
	return &p
}
