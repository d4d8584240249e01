package calculation

// PortfolioState is the balance sheet of one trajectory. It is owned by a
// single goroutine for the lifetime of that trajectory.
type PortfolioState struct {
	Cash      float64
	Equity    float64
	CostBasis float64
	Fund      float64

	// AnnuityReal is the yearly annuity income in today's money once the
	// pension fund has been liquidated.
	AnnuityReal float64
	Annuitized  bool

	PriceIndex       float64
	WithdrawalTarget float64
}

// Sale is the outcome of an equity sale. Net = Gross - Tax.
type Sale struct {
	Gross float64
	Net   float64
	Tax   float64
}

// Liquid is cash plus equity.
func (s *PortfolioState) Liquid() float64 { return s.Cash + s.Equity }

// Total is liquid wealth plus the pension fund.
func (s *PortfolioState) Total() float64 { return s.Cash + s.Equity + s.Fund }

// GainRatio is the unrealized gain share of the equity value. Unrealized
// losses yield zero: a sale never produces a tax credit.
func (s *PortfolioState) GainRatio() float64 {
	if s.Equity <= 0 {
		return 0
	}
	g := 1 - s.CostBasis/s.Equity
	if g < 0 {
		return 0
	}
	return g
}

// SellForNet sells enough equity that the after-tax proceeds cover net,
// capped at the equity balance. The caller decides where the proceeds go.
func (s *PortfolioState) SellForNet(net, taxRate float64) Sale {
	if net <= 0 || s.Equity <= 0 {
		return Sale{}
	}
	denom := 1 - s.GainRatio()*taxRate
	if denom <= 0 {
		return Sale{}
	}
	return s.SellGross(net/denom, taxRate)
}

// SellGross sells a gross amount of equity (capped at the balance), reducing
// the cost basis in proportion to the share sold.
func (s *PortfolioState) SellGross(gross, taxRate float64) Sale {
	if gross <= 0 || s.Equity <= 0 {
		return Sale{}
	}
	if gross > s.Equity {
		gross = s.Equity
	}
	gain := s.GainRatio()
	basisRatio := s.CostBasis / s.Equity

	tax := gross * gain * taxRate
	s.CostBasis -= gross * basisRatio
	s.Equity -= gross
	if s.Equity <= 0 {
		s.Equity = 0
		s.CostBasis = 0
	}
	return Sale{Gross: gross, Net: gross - tax, Tax: tax}
}
