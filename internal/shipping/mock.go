package shipping

import "context"

// MockProvider implements Provider for tests.
type MockProvider struct {
	GetRatesFunc func(ctx context.Context, params RateParams) ([]Rate, error)
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if m.GetRatesFunc != nil {
		return m.GetRatesFunc(ctx, params)
	}
	return []Rate{{
		Carrier:     "Flat Rate",
		ServiceName: "Standard Shipping",
		ServiceCode: "flat_standard",
		CostCents:   599,
		DaysMin:     3,
		DaysMax:     7,
	}}, nil
}
