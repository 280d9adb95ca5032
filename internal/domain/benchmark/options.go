package benchmark

// Default record windows.
const (
	DefaultClinicWindow  = 100
	DefaultNetworkWindow = 500
)

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClinicWindow sets how many of the clinic's own recent records count.
func WithClinicWindow(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.clinicWindow = n
		}
	}
}

// WithNetworkWindow sets how many recent records count per network clinic.
func WithNetworkWindow(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.networkWindow = n
		}
	}
}
