package repository

type storeConfig struct {
	dataset Dataset
}

// Option configures a MemoryStore.
type Option func(*storeConfig)

// WithDataset seeds the store with ds instead of DefaultSeed.
func WithDataset(ds Dataset) Option {
	return func(c *storeConfig) {
		c.dataset = ds
	}
}
