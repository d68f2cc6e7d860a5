package bounds

// ProviderOption is a functional option for configuring a Provider.
type ProviderOption func(*provider)

// WithWorkers sets the number of pool workers used to scan large point arrays.
//
// Parameters:
//   - n: worker count, values below 1 are raised to 1
//
// Returns:
//   - ProviderOption: functional option to set the worker count
func WithWorkers(n int) ProviderOption {
	return func(p *provider) {
		p.workers = max(n, 1)
	}
}

// WithChunkSize sets how many points each scan task handles.
//
// Parameters:
//   - points: points per task, values below 1 are raised to 1
//
// Returns:
//   - ProviderOption: functional option to set the chunk size
func WithChunkSize(points int) ProviderOption {
	return func(p *provider) {
		p.chunkSize = max(points, 1)
	}
}

// WithDefaultHalfExtent sets the half extent of the cube returned by ModelBounds when nothing is loaded.
func WithDefaultHalfExtent(halfExtent float32) ProviderOption {
	return func(p *provider) {
		p.defaultHalfExtent = halfExtent
	}
}
