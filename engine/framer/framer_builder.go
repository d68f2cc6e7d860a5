package framer

// ViewFramerOption is a functional option for configuring a ViewFramer.
type ViewFramerOption func(*viewFramerImpl)

// WithMargin sets the factor applied to the fitted distance to leave room around the model.
//
// Parameters:
//   - margin: distance multiplier, values below 1 are raised to 1
//
// Returns:
//   - ViewFramerOption: functional option to set the margin
func WithMargin(margin float32) ViewFramerOption {
	return func(vf *viewFramerImpl) {
		vf.margin = max(margin, 1)
	}
}

// WithDefaultHalfExtent sets the half extent of the cube framed when the request box is unusable.
//
// Parameters:
//   - halfExtent: half the cube's edge length
//
// Returns:
//   - ViewFramerOption: functional option to set the default box size
func WithDefaultHalfExtent(halfExtent float32) ViewFramerOption {
	return func(vf *viewFramerImpl) {
		vf.defaultHalfExtent = halfExtent
	}
}
