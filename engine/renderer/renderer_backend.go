package renderer

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// Layer identifies one independently toggled set of lines.
type Layer int

const (
	// LayerPath is the toolpath polyline.
	LayerPath Layer = iota
	// LayerBox is the outline of the real geometry bounds.
	LayerBox
	// LayerEnvelope is the outline of the machine envelope.
	LayerEnvelope
	// LayerAxes is the world axes gizmo at the origin.
	LayerAxes

	layerCount
)

// String returns the layer's buffer label.
func (l Layer) String() string {
	switch l {
	case LayerPath:
		return "Path"
	case LayerBox:
		return "Box"
	case LayerEnvelope:
		return "Envelope"
	case LayerAxes:
		return "Axes"
	}
	return "Unknown"
}
