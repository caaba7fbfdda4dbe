//go:build !darwin && !windows && !linux

package clipboard

// New reports that the platform has no clipboard support.
func New() (Port, error) {
	return nil, ErrUnavailable
}
