package domain

// Immutable geographic coordinates (latitude, longitude).
// Only a geocode lookup produces these; they are never fabricated or defaulted.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lat, lng] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }
