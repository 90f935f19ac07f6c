package phenotype

// EnvironmentState is the climate an organism currently experiences. It is
// owned by the world and pushed in by value.
type EnvironmentState struct {
	Temperature float64 // Degrees Celsius
	Humidity    float64 // 0-1
	Moisture    float64 // 0-1, available water
}

// OrganismState is an organism's momentary condition, pushed in by the
// lifecycle systems each tick.
type OrganismState struct {
	AgeNormalized float64 // 0 = newborn, 1 = end of lifespan
	Health        float64 // 0-1
	Energy        float64 // 0-1, fraction of max energy
}

// DefaultEnvironment is a temperate, moderately wet climate.
func DefaultEnvironment() EnvironmentState {
	return EnvironmentState{Temperature: 20, Humidity: 0.5, Moisture: 0.5}
}

// DefaultOrganism is a healthy, fed adult.
func DefaultOrganism() OrganismState {
	return OrganismState{AgeNormalized: 0.5, Health: 1, Energy: 1}
}
