// Package traits names the phenotype traits that the simulation's
// subsystems read, and the diet classes derived from them.
package traits

// Trait names. Gene ids in the built-in catalog use the same names for
// their namesake traits.
const (
	// Morphology
	MaxSize           = "max_size"
	HideThickness     = "hide_thickness"
	FurDensity        = "fur_density"
	FatLayerThickness = "fat_layer_thickness"

	// Sensory
	VisionRange    = "vision_range"
	ScentDetection = "scent_detection"
	ColorVision    = "color_vision"

	// Metabolism
	MetabolismRate     = "metabolism_rate"
	PlantDigestion     = "plant_digestion"
	MeatDigestion      = "meat_digestion"
	CelluloseBreakdown = "cellulose_breakdown"
	ToxinTolerance     = "toxin_tolerance"

	// Locomotion
	LocomotionSpeed  = "locomotion_speed"
	MuscleEfficiency = "muscle_efficiency"
	Endurance        = "endurance"

	// Behavior
	Aggression  = "aggression"
	Sociality   = "sociality"
	PackHunting = "pack_hunting"
	Nocturnal   = "nocturnal"

	// Reproduction
	Fertility  = "fertility"
	LitterSize = "litter_size"

	// Environmental
	Thermoregulation = "thermoregulation"
	WaterRequirement = "water_requirement"
	WaterStorage     = "water_storage"

	// Lifecycle
	Lifespan     = "lifespan"
	MaturityRate = "maturity_rate"
)

// DigestionTraits are the traits that count toward metabolic overhead.
var DigestionTraits = [4]string{
	PlantDigestion,
	MeatDigestion,
	CelluloseBreakdown,
	ToxinTolerance,
}

// DietType classifies an organism's feeding strategy.
type DietType uint8

const (
	Omnivore DietType = iota
	Herbivore
	Frugivore
	Carnivore
	Necrovore
)

// String returns the upper-case diet name.
func (d DietType) String() string {
	switch d {
	case Herbivore:
		return "HERBIVORE"
	case Frugivore:
		return "FRUGIVORE"
	case Carnivore:
		return "CARNIVORE"
	case Necrovore:
		return "NECROVORE"
	default:
		return "OMNIVORE"
	}
}

// DietTypes lists every diet class in declaration order.
var DietTypes = []DietType{Omnivore, Herbivore, Frugivore, Carnivore, Necrovore}

// IsPlantEater reports whether the diet feeds mainly on plants.
func (d DietType) IsPlantEater() bool {
	return d == Herbivore || d == Frugivore
}

// IsMeatEater reports whether the diet feeds mainly on animals.
func (d DietType) IsMeatEater() bool {
	return d == Carnivore || d == Necrovore
}
