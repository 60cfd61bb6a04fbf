package domain

// Particiones de columnas del cuestionario, en el orden del dataset de referencia.
var (
	NumericalFields = []string{
		"Monthly Grocery Bill",
		"Vehicle Monthly Distance Km",
		"Waste Bag Weekly Count",
		"How Long TV PC Daily Hour",
		"How Many New Clothes Monthly",
		"How Long Internet Daily Hour",
	}

	CategoricalFields = []string{
		"Body Type",
		"Sex",
		"Diet",
		"How Often Shower",
		"Heating Energy Source",
		"Transport",
		"Vehicle Type",
		"Social Activity",
		"Frequency of Traveling by Air",
		"Waste Bag Size",
		"Energy efficiency",
		"Recycling",
		"Cooking_With",
	}
)

const (
	// TargetFootprint es la columna objetivo numerica del dataset.
	TargetFootprint = "Total_Carbon_Footprint"
	// TargetCategory es la columna objetivo categorica, excluida del encoding.
	TargetCategory = "Footprint_Category"
	// FieldSex queda exento de la atribucion de reducciones.
	FieldSex = "Sex"
)

// IsTargetField indica si la columna es un objetivo y no una feature.
func IsTargetField(name string) bool {
	return name == TargetFootprint || name == TargetCategory
}
