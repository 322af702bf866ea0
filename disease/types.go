package disease

// Severity grades how damaging a disease is.
type Severity string

const (
	Low    Severity = "Low"
	Medium Severity = "Medium"
	High   Severity = "High"
)

// Valid reports whether s is one of the known grades.
func (s Severity) Valid() bool {
	switch s {
	case Low, Medium, High:
		return true
	}
	return false
}

type Symptom struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Cause struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PreventionStep struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Treatment struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // organic, chemical, cultural
	Description string `json:"description"`
	Application string `json:"application"`
}

// Disease is one entry of the plant-disease reference library.
type Disease struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	ScientificName string           `json:"scientific_name"`
	Severity       Severity         `json:"severity"`
	Category       string           `json:"category"`
	Description    string           `json:"description"`
	AffectedPlants string           `json:"affected_plants"`
	ImageURL       string           `json:"image_url"`
	Symptoms       []Symptom        `json:"symptoms"`
	Causes         []Cause          `json:"causes"`
	Prevention     []PreventionStep `json:"prevention"`
	Treatments     []Treatment      `json:"treatments"`
}
