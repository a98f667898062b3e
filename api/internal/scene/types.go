package scene

type GravityMode string

const (
	GravityEarth  GravityMode = "EARTH"
	GravitySpace  GravityMode = "SPACE"
	GravityCustom GravityMode = "CUSTOM"
)

func (g GravityMode) Valid() bool {
	switch g {
	case GravityEarth, GravitySpace, GravityCustom:
		return true
	}
	return false
}

type Shape string

const (
	ShapeSphere Shape = "sphere"
	ShapeBox    Shape = "box"
	ShapeWedge  Shape = "wedge"
	ShapeCar    Shape = "car"
)

func (s Shape) Valid() bool {
	switch s {
	case ShapeSphere, ShapeBox, ShapeWedge, ShapeCar:
		return true
	}
	return false
}

// Scene is the structured description the model is asked to produce.
type Scene struct {
	ScenarioType string      `json:"scenario_type"`
	GravityMode  GravityMode `json:"gravity_mode"`
	Objects      []Object    `json:"objects"`
	Analysis     Analysis    `json:"analysis"`
}

type Object struct {
	Label    string    `json:"label"`
	Shape    Shape     `json:"shape"`
	Color    string    `json:"color"`
	Mass     float64   `json:"mass"`
	Pos      []float64 `json:"pos"`
	Vel      []float64 `json:"vel"`
	Args     []float64 `json:"args"`     // shape dimensions, up to 3
	Rotation []float64 `json:"rotation"` // euler angles
	Fixed    bool      `json:"fixed"`
}

type Analysis struct {
	StudentMode    string   `json:"student_mode"`
	ResearcherMode string   `json:"researcher_mode"` // **Concept:** / **Formula:** / **Explanation:** markdown
	MathSteps      []string `json:"math_steps"`
}
