package prompt

import (
	"fmt"
	"os"
	"strings"
)

// SceneSystem is the instruction sent as the system turn of every parse call.
// The rules are the contract with the model; edit them only together with the scene schema.
const SceneSystem = `
You are a Physics Engine Parser. Your goal is to convert natural language into a structured 3D physics scene.
Output valid JSON only.

JSON Structure:
{
  "scenario_type": "string",
  "gravity_mode": "EARTH" | "SPACE" | "CUSTOM",
  "objects": [
    {
      "label": "string",
      "shape": "sphere" | "box" | "wedge" | "car",
      "color": "string",
      "mass": float,
      "pos": [x, y, z],
      "vel": [vx, vy, vz],
      "args": [dim1, dim2, dim3], 
      "rotation": [x, y, z],
      "fixed": boolean
    }
  ],
  "analysis": {
    "student_mode": "string",
    "researcher_mode": "string",
    "math_steps": ["string"] 
  }
}

RULES:
1. **Researcher Mode:** Format as: "**Concept:** [Name]\n\n**Formula:** $[LaTeX Formula]$\n\n**Explanation:** [Detailed explanation]." 
   Use single dollar signs $ for LaTeX (e.g., $F = ma$).
2. **Abstract Representation:** Complex entities like 'cars' or 'planets' should be represented as labeled spheres or basic shapes for conceptual clarity.
3. **Gravity Detection:** If the prompt mentions "Star", "Orbit", "Sun", "Planet", or "Space", set gravity_mode to "SPACE".
4. **Newton's Cradle:** Ensure all balls in a collision/cradle scenario have 'fixed': false.
`

// Load returns the operator override from path, or SceneSystem when path is empty.
func Load(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return SceneSystem, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", path, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", fmt.Errorf("prompt %q is empty", path)
	}
	return string(b), nil
}
