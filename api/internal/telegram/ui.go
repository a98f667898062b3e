package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"physics-parser/api/internal/scene"
)

// formatScene renders a scene as plain text for a chat reply.
func formatScene(sc *scene.Scene) string {
	if sc == nil {
		return "(empty scene)"
	}
	var b strings.Builder
	if s := strings.TrimSpace(sc.ScenarioType); s != "" {
		b.WriteString("🧪 Scenario: ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "🌍 Gravity: %s\n", sc.GravityMode)

	fmt.Fprintf(&b, "\nObjects (%d):\n", len(sc.Objects))
	for i, o := range sc.Objects {
		fmt.Fprintf(&b, "%d) %s", i+1, formatObject(o))
		b.WriteString("\n")
	}

	a := sc.Analysis
	if s := strings.TrimSpace(a.StudentMode); s != "" {
		b.WriteString("\n🎓 Student:\n")
		b.WriteString(s)
		b.WriteString("\n")
	}
	if s := strings.TrimSpace(a.ResearcherMode); s != "" {
		b.WriteString("\n🔬 Researcher:\n")
		b.WriteString(s)
		b.WriteString("\n")
	}
	if len(a.MathSteps) > 0 {
		b.WriteString("\n📐 Math steps:\n")
		for i, st := range a.MathSteps {
			fmt.Fprintf(&b, "%d) %s\n", i+1, st)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatObject(o scene.Object) string {
	label := strings.TrimSpace(o.Label)
	if label == "" {
		label = "object"
	}
	parts := []string{string(o.Shape)}
	if o.Color != "" {
		parts = append(parts, o.Color)
	}
	parts = append(parts, "m="+formatFloat(o.Mass))
	if len(o.Pos) > 0 {
		parts = append(parts, "pos "+formatVec(o.Pos))
	}
	if len(o.Vel) > 0 {
		parts = append(parts, "vel "+formatVec(o.Vel))
	}
	if o.Fixed {
		parts = append(parts, "fixed")
	}
	return label + ": " + strings.Join(parts, ", ")
}

func formatVec(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = formatFloat(x)
	}
	return "[" + strings.Join(s, " ") + "]"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
