package scene

import "regexp"

const (
	WarnGravityNotSpace   = "gravity_mode_not_space"
	WarnFixedBallInCradle = "fixed_ball_in_cradle"
)

// Whole words only: "starts", "sunny" and "restart" are not celestial.
var (
	reSpace  = regexp.MustCompile(`(?i)\b(stars?|orbit(s|ing|ed|al)?|suns?|planets?|planetary|space)\b`)
	reCradle = regexp.MustCompile(`(?i)\b(cradles?|collisions?|collid(e|es|ed|ing))\b`)
)

// AuditPolicy reports prompt rules the model ignored for the given input text.
// It never modifies the scene.
func AuditPolicy(text string, s *Scene) []string {
	if s == nil {
		return nil
	}
	var warns []string

	if reSpace.MatchString(text) && s.GravityMode != GravitySpace {
		warns = append(warns, WarnGravityNotSpace)
	}

	if reCradle.MatchString(text) {
		for _, o := range s.Objects {
			if o.Shape == ShapeSphere && o.Fixed {
				warns = append(warns, WarnFixedBallInCradle)
				break
			}
		}
	}
	return warns
}
