package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrInvalid = errors.New("scene: invalid scene description")

// ValidationError names the first offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scene: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Decode unmarshals model output into a Scene and validates it.
// b must already be syntactically valid JSON.
func Decode(b []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, &ValidationError{Field: "$", Reason: err.Error()}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) Validate() error {
	if !s.GravityMode.Valid() {
		return &ValidationError{Field: "gravity_mode", Reason: fmt.Sprintf("unknown mode %q", s.GravityMode)}
	}
	if s.Objects == nil {
		return &ValidationError{Field: "objects", Reason: "missing"}
	}
	for i, o := range s.Objects {
		if err := o.validate(); err != nil {
			err.Field = fmt.Sprintf("objects[%d].%s", i, err.Field)
			return err
		}
	}
	return nil
}

func (o *Object) validate() *ValidationError {
	if !o.Shape.Valid() {
		return &ValidationError{Field: "shape", Reason: fmt.Sprintf("unknown shape %q", o.Shape)}
	}
	if o.Mass < 0 || math.IsNaN(o.Mass) || math.IsInf(o.Mass, 0) {
		return &ValidationError{Field: "mass", Reason: fmt.Sprintf("bad mass %v", o.Mass)}
	}
	for _, v := range []struct {
		name string
		vec  []float64
	}{
		{"pos", o.Pos},
		{"vel", o.Vel},
		{"rotation", o.Rotation},
	} {
		if v.vec != nil && len(v.vec) != 3 {
			return &ValidationError{Field: v.name, Reason: fmt.Sprintf("want 3 components, got %d", len(v.vec))}
		}
	}
	if len(o.Args) > 3 {
		return &ValidationError{Field: "args", Reason: fmt.Sprintf("at most 3 dimensions, got %d", len(o.Args))}
	}
	return nil
}
