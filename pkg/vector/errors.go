package vector

import "fmt"

// IncompatibleVectorsError is returned whenever an algebra operation is
// asked to combine vectors that disagree on strategy or geometry.
type IncompatibleVectorsError struct {
	StrategyA, StrategyB string
	GeometryA, GeometryB uint32
}

func (e *IncompatibleVectorsError) Error() string {
	if e.StrategyA != e.StrategyB {
		return fmt.Sprintf("incompatible vectors: strategy %q vs %q", e.StrategyA, e.StrategyB)
	}
	return fmt.Sprintf("incompatible vectors: geometry %d vs %d", e.GeometryA, e.GeometryB)
}

// BadGeometryError is returned at construction when geometry is not a
// positive multiple of 32.
type BadGeometryError struct {
	Geometry uint32
}

func (e *BadGeometryError) Error() string {
	return fmt.Sprintf("bad geometry: %d is not a positive multiple of 32", e.Geometry)
}
