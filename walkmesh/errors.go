package walkmesh

import "errors"

// Construction and codec errors. Query misses are not errors; they are
// reported through sentinel return values (NoFace, nil paths, ok
// booleans).
var (
	ErrBadIndexCount    = errors.New("walkmesh: triangle index count is not a multiple of 3")
	ErrVertexIndexRange = errors.New("walkmesh: vertex index out of range")
	ErrBadArrayLength   = errors.New("walkmesh: array length mismatch")
	ErrBadFlatTree      = errors.New("walkmesh: malformed bounding-volume node array")
	ErrBadSnapshot      = errors.New("walkmesh: malformed snapshot")
)
