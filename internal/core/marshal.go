package core

// Marshaler serializes a value for writing to disk.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
}
