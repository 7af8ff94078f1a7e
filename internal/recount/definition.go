package recount

import "context"

// DefaultBatchSize is the page size used when a definition does not set one.
const DefaultBatchSize = 20

// Type discriminates the two supported tool shapes.
type Type string

const (
	// TypeCallback marks a tool defined by a paginated processor and a total counter.
	TypeCallback Type = "callback"
	// TypeClass marks a tool implemented by an externally supplied job class.
	TypeClass Type = "class"
)

// BatchFunc processes one page of work and returns the identifiers it handled.
// An empty result signals that no work remains at the given offset.
type BatchFunc func(ctx context.Context, offset, limit int64) ([]string, error)

// CountFunc reports the total number of items the tool will process.
type CountFunc func(ctx context.Context) (int64, error)

// Definition describes a single recount tool. Exactly one of the callback
// pair (Callback + Count) or the class pair (Class + File) must be set.
type Definition struct {
	Key         string
	Type        Type
	Label       string
	Description string
	BatchSize   int64

	// Callback-pair shape
	Callback BatchFunc
	Count    CountFunc

	// Class-pair shape
	Class string
	File  string
}

// inferType fills in Type from whichever shape fields are populated.
func (d *Definition) inferType() {
	if d.Type != "" {
		return
	}
	switch {
	case d.Callback != nil || d.Count != nil:
		d.Type = TypeCallback
	case d.Class != "" || d.File != "":
		d.Type = TypeClass
	}
}

// Validate checks that the definition matches exactly one supported shape.
func (d *Definition) Validate() error {
	if d.Key == "" {
		return &ValidationError{Reason: "tool key is required"}
	}

	d.inferType()

	switch d.Type {
	case TypeCallback:
		if d.Callback == nil {
			return &ValidationError{Key: d.Key, Reason: "callback is required for callback tools"}
		}
		if d.Count == nil {
			return &ValidationError{Key: d.Key, Reason: "count callback is required for callback tools"}
		}
		if d.Class != "" || d.File != "" {
			return &ValidationError{Key: d.Key, Reason: "callback tools must not declare a class or file"}
		}
	case TypeClass:
		if d.Class == "" {
			return &ValidationError{Key: d.Key, Reason: "class name is required for class tools"}
		}
		if d.File == "" {
			return &ValidationError{Key: d.Key, Reason: "file path is required for class tools"}
		}
	default:
		return &ValidationError{Key: d.Key, Reason: "tool must provide either a callback pair or a class and file"}
	}

	return nil
}

// applyDefaults fills Label and bounds BatchSize after successful
// validation. A non-positive maxBatchSize leaves page sizes uncapped.
func (d *Definition) applyDefaults(defaultBatchSize, maxBatchSize int64) {
	if d.Label == "" {
		d.Label = d.Key
	}
	if d.BatchSize <= 0 {
		d.BatchSize = defaultBatchSize
	}
	if maxBatchSize > 0 && d.BatchSize > maxBatchSize {
		d.BatchSize = maxBatchSize
	}
}
