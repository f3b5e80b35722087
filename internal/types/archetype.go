package types

import "fmt"

// Archetype bundles the component batches describing one kind of object.
type Archetype interface {
	ArchetypeName() string

	// ComponentBatches returns required batches first, then the optional
	// batches that are present, then the indicator.
	ComponentBatches() ([]ComponentBatch, error)
}

// BatchList accumulates an archetype's batches while validating instance
// counts against the primary (first required) batch.
type BatchList struct {
	archetype string
	primary   int
	batches   []ComponentBatch
	err       error
}

// NewBatchList starts a list for the named archetype.
func NewBatchList(archetype string) *BatchList {
	return &BatchList{archetype: archetype, primary: -1}
}

// Required adds a batch that must be non-empty. The first required batch
// fixes the primary instance count.
func (l *BatchList) Required(b ComponentBatch) *BatchList {
	if l.err != nil {
		return l
	}
	if isNil(b) || b.Len() == 0 {
		name := "<nil>"
		if !isNil(b) {
			name = string(b.ComponentName())
		}
		l.err = fmt.Errorf("%s: required component %s: %w", l.archetype, name, ErrMissingRequired)
		return l
	}
	if l.primary < 0 {
		l.primary = b.Len()
	} else if err := l.checkCount(b); err != nil {
		l.err = err
		return l
	}
	l.batches = append(l.batches, b)
	return l
}

// Optional adds b when it is non-nil and non-empty. Its length must be 1
// (applied to every instance) or equal to the primary count.
func (l *BatchList) Optional(b ComponentBatch) *BatchList {
	if l.err != nil || isNil(b) || b.Len() == 0 {
		return l
	}
	if err := l.checkCount(b); err != nil {
		l.err = err
		return l
	}
	l.batches = append(l.batches, b)
	return l
}

// Unchecked adds b without relating its length to the primary count. Used
// for list-valued settings such as container contents.
func (l *BatchList) Unchecked(b ComponentBatch) *BatchList {
	if l.err != nil || isNil(b) || b.Len() == 0 {
		return l
	}
	l.batches = append(l.batches, b)
	return l
}

func (l *BatchList) checkCount(b ComponentBatch) error {
	if l.primary < 0 || b.Len() == 1 || b.Len() == l.primary {
		return nil
	}
	return fmt.Errorf("%s: component %s has %d instances, want 1 or %d: %w",
		l.archetype, b.ComponentName(), b.Len(), l.primary, ErrLengthMismatch)
}

// Build appends the indicator and returns the batches.
func (l *BatchList) Build() ([]ComponentBatch, error) {
	if l.err != nil {
		return nil, l.err
	}
	return append(l.batches, Indicator(l.archetype)), nil
}
