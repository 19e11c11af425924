package faults

import "context"

// Repository defines persistence for analyzer faults
type Repository interface {
	Save(ctx context.Context, f *Fault) error
	Latest(ctx context.Context, limit int) ([]*Fault, error)
}
