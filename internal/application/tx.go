package application

import "context"

// TxManager runs a function inside a single database transaction. The
// context passed to fn carries the transaction; repositories joining
// that context operate on it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
