package ports

import "context"

// Tx is an opaque transaction handle. Infrastructure owns the concrete type
// (here, *gorm.DB).
type Tx interface{}

// UnitOfWork defines a transaction boundary. Callback-style: a returned error
// rolls back, nil commits.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in context.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads a transaction handle from context, nil if absent.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
