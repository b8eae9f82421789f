package contracts

import "context"

// TxManager wraps an operation in one database transaction scope. The scope
// travels in ctx to every repository call made inside fn; fn's error rolls
// the scope back, nil commits it. Nested WithTx calls are not supported.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
