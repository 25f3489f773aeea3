package ports

import "context"

// TxManager runs fn so that every repository call made with the context it
// receives sees one consistent view and commits together. A non-nil error
// from fn rolls the writes back.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
