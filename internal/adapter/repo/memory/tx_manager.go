package memory

import "context"

type inTxKey struct{}

// TxManager serializes ticks and status reads on the store lock. Nested calls
// reuse the held lock.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if held, _ := ctx.Value(inTxKey{}).(*Store); held == t.store {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(context.WithValue(ctx, inTxKey{}, t.store))
}
