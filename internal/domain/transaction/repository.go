package transaction

import "context"

type Repository interface {
	Append(ctx context.Context, tx *Transaction) error
	ListRecent(ctx context.Context, limit int) ([]Transaction, error)
}
