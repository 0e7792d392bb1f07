package repository

import "context"

// TxManager runs a function inside one database transaction. Every
// repository call made with the context it passes to fn joins that
// transaction; if fn returns an error the whole unit of work is rolled
// back. The sale processor and the scheduled jobs are its consumers.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
