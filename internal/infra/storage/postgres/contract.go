package postgres

import (
	"context"

	"github.com/m04kA/CareClarity-AppointmentService/pkg/txmanager"
)

// DBExecutor *sql.DB или *sql.Tx
type DBExecutor = txmanager.DBExecutor

// TransactionManager выполняет функцию в транзакции, передавая её через контекст
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator генерирует ID новых бронирований
type IDGenerator func() string
