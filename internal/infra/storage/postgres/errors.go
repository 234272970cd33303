package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("postgres.ledger: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("postgres.ledger: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("postgres.ledger: failed to scan row")
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolation pq.ErrorCode = "23505"

// unavailable оборачивает инфраструктурную ошибку так, чтобы координаторы могли
// переключиться на транзиентный леджер
func unavailable(kind error, op string, err error) error {
	return fmt.Errorf("%w: %w: %s: %v", ledger.ErrUnavailable, kind, op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
