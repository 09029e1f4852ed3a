package storage

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation — SQLSTATE нарушения уникального ограничения в PostgreSQL
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
