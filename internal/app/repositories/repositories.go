package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so
// repository methods can run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository    *ProfileRepository
	StudentRepository    *StudentRepository
	DepartmentRepository *DepartmentRepository
	BatchRepository      *BatchRepository
	TemplateRepository   *TemplateRepository
	RequestRepository    *RequestRepository
	TokenRepository      *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:    NewProfileRepository(db),
		StudentRepository:    NewStudentRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
		BatchRepository:      NewBatchRepository(db),
		TemplateRepository:   NewTemplateRepository(db),
		RequestRepository:    NewRequestRepository(db),
		TokenRepository:      NewTokenRepository(db),
	}
}
