package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
)

// The application repository writes across two tables and must expose
// transaction control.
var _ portsrepo.ApplicationRepositoryWithTx = (*PgxApplicationRepository)(nil)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ApplicationRepo: newPgxApplicationRepository(dbPool),
		QuoteRepo:       newPgxQuoteRepository(dbPool),
		OperatorRepo:    newPgxOperatorRepository(dbPool),
	}
}
