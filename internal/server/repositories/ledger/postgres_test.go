package ledger

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	debitLamports = `(?s)UPDATE\s+native_accounts\s+SET\s+lamports\s*=\s*lamports\s*-\s*\$2\s+WHERE\s+address\s*=\s*\$1\s+AND\s+lamports\s*>=\s*\$2`
	creditUpsert  = `(?s)INSERT\s+INTO\s+native_accounts.*ON\s+CONFLICT\s*\(address\)\s+DO\s+UPDATE.*RETURNING\s+lamports`
	debitTokens   = `(?s)UPDATE\s+token_accounts\s+SET\s+amount\s*=\s*amount\s*-\s*\$2.*RETURNING\s+mint`
	creditTokens  = `(?s)UPDATE\s+token_accounts\s+SET\s+amount\s*=\s*amount\s*\+\s*\$2\s+WHERE\s+address\s*=\s*\$1\s+AND\s+initialized\s+AND\s+mint\s*=\s*\$3`
)

func TestTransferLamports_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(debitLamports).WithArgs("payer", int64(100)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(creditUpsert).WithArgs("escrow", int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"lamports"}).AddRow(int64(100)))

	require.NoError(t, repo.TransferLamports(context.Background(), "payer", "escrow", 100))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferLamports_Insufficient(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(debitLamports).WithArgs("payer", int64(100)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TransferLamports(context.Background(), "payer", "escrow", 100)
	require.ErrorIs(t, err, common.ErrNotEnoughSOL)
	require.ErrorIs(t, err, common.ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferLamports_OutOfRange(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	err := repo.TransferLamports(context.Background(), "payer", "escrow", math.MaxUint64)
	require.ErrorIs(t, err, ErrAmountOutOfRange)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNativeAccount_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+native_accounts`).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetNativeAccount(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetTokenAccount_ScansDelegate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"address", "owner", "wallet", "mint", "amount", "initialized", "delegate", "delegated_amount"}).
		AddRow("ata", "TokenProgram", "payer", "usdc", int64(500), true, "relayer", int64(50))
	mock.ExpectQuery(`(?s)SELECT\s+address,\s*owner,\s*wallet.*FROM\s+token_accounts\s+WHERE\s+address\s*=\s*\$1`).
		WithArgs("ata").WillReturnRows(rows)

	got, err := repo.GetTokenAccount(context.Background(), "ata")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.Amount)
	require.NotNil(t, got.Delegate)
	assert.Equal(t, "relayer", *got.Delegate)
	assert.Equal(t, uint64(50), got.DelegatedAmount)
}

func TestCreateMint_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+token_mints`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateMint(context.Background(), &models.TokenMint{Address: "usdc", Owner: "TokenProgram", Initialized: true})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestTransferTokens_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(debitTokens).WithArgs("ata", int64(100), "payer").
		WillReturnRows(sqlmock.NewRows([]string{"mint"}).AddRow("usdc"))
	mock.ExpectExec(creditTokens).WithArgs("escrow", int64(100), "usdc").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TransferTokens(context.Background(), "ata", "escrow", "payer", 100))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferTokens_Unauthorized(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(debitTokens).WithArgs("ata", int64(100), "stranger").WillReturnError(sql.ErrNoRows)

	err := repo.TransferTokens(context.Background(), "ata", "escrow", "stranger", 100)
	require.ErrorIs(t, err, common.ErrTokenTransferFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferTokens_DestinationMintMismatch(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(debitTokens).WillReturnRows(sqlmock.NewRows([]string{"mint"}).AddRow("usdc"))
	mock.ExpectExec(creditTokens).WithArgs("escrow", int64(100), "usdc").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TransferTokens(context.Background(), "ata", "escrow", "payer", 100)
	require.ErrorIs(t, err, common.ErrTokenTransferFailed)
}

func TestMintTo_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE\s+token_accounts\s+SET\s+amount\s*=\s*amount\s*\+\s*\$2\s+WHERE\s+address\s*=\s*\$1\s+RETURNING`).
		WillReturnError(errors.New("db down"))

	_, err := repo.MintTo(context.Background(), "ata", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
