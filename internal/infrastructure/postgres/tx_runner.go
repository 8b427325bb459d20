package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

var _ rates.ReferenceTxRunner = (*TxRunner)(nil)
var _ invoicing.InvoicingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// RunReference transacción con el repositorio de datos de referencia.
func (r *TxRunner) RunReference(ctx context.Context, fn func(repo repository.ReferenceRepository) error) error {
	return runTx(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewReferenceRepository(tx))
	})
}

// RunInvoicing transacción con el repositorio de líneas de factura.
func (r *TxRunner) RunInvoicing(ctx context.Context, fn func(lines repository.InvoiceLineRepository) error) error {
	return runTx(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(NewInvoiceLineRepository(tx))
	})
}

// runTx inicia una transacción, ejecuta fn y hace Commit; cualquier error hace Rollback.
func runTx(ctx context.Context, db TxBeginner, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
