package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/core/apperror"
	"epistock/internal/core/id"
	"epistock/internal/domain/fichas"
)

const fichasTable = "ficha_epi"

var fichaCols = []string{
	"id", "version", "created_at", "updated_at",
	"colaborador_id", "active", "observations",
}

// FichaRepo implements fichas.Repository.
type FichaRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewFichaRepo creates a ficha repository.
func NewFichaRepo(txm *TxManager) *FichaRepo {
	return &FichaRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ fichas.Repository = (*FichaRepo)(nil)

func (r *FichaRepo) Create(ctx context.Context, f *fichas.Ficha) error {
	sql, args, err := r.builder.Insert(fichasTable).
		Columns(fichaCols...).
		Values(
			f.ID, f.Version, f.CreatedAt, f.UpdatedAt,
			f.ColaboradorID, f.Active, f.Observations,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("employee already has an active ficha").
				WithDetail("colaborador_id", f.ColaboradorID.String())
		}
		return fmt.Errorf("insert ficha: %w", err)
	}
	return nil
}

func (r *FichaRepo) GetByID(ctx context.Context, fichaID id.ID) (*fichas.Ficha, error) {
	sql, args, err := r.builder.Select(fichaCols...).
		From(fichasTable).
		Where(squirrel.Eq{"id": fichaID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var f fichas.Ficha
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &f, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ficha", fichaID)
		}
		return nil, fmt.Errorf("get ficha: %w", err)
	}
	return &f, nil
}

func (r *FichaRepo) GetActiveByColaborador(ctx context.Context, colaboradorID id.ID) (*fichas.Ficha, error) {
	sql, args, err := r.builder.Select(fichaCols...).
		From(fichasTable).
		Where(squirrel.Eq{"colaborador_id": colaboradorID, "active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var f fichas.Ficha
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &f, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ficha", colaboradorID)
		}
		return nil, fmt.Errorf("get active ficha: %w", err)
	}
	return &f, nil
}

func (r *FichaRepo) Update(ctx context.Context, f *fichas.Ficha) error {
	sql, args, err := r.builder.Update(fichasTable).
		Set("version", f.Version).
		Set("updated_at", f.UpdatedAt).
		Set("active", f.Active).
		Set("observations", f.Observations).
		Where(squirrel.Eq{"id": f.ID}).
		Where(squirrel.Lt{"version": f.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update ficha: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("ficha was modified concurrently").
			WithDetail("ficha_id", f.ID.String())
	}
	return nil
}

func (r *FichaRepo) List(ctx context.Context, includeInactive bool) ([]fichas.Ficha, error) {
	q := r.builder.Select(fichaCols...).
		From(fichasTable).
		OrderBy("created_at DESC")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []fichas.Ficha
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select fichas: %w", err)
	}
	return list, nil
}
