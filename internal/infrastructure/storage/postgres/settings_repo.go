package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"epistock/internal/domain/policy"
)

const settingsTable = "sys_settings"

// SettingsRepo implements policy.Repository over the sys_settings
// key-value table. Missing keys read as false, so a fresh database runs
// with the strict defaults.
type SettingsRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSettingsRepo creates a settings repository.
func NewSettingsRepo(txm *TxManager) *SettingsRepo {
	return &SettingsRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ policy.Repository = (*SettingsRepo)(nil)

const (
	settingAllowNegativeStock     = "allow_negative_stock"
	settingAllowForcedAdjustments = "allow_forced_adjustments"
)

type settingRow struct {
	Key   string `db:"key"`
	Value bool   `db:"value"`
}

// Load reads the policy flags. Runs on the caller's querier, so inside a
// transaction the flags are consistent with the rest of the operation.
func (r *SettingsRepo) Load(ctx context.Context) (policy.Config, error) {
	sql, args, err := r.builder.Select("key", "value").
		From(settingsTable).
		Where(squirrel.Eq{"key": []string{settingAllowNegativeStock, settingAllowForcedAdjustments}}).
		ToSql()
	if err != nil {
		return policy.Config{}, fmt.Errorf("build query: %w", err)
	}

	var rows []settingRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return policy.Config{}, fmt.Errorf("select settings: %w", err)
	}

	var cfg policy.Config
	for _, row := range rows {
		switch row.Key {
		case settingAllowNegativeStock:
			cfg.AllowNegativeStock = row.Value
		case settingAllowForcedAdjustments:
			cfg.AllowForcedAdjustments = row.Value
		}
	}
	return cfg, nil
}

// Save upserts the policy flags. Used by the seed command and the
// settings endpoint.
func (r *SettingsRepo) Save(ctx context.Context, cfg policy.Config) error {
	sql, args, err := r.builder.Insert(settingsTable).
		Columns("key", "value").
		Values(settingAllowNegativeStock, cfg.AllowNegativeStock).
		Values(settingAllowForcedAdjustments, cfg.AllowForcedAdjustments).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
