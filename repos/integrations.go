package repos

import (
	"context"
	"database/sql"

	"github.com/advisorhub/advisorhub-server/models"
	"github.com/uptrace/bun"
)

type IntegrationRepo struct {
	db *bun.DB
}

func NewIntegrationRepo(db *bun.DB) *IntegrationRepo {
	return &IntegrationRepo{db: db}
}

// SaveConfig upserts the token for (userId, integrationType). The lookup and
// the write share a transaction so concurrent saves cannot create a second
// row for the same pair.
func (c *IntegrationRepo) SaveConfig(ctx context.Context, userId int64, integrationType, apiToken string) (*models.IntegrationConfig, error) {
	config := new(models.IntegrationConfig)

	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(config).
			Where(`"ic"."user_id" = ?`, userId).
			Where(`"ic"."integration_type" = ?`, integrationType).
			Scan(ctx)
		switch {
		case err == nil:
			config.ApiToken = apiToken
			_, err = tx.NewUpdate().Model(config).
				Column("api_token").
				Where(`"ic"."id" = ?`, config.Id).
				Exec(ctx)
			return err
		case err == sql.ErrNoRows:
			config.UserId = userId
			config.IntegrationType = integrationType
			config.ApiToken = apiToken
			_, err = tx.NewInsert().Model(config).
				Column("user_id", "integration_type", "api_token").
				Exec(ctx)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *IntegrationRepo) GetConfig(ctx context.Context, userId int64, integrationType string) (*models.IntegrationConfig, error) {
	config := new(models.IntegrationConfig)

	err := c.db.NewSelect().Model(config).
		Where(`"ic"."user_id" = ?`, userId).
		Where(`"ic"."integration_type" = ?`, integrationType).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return config, nil
}
