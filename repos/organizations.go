package repos

import (
	"context"

	"github.com/advisorhub/advisorhub-server/models"
	"github.com/uptrace/bun"
)

type OrganizationRepo struct {
	db *bun.DB
}

func NewOrganizationRepo(db *bun.DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

func (c *OrganizationRepo) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)

	err := c.db.NewSelect().Model(&orgs).
		Relation("Users", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "email", "role")
		}).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return orgs, nil
}

func (c *OrganizationRepo) GetOrganization(ctx context.Context, id int64) (*models.Organization, error) {
	org := new(models.Organization)

	err := c.db.NewSelect().Model(org).
		Relation("Users", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name", "email", "role")
		}).
		Where(`"org"."id" = ?`, id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return org, nil
}

// NameTaken reports a case-insensitive name clash. excludeId lets updates
// skip the row being updated; pass 0 for creates.
func (c *OrganizationRepo) NameTaken(ctx context.Context, name string, excludeId int64) (bool, error) {
	q := c.db.NewSelect().Model((*models.Organization)(nil)).
		Where(`lower("org"."name") = lower(?)`, name)
	if excludeId != 0 {
		q = q.Where(`"org"."id" != ?`, excludeId)
	}

	count, err := q.Count(ctx)
	return count > 0, err
}

func (c *OrganizationRepo) Exists(ctx context.Context, id int64) (bool, error) {
	count, err := c.db.NewSelect().Model((*models.Organization)(nil)).
		Where(`"org"."id" = ?`, id).
		Count(ctx)
	return count > 0, err
}

func (c *OrganizationRepo) AddOrganization(ctx context.Context, org *models.Organization) error {
	_, err := c.db.NewInsert().Model(org).
		Column("name", "description").
		Exec(ctx)
	return err
}

func (c *OrganizationRepo) UpdateOrganization(ctx context.Context, org *models.Organization) (bool, error) {
	result, err := c.db.NewUpdate().Model(org).
		Column("name", "description").
		Where(`"org"."id" = ?`, org.Id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (c *OrganizationRepo) DeleteOrganization(ctx context.Context, id int64) (bool, error) {
	result, err := c.db.NewDelete().Model((*models.Organization)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	return rows > 0, err
}
