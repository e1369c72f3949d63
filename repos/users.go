package repos

import (
	"context"

	"github.com/advisorhub/advisorhub-server/models"
	"github.com/uptrace/bun"
)

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (c *UserRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).
		ExcludeColumn("password").
		Relation("Organization", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Where(`"user"."id" = ?`, id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (c *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)

	err := c.db.NewSelect().Model(&users).
		ExcludeColumn("password").
		Relation("Organization", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Order("user.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// GetUserByEmail keeps the password column so login can compare hashes.
func (c *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).
		Where(`"user"."email" = ?`, email).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetCredentials loads only what password verification needs.
func (c *UserRepo) GetCredentials(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)

	err := c.db.NewSelect().Model(user).
		Column("id", "password").
		Where(`"user"."id" = ?`, id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (c *UserRepo) EmailTaken(ctx context.Context, email string, excludeId int64) (bool, error) {
	q := c.db.NewSelect().Model((*models.User)(nil)).
		Where(`"user"."email" = ?`, email)
	if excludeId != 0 {
		q = q.Where(`"user"."id" != ?`, excludeId)
	}

	count, err := q.Count(ctx)
	return count > 0, err
}

func (c *UserRepo) AddUser(ctx context.Context, user *models.User) error {
	_, err := c.db.NewInsert().Model(user).
		Column("email", "password", "name", "role", "organization_id").
		Exec(ctx)
	return err
}

// UpdateUser writes only the named columns. Returns false when no row
// matched the id.
func (c *UserRepo) UpdateUser(ctx context.Context, user *models.User, columns ...string) (bool, error) {
	result, err := c.db.NewUpdate().Model(user).
		Column(columns...).
		Where(`"user"."id" = ?`, user.Id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (c *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := c.db.NewUpdate().Model((*models.User)(nil)).
		Set("password = ?", hash).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (c *UserRepo) SetOrganization(ctx context.Context, id int64, organizationId *int64) (bool, error) {
	result, err := c.db.NewUpdate().Model((*models.User)(nil)).
		Set("organization_id = ?", organizationId).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (c *UserRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	result, err := c.db.NewDelete().Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	return rows > 0, err
}
