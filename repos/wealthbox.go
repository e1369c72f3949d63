package repos

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/advisorhub/advisorhub-server/integrations/wealthbox"
	"github.com/advisorhub/advisorhub-server/models"
	"github.com/uptrace/bun"
)

type WealthboxRepo struct {
	db *bun.DB
}

func NewWealthboxRepo(db *bun.DB) *WealthboxRepo {
	return &WealthboxRepo{db: db}
}

type SyncResult struct {
	Created       int
	SkippedEmails []string
}

// SyncContacts persists fetched contacts that are not already known by email
// (exact, case-sensitive match) and assigns them to organizationId. The whole
// batch runs in one transaction: a mid-batch failure rolls everything back
// instead of leaving a committed prefix behind.
func (c *WealthboxRepo) SyncContacts(ctx context.Context, contacts []wealthbox.Contact, organizationId *int64) (*SyncResult, error) {
	result := &SyncResult{SkippedEmails: make([]string, 0)}

	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, contact := range contacts {
			count, err := tx.NewSelect().Model((*models.WealthboxUser)(nil)).
				Where(`"wu"."email" = ?`, contact.Email).
				Count(ctx)
			if err != nil {
				return err
			}

			if count > 0 {
				result.SkippedEmails = append(result.SkippedEmails, contact.Email)
				continue
			}

			record := &models.WealthboxUser{
				WealthboxId:             strconv.FormatInt(contact.Id, 10),
				Email:                   contact.Email,
				Name:                    contact.Name,
				Account:                 contact.Account,
				ExcludedFromAssignments: contact.ExcludedFromAssignments,
				OrganizationId:          organizationId,
			}
			if _, err := tx.NewInsert().Model(record).
				Column("wealthbox_id", "email", "name", "account", "excluded_from_assignments", "organization_id").
				Exec(ctx); err != nil {
				return err
			}

			result.Created++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListContacts returns synced contacts sorted by name, optionally limited to
// one organization.
func (c *WealthboxRepo) ListContacts(ctx context.Context, organizationId *int64) ([]models.WealthboxUser, error) {
	contacts := make([]models.WealthboxUser, 0)

	q := c.db.NewSelect().Model(&contacts).
		Relation("Organization", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Order("wu.name ASC")
	if organizationId != nil {
		q = q.Where(`"wu"."organization_id" = ?`, *organizationId)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (c *WealthboxRepo) SetOrganization(ctx context.Context, id, organizationId int64) (*models.WealthboxUser, error) {
	result, err := c.db.NewUpdate().Model((*models.WealthboxUser)(nil)).
		Set("organization_id = ?", organizationId).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if rows, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if rows == 0 {
		return nil, sql.ErrNoRows
	}

	contact := new(models.WealthboxUser)
	if err := c.db.NewSelect().Model(contact).
		Where(`"wu"."id" = ?`, id).
		Scan(ctx); err != nil {
		return nil, err
	}

	return contact, nil
}
