package sharelinks

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

type Repository interface {
	Insert(link *ShareLink) error
	GetByToken(token string) (*ShareLink, error)
}

type ShareLinkRepository struct {
	db *goqu.Database
}

func NewRepository(db *sql.DB) *ShareLinkRepository {
	return &ShareLinkRepository{db: goqu.New("postgres", db)}
}

func (r *ShareLinkRepository) Insert(link *ShareLink) error {
	row := goqu.Record{
		"token":      link.Token,
		"account_id": link.AccountID,
		"status":     link.Status,
		"created_at": link.CreatedAt,
		"expires_at": link.ExpiresAt,
	}

	if link.StartDate != nil {
		row["start_date"] = link.StartDate
	}
	if link.EndDate != nil {
		row["end_date"] = link.EndDate
	}

	query := r.db.Insert("share_links").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&link.ID); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *ShareLinkRepository) GetByToken(token string) (*ShareLink, error) {
	var link ShareLink

	query := r.db.Select("id", "token", "account_id", "status", "start_date", "end_date", "created_at", "expires_at").
		From("share_links").
		Where(goqu.Ex{"token": token})

	found, err := query.Executor().ScanStruct(&link)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &link, nil
}
