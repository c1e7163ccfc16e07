package sharelinks

import (
	"errors"
	"time"

	"partnerportal/pkg/models"

	"github.com/google/uuid"
)

var (
	ErrLinkNotFound = errors.New("share link not found")
	ErrLinkExpired  = errors.New("share link expired")
)

// linkTTL is how long a share link resolves before expiring.
const linkTTL = 7 * 24 * time.Hour

type Service struct {
	repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Create snapshots the given filter selection behind a fresh token. The
// search term is deliberately not part of the snapshot; a share link freezes
// the remote query, not the viewer's in-page narrowing.
func (s *Service) Create(accountID string, filters models.FilterState) (*ShareLink, error) {
	now := time.Now()

	link := &ShareLink{
		Token:     uuid.NewString(),
		AccountID: accountID,
		Status:    filters.Status,
		StartDate: filters.Range.Start,
		EndDate:   filters.Range.End,
		CreatedAt: now,
		ExpiresAt: now.Add(linkTTL),
	}

	if err := s.repository.Insert(link); err != nil {
		return nil, err
	}

	return link, nil
}

// Resolve returns the snapshot behind a token, or ErrLinkNotFound /
// ErrLinkExpired.
func (s *Service) Resolve(token string) (*ShareLink, error) {
	link, err := s.repository.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	if time.Now().After(link.ExpiresAt) {
		return nil, ErrLinkExpired
	}

	return link, nil
}
