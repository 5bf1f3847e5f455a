package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
)

type sequenceService struct {
	BaseService
	repo portsrepo.SequenceRepository
}

// NewSequenceService creates the counter service.
func NewSequenceService(repo portsrepo.SequenceRepository) portssvc.SequenceSvc {
	return &sequenceService{repo: repo}
}

var _ portssvc.SequenceSvc = (*sequenceService)(nil)

func (s *sequenceService) NextValue(ctx context.Context, name string) (int64, error) {
	v, err := s.repo.NextValue(ctx, name)
	if err != nil {
		s.LogError(ctx, err, "Failed to advance sequence", slog.String("sequence", name))
		return 0, err
	}
	return v, nil
}

func (s *sequenceService) NextDocumentNumber(ctx context.Context, name string) (string, error) {
	v, err := s.NextValue(ctx, name)
	if err != nil {
		return "", err
	}
	return domain.FormatRef(v, domain.DocumentNumberWidth), nil
}

func (s *sequenceService) NextMemberID(ctx context.Context, year int) (string, error) {
	v, err := s.NextValue(ctx, domain.MemberSequenceName(year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s", year, domain.FormatRef(v, 5)), nil
}
