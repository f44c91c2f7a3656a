package service

import (
	"errors"
	"fmt"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyService keeps the supplier and shopkeeper registries. Parties are
// registered once and stay read-only inside the transaction workflow.
type PartyService interface {
	RegisterParty(req *model.Party, ownerID string) error
	ListParties(ownerID string, partyType model.PartyType) ([]model.Party, error)
	GetParty(ownerID string, id uuid.UUID) (*model.Party, error)
	DeleteParty(ownerID string, id uuid.UUID) error
}

type partyService struct {
	partyRepo repository.PartyRepository
}

func NewPartyService(partyRepo repository.PartyRepository) PartyService {
	return &partyService{partyRepo: partyRepo}
}

func (s *partyService) RegisterParty(req *model.Party, ownerID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.OwnerID = ownerID
	req.CreatedBy = ownerID
	req.UpdatedBy = ownerID

	if err := s.partyRepo.Create(req); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}

func (s *partyService) ListParties(ownerID string, partyType model.PartyType) ([]model.Party, error) {
	if partyType != "" && partyType != model.PartySupplier && partyType != model.PartyShopkeeper {
		return nil, errors.New("type must be SUPPLIER or SHOPKEEPER")
	}
	return s.partyRepo.FindAll(ownerID, partyType)
}

func (s *partyService) GetParty(ownerID string, id uuid.UUID) (*model.Party, error) {
	party, err := s.partyRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return party, nil
}

func (s *partyService) DeleteParty(ownerID string, id uuid.UUID) error {
	if err := s.partyRepo.Delete(ownerID, id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPartyNotFound
		}
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}
