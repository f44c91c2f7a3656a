package repository

import (
	"github.com/madxrebel/MStock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartyRepository interface {
	Create(party *model.Party) error
	FindAll(ownerID string, partyType model.PartyType) ([]model.Party, error)
	FindByID(ownerID string, id uuid.UUID) (*model.Party, error)
	Delete(ownerID string, id uuid.UUID, deletedBy string) error
}

type partyRepo struct {
	db *gorm.DB
}

func NewPartyRepo(db *gorm.DB) PartyRepository {
	return &partyRepo{db}
}

func (r *partyRepo) Create(party *model.Party) error {
	return r.db.Create(party).Error
}

// FindAll lists an owner's parties, optionally filtered by type. An empty
// partyType returns suppliers and shopkeepers alike.
func (r *partyRepo) FindAll(ownerID string, partyType model.PartyType) ([]model.Party, error) {
	var parties []model.Party
	query := r.db.Where("owner_id = ?", ownerID)
	if partyType != "" {
		query = query.Where("type = ?", partyType)
	}
	err := query.Order("name ASC").Find(&parties).Error
	return parties, err
}

func (r *partyRepo) FindByID(ownerID string, id uuid.UUID) (*model.Party, error) {
	var party model.Party
	err := r.db.Where("owner_id = ?", ownerID).First(&party, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepo) Delete(ownerID string, id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Party{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("deleted_by", deletedBy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.Delete(&model.Party{}, "id = ?", id).Error
}
