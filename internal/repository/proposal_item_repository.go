package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
)

type ProposalItemRepository struct {
	db *gorm.DB
}

func NewProposalItemRepository(db *gorm.DB) *ProposalItemRepository {
	return &ProposalItemRepository{db: db}
}

func (r *ProposalItemRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.ProposalItem, error) {
	var items []domain.ProposalItem
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("section_sort_order ASC, sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *ProposalItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalItem, error) {
	var item domain.ProposalItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ApplyDiff applies an item-set diff for one proposal in a single
// transaction. A failure on any row rolls the whole diff back, so a proposal
// never loses its items to a partial sync.
func (r *ProposalItemRepository) ApplyDiff(ctx context.Context, proposalID uuid.UUID, toCreate, toUpdate []domain.ProposalItem, toDelete []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(toDelete) > 0 {
			if err := tx.Where("proposal_id = ? AND id IN ?", proposalID, toDelete).
				Delete(&domain.ProposalItem{}).Error; err != nil {
				return err
			}
		}
		for i := range toUpdate {
			if err := tx.Save(&toUpdate[i]).Error; err != nil {
				return err
			}
		}
		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
