package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

type BusinessRepo interface {
	Create(business *models.Business) error
	GetByID(id uuid.UUID) (*models.Business, error)
	GetByUserID(userID uuid.UUID) (*models.Business, error)
	GetByPhoneNumberID(phoneNumberID string) (*models.Business, error)
	Update(business *models.Business) error
	Delete(id uuid.UUID) error
}

type businessRepo struct {
	db *gorm.DB
}

func NewBusinessRepo(db *gorm.DB) BusinessRepo {
	return &businessRepo{db: db}
}

func (r *businessRepo) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

func (r *businessRepo) GetByID(id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepo) GetByUserID(userID uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.First(&business, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// GetByPhoneNumberID resolves the tenant for an incoming WhatsApp webhook
// from the Cloud API phone number id.
func (r *businessRepo) GetByPhoneNumberID(phoneNumberID string) (*models.Business, error) {
	if phoneNumberID == "" {
		return nil, fmt.Errorf("phone number ID is empty")
	}

	var business models.Business
	if err := r.db.First(&business, "phone_number_id = ?", phoneNumberID).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepo) Update(business *models.Business) error {
	return r.db.Save(business).Error
}

// Delete removes the business. Products and messages cascade at the database
// level (see migrations).
func (r *businessRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Business{}, "id = ?", id).Error
}
