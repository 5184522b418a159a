package services

import (
	"log"

	"github.com/techagentng/awaz/db"
	apiError "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
)

// ReferenceService exposes the lookup tables complaint forms are built from.
type ReferenceService interface {
	ListMunicipalities() ([]models.Municipality, *apiError.Error)
	ListWards(municipalityID uint) ([]models.Ward, *apiError.Error)
	ListCategories() ([]models.Category, *apiError.Error)
	ListStatuses() ([]models.Status, *apiError.Error)
}

type referenceService struct {
	referenceRepo db.ReferenceRepository
}

func NewReferenceService(referenceRepo db.ReferenceRepository) ReferenceService {
	return &referenceService{referenceRepo: referenceRepo}
}

func (r *referenceService) ListMunicipalities() ([]models.Municipality, *apiError.Error) {
	municipalities, err := r.referenceRepo.ListMunicipalities()
	if err != nil {
		log.Printf("ListMunicipalities error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return municipalities, nil
}

func (r *referenceService) ListWards(municipalityID uint) ([]models.Ward, *apiError.Error) {
	wards, err := r.referenceRepo.ListWards(municipalityID)
	if err != nil {
		log.Printf("ListWards error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return wards, nil
}

func (r *referenceService) ListCategories() ([]models.Category, *apiError.Error) {
	categories, err := r.referenceRepo.ListCategories()
	if err != nil {
		log.Printf("ListCategories error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return categories, nil
}

func (r *referenceService) ListStatuses() ([]models.Status, *apiError.Error) {
	statuses, err := r.referenceRepo.ListStatuses()
	if err != nil {
		log.Printf("ListStatuses error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return statuses, nil
}
