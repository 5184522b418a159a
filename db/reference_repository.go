package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

// ReferenceRepository reads and maintains the lookup tables: municipalities,
// wards, categories and statuses.
type ReferenceRepository interface {
	ListMunicipalities() ([]models.Municipality, error)
	CreateMunicipality(m *models.Municipality) error
	ListWards(municipalityID uint) ([]models.Ward, error)
	FindWardByID(id uint) (*models.Ward, error)
	CreateWard(w *models.Ward) error
	ListCategories() ([]models.Category, error)
	FindCategoryByID(id uint) (*models.Category, error)
	FindCategoryByName(name string) (*models.Category, error)
	CreateCategory(c *models.Category) error
	ListStatuses() ([]models.Status, error)
	FindStatusByID(id uint) (*models.Status, error)
	FindStatusByName(name string) (*models.Status, error)
	Count(model interface{}) (int64, error)
}

type referenceRepo struct {
	DB *gorm.DB
}

func NewReferenceRepo(db *GormDB) ReferenceRepository {
	return &referenceRepo{db.DB}
}

func (r *referenceRepo) ListMunicipalities() ([]models.Municipality, error) {
	var municipalities []models.Municipality
	err := r.DB.Order("name ASC").Find(&municipalities).Error
	return municipalities, errors.Wrap(err, "could not list municipalities")
}

func (r *referenceRepo) CreateMunicipality(m *models.Municipality) error {
	return r.DB.Create(m).Error
}

func (r *referenceRepo) ListWards(municipalityID uint) ([]models.Ward, error) {
	var wards []models.Ward
	err := r.DB.Where("municipality_id = ?", municipalityID).Order("ward_number ASC").Find(&wards).Error
	return wards, errors.Wrap(err, "could not list wards")
}

func (r *referenceRepo) FindWardByID(id uint) (*models.Ward, error) {
	ward := &models.Ward{}
	if err := r.DB.Preload("Municipality").Where("id = ?", id).First(ward).Error; err != nil {
		return nil, errors.Wrap(err, "could not find ward")
	}
	return ward, nil
}

func (r *referenceRepo) CreateWard(w *models.Ward) error {
	return r.DB.Omit("Municipality").Create(w).Error
}

func (r *referenceRepo) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.DB.Order("name ASC").Find(&categories).Error
	return categories, errors.Wrap(err, "could not list categories")
}

func (r *referenceRepo) FindCategoryByID(id uint) (*models.Category, error) {
	category := &models.Category{}
	if err := r.DB.Where("id = ?", id).First(category).Error; err != nil {
		return nil, errors.Wrap(err, "could not find category")
	}
	return category, nil
}

func (r *referenceRepo) FindCategoryByName(name string) (*models.Category, error) {
	category := &models.Category{}
	if err := r.DB.Where("LOWER(name) = LOWER(?)", name).First(category).Error; err != nil {
		return nil, errors.Wrap(err, "could not find category")
	}
	return category, nil
}

// CreateCategory fills the slug from the name when it is empty.
func (r *referenceRepo) CreateCategory(c *models.Category) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return r.DB.Create(c).Error
}

func (r *referenceRepo) ListStatuses() ([]models.Status, error) {
	var statuses []models.Status
	err := r.DB.Order("id ASC").Find(&statuses).Error
	return statuses, errors.Wrap(err, "could not list statuses")
}

func (r *referenceRepo) FindStatusByID(id uint) (*models.Status, error) {
	status := &models.Status{}
	if err := r.DB.Where("id = ?", id).First(status).Error; err != nil {
		return nil, errors.Wrap(err, "could not find status")
	}
	return status, nil
}

func (r *referenceRepo) FindStatusByName(name string) (*models.Status, error) {
	status := &models.Status{}
	if err := r.DB.Where("name = ?", name).First(status).Error; err != nil {
		return nil, errors.Wrap(err, "could not find status")
	}
	return status, nil
}

// Count returns the number of rows of the given model's table.
func (r *referenceRepo) Count(model interface{}) (int64, error) {
	var count int64
	err := r.DB.Model(model).Count(&count).Error
	return count, err
}
