package db

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	IsPhoneExist(phone string) error
	IsUsernameExist(username string) (bool, error)
	FindUserByUsername(username string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	ActivateUser(userID uint) error
	UpdatePassword(userID uint, hashedPassword string) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	FindRoleByName(name string) (*models.Role, error)
	ListUsersExcludingRole(role string, offset, limit int) ([]models.User, int64, error)
	CountUsersByRole(role string) (int64, error)
	CountUsersExcludingRole(role string) (int64, error)
	DeleteUser(userID uint, hideThreshold int) ([]models.Complaint, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("CreateUser error: user is nil")
		return nil, errors.New("user is nil")
	}

	if user.Role.Name == "" {
		user.Role.Name = models.RoleCitizen
	}
	role, err := a.FindRoleByName(user.Role.Name)
	if err != nil {
		log.Printf("CreateUser error fetching role %q: %v", user.Role.Name, err)
		return nil, err
	}
	user.RoleID = role.ID
	user.Role = *role

	if err := a.DB.Omit("Role", "Ward", "Municipality").Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

// IsEmailExist returns an error when the email is already registered.
func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm.count error")
	}
	if count > 0 {
		return fmt.Errorf("email already in use")
	}
	return nil
}

// IsPhoneExist returns an error when the phone number is already registered.
func (a *authRepo) IsPhoneExist(phone string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("telephone = ?", phone).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm.count error")
	}
	if count > 0 {
		return fmt.Errorf("phone number already in use")
	}
	return nil
}

func (a *authRepo) IsUsernameExist(username string) (bool, error) {
	var count int64
	err := a.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm.count error")
	}
	return count > 0, nil
}

func (a *authRepo) userQuery() *gorm.DB {
	return a.DB.Preload("Role").Preload("Ward").Preload("Municipality")
}

func (a *authRepo) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	err := a.userQuery().Where("email = ? OR username = ?", username, username).First(user).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not find user")
	}
	return user, nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	if err := a.userQuery().Where("LOWER(email) = LOWER(?)", email).First(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not find user")
	}
	return user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	user := &models.User{}
	if err := a.userQuery().Where("id = ?", id).First(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not find user")
	}
	return user, nil
}

func (a *authRepo) ActivateUser(userID uint) error {
	res := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", true)
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not activate user")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpdatePassword(userID uint, hashedPassword string) error {
	res := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("hashed_password", hashedPassword)
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not update password")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("blacklist lookup failed: %v", err)
		return false
	}
	return count > 0
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	role := &models.Role{}
	if err := a.DB.Where("name = ?", name).First(role).Error; err != nil {
		return nil, errors.Wrapf(err, "could not find role %s", name)
	}
	return role, nil
}

func (a *authRepo) ListUsersExcludingRole(role string, offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64
	q := a.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name <> ?", role).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "could not count users")
	}
	err := q.Preload("Role").Preload("Ward").Preload("Municipality").
		Order("users.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not list users")
	}
	return users, total, nil
}

func (a *authRepo) CountUsersByRole(role string) (int64, error) {
	var count int64
	err := a.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", role).
		Count(&count).Error
	return count, err
}

func (a *authRepo) CountUsersExcludingRole(role string) (int64, error) {
	var count int64
	err := a.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name <> ?", role).
		Count(&count).Error
	return count, err
}

// DeleteUser removes the user with everything they authored. Complaints the
// user had reported get their hidden flag recomputed against hideThreshold;
// those whose visibility changed are returned.
func (a *authRepo) DeleteUser(userID uint, hideThreshold int) ([]models.Complaint, error) {
	var flipped []models.Complaint
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var reported []uint
		err := tx.Model(&models.Report{}).
			Where("user_id = ? AND complaint_id NOT IN (?)", userID, tx.Model(&models.Complaint{}).Select("id").Where("user_id = ?", userID)).
			Pluck("complaint_id", &reported).Error
		if err != nil {
			return errors.Wrap(err, "could not list user reports")
		}

		for _, m := range []interface{}{&models.Like{}, &models.Comment{}, &models.Report{}} {
			ownComplaints := tx.Model(&models.Complaint{}).Select("id").Where("user_id = ?", userID)
			if err := tx.Where("user_id = ? OR complaint_id IN (?)", userID, ownComplaints).Delete(m).Error; err != nil {
				return errors.Wrap(err, "could not delete user interactions")
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Complaint{}).Error; err != nil {
			return errors.Wrap(err, "could not delete user complaints")
		}
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return errors.Wrap(res.Error, "could not delete user")
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for _, id := range reported {
			complaint, err := lockComplaint(tx, id)
			if err != nil {
				return errors.Wrap(err, "could not find reported complaint")
			}
			_, changed, err := syncHidden(tx, complaint, hideThreshold)
			if err != nil {
				return err
			}
			if changed {
				flipped = append(flipped, *complaint)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flipped, nil
}
