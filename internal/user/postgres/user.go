package postgres

import (
	"errors"

	"github.com/mfirmanda/helpdesk-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id string) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*user.User, error) {
	var u user.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(query user.ListUsersQuery) ([]*user.User, int64, error) {
	q := r.db.Model(&user.User{})

	if query.Department != "" {
		q = q.Where("department = ?", query.Department)
	}
	if query.Role != "" {
		q = q.Where("role = ?", query.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*user.User
	err := q.Order("name ASC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) All() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&user.User{}).Error
}
