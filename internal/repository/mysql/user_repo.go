package mysql

import (
	"context"
	"errors"
	"strconv"

	"campusforum/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

// Create inserts the user and allocates its display uid inside one
// transaction: max existing uid + 1, seeded at model.UIDSeed. All uids are
// fixed-width decimal strings, so lexicographic order is numeric order.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last model.User
		maxUID := int64(model.UIDSeed)
		err := tx.Select("uid").Order("uid DESC").First(&last).Error
		if err == nil {
			if n, perr := strconv.ParseInt(last.UID, 10, 64); perr == nil && n > maxUID {
				maxUID = n
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user.UID = strconv.FormatInt(maxUID+1, 10)
		return tx.Create(user).Error
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

// FindByIdentifier resolves a login identifier against username, email,
// or uid.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ? OR uid = ?", identifier, identifier, identifier).
		First(&user).Error
	return &user, err
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	out := make(map[uint64]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []model.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

// UpdateProfile touches the mutable profile fields only.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint64, role model.Role) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *UserRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
