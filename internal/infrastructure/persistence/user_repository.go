package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email (case-insensitive)
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll returns a page of users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[identity.User], error) {
	query := r.db.WithContext(ctx).Model(&identity.User{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[identity.User]{}, err
	}

	var users []identity.User
	err := query.
		Order(orderClause(filter, "created_at DESC")).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&users).Error
	if err != nil {
		return shared.Paginated[identity.User]{}, err
	}

	return shared.NewPaginated(users, total, filter.Page, filter.PageSize), nil
}

// FindCoworkers returns users with the COWORKER role
func (r *GormUserRepository) FindCoworkers(ctx context.Context, activeOnly bool) ([]identity.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", identity.RoleCoworker)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var users []identity.User
	err := query.Order("last_name ASC, first_name ASC").Find(&users).Error
	return users, err
}

// ExistsByEmail checks whether a user with the email already exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Count returns the number of users with the given role
func (r *GormUserRepository) Count(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// orderClause builds a safe ORDER BY from the filter, falling back to def.
// Only known column names are accepted to keep user input out of SQL.
func orderClause(filter shared.Filter, def string) string {
	allowed := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"email":      true,
		"last_name":  true,
		"first_name": true,
		"start_time": true,
		"date":       true,
	}
	if !allowed[filter.OrderBy] {
		return def
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return filter.OrderBy + " " + dir
}
