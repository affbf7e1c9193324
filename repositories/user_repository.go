package repositories

import (
	"context"
	"strings"

	"gabinete-digital/models"
	"gabinete-digital/store"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

// Create stores the user; the password field must already be hashed.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.Append(ctx, store.TableUsers, store.Record{
		"id":         user.ID,
		"name":       user.Name,
		"email":      strings.ToLower(user.Email),
		"password":   user.Password,
		"role":       string(user.Role),
		"created_at": formatTime(user.CreatedAt),
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(ctx, func(row store.Record) bool { return row["email"] == email })
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(row store.Record) bool { return row["id"] == id })
}

func (r *userRepository) find(ctx context.Context, match func(store.Record) bool) (*models.User, error) {
	rows, err := r.store.ReadAll(ctx, store.TableUsers)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if !match(row) {
			continue
		}
		createdAt, err := parseTime(row, "created_at")
		if err != nil {
			return nil, corruptRow(store.TableUsers, err)
		}
		return &models.User{
			ID:        row["id"],
			Name:      row["name"],
			Email:     row["email"],
			Password:  row["password"],
			Role:      models.UserRole(row["role"]),
			CreatedAt: createdAt,
		}, nil
	}
	return nil, &models.ErrorNotFound{Message: "user not found"}
}
