package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const userColumns = `id, name, email, password_hash, phone, address, role, active, last_login_at,
	city, country, latitude, longitude, language, loyalty_points, created_at, updated_at`

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row scanner, u *model.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Address,
		&u.Role, &u.Active, &u.LastLoginAt, &u.City, &u.Country, &u.Latitude,
		&u.Longitude, &u.Language, &u.LoyaltyPoints, &u.CreatedAt, &u.UpdatedAt)
}

// Create stores a new user with a hashed password. Emails are stored lowercased.
func (s *UserService) Create(ctx context.Context, name, email, password, phone, address, role string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleCustomer
	}

	now := time.Now()
	user := &model.User{
		ID:           platform.NewID(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Phone:        phone,
		Address:      address,
		Role:         role,
		Active:       true,
		Language:     "es",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, phone, address, role, active, language, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.Address,
		user.Role, user.Active, user.Language, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, conflict(err, "create user %s", user.Email)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if err != nil {
		return nil, notFound(err, "get user %s", id)
	}
	return &u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), &u)
	if err != nil {
		return nil, notFound(err, "get user by email")
	}
	return &u, nil
}

// TouchLogin records a successful login.
func (s *UserService) TouchLogin(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login %s: %w", id, err)
	}
	return nil
}

// List returns users matching params. Search matches name or email; Status
// filters by role.
func (s *UserService) List(ctx context.Context, params request.ListParams, active *bool) ([]model.User, bool, error) {
	var f filter
	if params.Search != "" {
		f.add(`(name ILIKE ? OR email ILIKE ?)`, "%"+params.Search+"%")
	}
	if params.Status != "" {
		f.add(`role = ?`, params.Status)
	}
	if active != nil {
		f.add(`active = ?`, *active)
	}
	query := `SELECT ` + userColumns + ` FROM users` + f.where() + f.page(params, "created_at", "name", "email", "last_login_at")

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, false, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate users: %w", err)
	}

	users, hasMore := trimPage(users, params.Limit)
	return users, hasMore, nil
}

// Update persists the editable profile fields.
func (s *UserService) Update(ctx context.Context, user *model.User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET name = $1, phone = $2, address = $3, updated_at = now() WHERE id = $4`,
		user.Name, user.Phone, user.Address, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (s *UserService) UpdateLocation(ctx context.Context, id, city, country string, lat, lng *float64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET city = $1, country = $2, latitude = $3, longitude = $4, updated_at = now() WHERE id = $5`,
		city, country, lat, lng, id,
	)
	if err != nil {
		return fmt.Errorf("update user location %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user location %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *UserService) UpdateLanguage(ctx context.Context, id, language string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET language = $1, updated_at = now() WHERE id = $2`, language, id)
	if err != nil {
		return fmt.Errorf("update user language %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user language %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *UserService) SetRole(ctx context.Context, id, role string) error {
	if role != model.RoleCustomer && role != model.RoleAdmin {
		return fmt.Errorf("set role %q: %w", role, ErrInvalidInput)
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("set user role %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set user role %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetActive activates or soft-deletes a user.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set user active %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set user active %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*model.UserStats, error) {
	var st model.UserStats
	err := s.db.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE active),
		        count(*) FILTER (WHERE role = 'admin'),
		        count(*) FILTER (WHERE created_at >= date_trunc('month', now()))
		 FROM users`,
	).Scan(&st.Total, &st.Active, &st.Admins, &st.NewThisMonth)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return &st, nil
}
