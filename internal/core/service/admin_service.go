package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/crud-app/records-api/internal/api/metrics"
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

const (
	dashboardRecent  = 10
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// AdminService implements user management and site-wide views.
type AdminService struct {
	users      ports.UserRepository
	records    ports.RecordRepository
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

func NewAdminService(users ports.UserRepository, records ports.RecordRepository, bcryptCost int, logger zerolog.Logger) *AdminService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AdminService{
		users:      users,
		records:    records,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Authorize loads userID fresh from the store and requires the admin role.
// A stale identity (deleted user) is treated as unauthenticated.
func (s *AdminService) Authorize(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	var (
		d   ports.Dashboard
		err error
	)
	active, verified := true, true
	if d.TotalUsers, err = s.users.Count(ctx, ports.UserCountFilter{}); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if d.ActiveUsers, err = s.users.Count(ctx, ports.UserCountFilter{Active: &active}); err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if d.VerifiedUsers, err = s.users.Count(ctx, ports.UserCountFilter{Verified: &verified}); err != nil {
		return nil, fmt.Errorf("count verified users: %w", err)
	}
	if d.TotalRecords, err = s.records.Count(ctx, time.Time{}); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	if d.RecentUsers, _, err = s.users.List(ctx, 1, dashboardRecent); err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	recent, err := s.records.Recent(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	d.RecentRecords, err = s.withOwners(ctx, recent)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListUsers pages through users newest first. page < 1 becomes 1; limit
// defaults to 10 and is capped at 100.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ports.UserPage{
		Users:      users,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, actorID, userID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	if !domain.IsValidID(userID) {
		return nil, domain.ErrInvalidID
	}
	if userID == actorID && role != domain.RoleAdmin {
		return nil, domain.Detail(domain.ErrSelfModification, "cannot remove your own admin role")
	}

	user, err := s.users.SetRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("admin_id", actorID).Str("user_id", userID).Str("role", role).Msg("user role updated")
	return user, nil
}

func (s *AdminService) SetUserStatus(ctx context.Context, actorID, userID string, active bool) (*domain.User, error) {
	if !domain.IsValidID(userID) {
		return nil, domain.ErrInvalidID
	}
	if userID == actorID && !active {
		return nil, domain.Detail(domain.ErrSelfModification, "cannot deactivate your own account")
	}

	user, err := s.users.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("admin_id", actorID).Str("user_id", userID).Bool("is_active", active).Msg("user status updated")
	return user, nil
}

// DeleteUser removes the account and then every record it owns. The two
// steps are not atomic; a failed cascade is logged and returned.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if !domain.IsValidID(userID) {
		return domain.ErrInvalidID
	}
	if userID == actorID {
		return domain.Detail(domain.ErrSelfModification, "cannot delete your own account")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()

	n, err := s.records.DeleteByOwner(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("user deleted but record cascade failed")
		return fmt.Errorf("delete records of user %s: %w", userID, err)
	}
	s.logger.Info().Str("admin_id", actorID).Str("user_id", userID).Int64("records_deleted", n).Msg("user deleted")
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*ports.Stats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	active, verified := true, true

	var (
		st  ports.Stats
		err error
	)
	counts := []struct {
		dst    *int64
		filter ports.UserCountFilter
	}{
		{&st.TotalUsers, ports.UserCountFilter{}},
		{&st.ActiveUsers, ports.UserCountFilter{Active: &active}},
		{&st.VerifiedUsers, ports.UserCountFilter{Verified: &verified}},
		{&st.AdminUsers, ports.UserCountFilter{Role: domain.RoleAdmin}},
		{&st.UsersThisMonth, ports.UserCountFilter{CreatedSince: monthStart}},
	}
	for _, c := range counts {
		if *c.dst, err = s.users.Count(ctx, c.filter); err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
	}
	if st.TotalRecords, err = s.records.Count(ctx, time.Time{}); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if st.RecordsThisMonth, err = s.records.Count(ctx, monthStart); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	return &st, nil
}

// UpdateAnyRecord edits a record regardless of its owner.
func (s *AdminService) UpdateAnyRecord(ctx context.Context, id string, in ports.RecordInput) (*domain.Record, error) {
	return updateRecord(ctx, s.records, s.logger, id, "", in)
}

// DeleteAnyRecord removes a record regardless of its owner.
func (s *AdminService) DeleteAnyRecord(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.records, s.logger, id, "")
}

// EnsureAdmin creates a verified, active admin account unless email is
// already registered. The bool reports whether an account was created.
func (s *AdminService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, domain.ErrInvalidCredentials
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		s.logger.Info().Str("email", existing.Email).Str("role", existing.Role).
			Bool("is_active", existing.IsActive).Msg("admin user already exists")
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Administrator"
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            domain.RoleAdmin,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("admin user created")
	return created, true, nil
}

func (s *AdminService) withOwners(ctx context.Context, records []*domain.Record) ([]ports.RecordWithOwner, error) {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.UserID)
	}
	owners, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load record owners: %w", err)
	}

	out := make([]ports.RecordWithOwner, 0, len(records))
	for _, r := range records {
		item := ports.RecordWithOwner{Record: r}
		if u, ok := owners[r.UserID]; ok {
			item.OwnerName = u.Name
			item.OwnerEmail = u.Email
		}
		out = append(out, item)
	}
	return out, nil
}
