package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
	// afterFind runs once after FindByEmail has read a user, standing in for
	// a concurrent request that writes before the caller does.
	afterFind func()
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) newID() string {
	r.nextID++
	return fmt.Sprintf("%024x", r.nextID)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = r.newID()
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			found := cloneUser(u)
			if hook := r.afterFind; hook != nil {
				r.afterFind = nil
				hook()
			}
			return found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) SetVerificationToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerificationToken = tokenHash
	u.EmailVerificationExpires = expires
	return nil
}

func (r *stubUserRepo) MarkVerified(_ context.Context, id, tokenHash string, now time.Time) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || tokenHash == "" || u.EmailVerificationToken != tokenHash || !u.EmailVerificationExpires.After(now) {
		return nil, domain.ErrUserNotFound
	}
	u.IsEmailVerified = true
	u.IsActive = true
	u.EmailVerificationToken = ""
	u.EmailVerificationExpires = time.Time{}
	u.UpdatedAt = now
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordToken = tokenHash
	u.ResetPasswordExpires = expires
	return nil
}

func (r *stubUserRepo) ResetPassword(_ context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error) {
	for _, u := range r.users {
		if tokenHash != "" && u.ResetPasswordToken == tokenHash && u.ResetPasswordExpires.After(now) {
			u.PasswordHash = passwordHash
			u.ResetPasswordToken = ""
			u.ResetPasswordExpires = time.Time{}
			u.UpdatedAt = now
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetRole(_ context.Context, id, role string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = active
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) sorted() []*domain.User {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *stubUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	all := r.sorted()
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *stubUserRepo) Count(_ context.Context, f ports.UserCountFilter) (int64, error) {
	var n int64
	for _, u := range r.users {
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		if f.Verified != nil && u.IsEmailVerified != *f.Verified {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !f.CreatedSince.IsZero() && u.CreatedAt.Before(f.CreatedSince) {
			continue
		}
		n++
	}
	return n, nil
}

type stubRecordRepo struct {
	records      map[string]*domain.Record
	nextID       int
	deleteOwnErr error
}

func newStubRecordRepo() *stubRecordRepo {
	return &stubRecordRepo{records: make(map[string]*domain.Record)}
}

func cloneRecord(r *domain.Record) *domain.Record {
	clone := *r
	return &clone
}

func (s *stubRecordRepo) Create(_ context.Context, r *domain.Record) (*domain.Record, error) {
	s.nextID++
	copy := cloneRecord(r)
	copy.ID = fmt.Sprintf("%024x", 0xabc000+s.nextID)
	if copy.CreatedAt.IsZero() {
		copy.CreatedAt = time.Date(2025, 1, 1, 0, 0, s.nextID, 0, time.UTC)
	}
	copy.UpdatedAt = copy.CreatedAt
	s.records[copy.ID] = cloneRecord(copy)
	return copy, nil
}

func (s *stubRecordRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Record, error) {
	var out []*domain.Record
	for _, r := range s.records {
		if r.UserID == ownerID {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *stubRecordRepo) find(id, ownerID string) (*domain.Record, error) {
	r, ok := s.records[id]
	if !ok || (ownerID != "" && r.UserID != ownerID) {
		return nil, domain.ErrRecordNotFound
	}
	return r, nil
}

func (s *stubRecordRepo) FindByID(_ context.Context, id, ownerID string) (*domain.Record, error) {
	r, err := s.find(id, ownerID)
	if err != nil {
		return nil, err
	}
	return cloneRecord(r), nil
}

func (s *stubRecordRepo) Update(_ context.Context, id, ownerID string, f domain.RecordFields) (*domain.Record, error) {
	r, err := s.find(id, ownerID)
	if err != nil {
		return nil, err
	}
	r.Username, r.Age, r.Specialization, r.Address = f.Username, f.Age, f.Specialization, f.Address
	return cloneRecord(r), nil
}

func (s *stubRecordRepo) Delete(_ context.Context, id, ownerID string) error {
	if _, err := s.find(id, ownerID); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

func (s *stubRecordRepo) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	if s.deleteOwnErr != nil {
		return 0, s.deleteOwnErr
	}
	var n int64
	for id, r := range s.records {
		if r.UserID == ownerID {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

func (s *stubRecordRepo) Count(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, r := range s.records {
		if since.IsZero() || !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *stubRecordRepo) Recent(_ context.Context, n int) ([]*domain.Record, error) {
	var out []*domain.Record
	for _, r := range s.records {
		out = append(out, cloneRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

type sentMail struct {
	kind, to, secret string
}

type stubMailer struct {
	sent    []sentMail
	err     error
	console bool
}

func (m *stubMailer) SendVerificationOTP(_ context.Context, to, _, otp string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: "otp", to: to, secret: otp})
	return nil
}

func (m *stubMailer) SendPasswordReset(_ context.Context, to, _, resetURL string, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: "reset", to: to, secret: resetURL})
	return nil
}

func (m *stubMailer) Console() bool { return m.console }

func (m *stubMailer) last() sentMail {
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

var errBoom = errors.New("boom")
