package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

func TestUserMapping_PreservesFields(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	in := &domain.User{
		ID:                       primitive.NewObjectID().Hex(),
		Name:                     "Alice",
		Email:                    "alice@example.com",
		PasswordHash:             "$2a$hash",
		Role:                     domain.RoleAdmin,
		IsActive:                 true,
		IsEmailVerified:          true,
		EmailVerificationToken:   "otp-hash",
		EmailVerificationExpires: now.Add(10 * time.Minute),
		LastLogin:                &now,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	out := fromDomainUser(in).toDomain()
	if out.ID != in.ID || out.Email != in.Email || out.PasswordHash != in.PasswordHash || out.Role != in.Role {
		t.Fatalf("identity fields lost: %+v", out)
	}
	if !out.EmailVerificationExpires.Equal(in.EmailVerificationExpires) {
		t.Fatalf("expiry lost: %v", out.EmailVerificationExpires)
	}
	if !out.ResetPasswordExpires.IsZero() {
		t.Fatalf("expected zero reset expiry, got %v", out.ResetPasswordExpires)
	}
}

// Each auth write touches only its own fields so a concurrent admin change
// to role or isActive is never overwritten.
func TestUserWrites_TouchOnlyOwnFields(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	owned := map[string]bool{"role": true, "isActive": true, "name": true, "email": true}

	reset := resetTokenSet("reset-hash", now.Add(time.Hour))
	otp := verificationTokenSet("otp-hash", now.Add(10*time.Minute))
	for name, set := range map[string]bson.M{"reset": reset, "otp": otp} {
		if _, ok := set["password"]; ok {
			t.Fatalf("%s token write must not touch password", name)
		}
		for field := range owned {
			if _, ok := set[field]; ok {
				t.Fatalf("%s token write must not touch %s", name, field)
			}
		}
	}
	if reset["resetPasswordToken"] != "reset-hash" {
		t.Fatalf("expected reset token to be set, got %v", reset["resetPasswordToken"])
	}

	pw := passwordResetUpdate("$2a$new", now)
	set := pw["$set"].(bson.M)
	unset := pw["$unset"].(bson.M)
	if set["password"] != "$2a$new" || len(set) != 2 {
		t.Fatalf("unexpected password reset $set: %v", set)
	}
	if _, ok := unset["resetPasswordToken"]; !ok {
		t.Fatalf("reset token must be consumed with the password write")
	}
	if _, ok := set["isActive"]; ok {
		t.Fatalf("password reset must not touch isActive")
	}

	verified := verifiedUpdate(now)
	vset := verified["$set"].(bson.M)
	if vset["isEmailVerified"] != true || vset["isActive"] != true {
		t.Fatalf("unexpected verify $set: %v", vset)
	}
	if _, ok := vset["password"]; ok {
		t.Fatalf("verify must not touch password")
	}
	if _, ok := verified["$unset"].(bson.M)["emailVerificationToken"]; !ok {
		t.Fatalf("verification token must be consumed")
	}
}

func TestUserCountFilter(t *testing.T) {
	active := true
	since := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	f := userCountFilter(ports.UserCountFilter{Active: &active, Role: domain.RoleAdmin, CreatedSince: since})
	if f["isActive"] != true || f["role"] != domain.RoleAdmin {
		t.Fatalf("unexpected filter: %v", f)
	}
	if _, ok := f["isEmailVerified"]; ok {
		t.Fatalf("verified must not be filtered when nil")
	}
	created, ok := f["createdAt"].(bson.M)
	if !ok || !created["$gte"].(time.Time).Equal(since) {
		t.Fatalf("unexpected createdAt filter: %v", f["createdAt"])
	}

	if len(userCountFilter(ports.UserCountFilter{})) != 0 {
		t.Fatalf("empty filter expected")
	}
}

func TestScopedFilter(t *testing.T) {
	id := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	f, ok := scopedFilter(id.Hex(), owner.Hex())
	if !ok || f["_id"] != id || f["user"] != owner {
		t.Fatalf("unexpected scoped filter: %v", f)
	}

	f, ok = scopedFilter(id.Hex(), "")
	if !ok {
		t.Fatalf("expected unscoped filter")
	}
	if _, scoped := f["user"]; scoped {
		t.Fatalf("empty owner must not filter by user")
	}

	if _, ok := scopedFilter("nope", owner.Hex()); ok {
		t.Fatalf("invalid id must be rejected")
	}
	if _, ok := scopedFilter(id.Hex(), "nope"); ok {
		t.Fatalf("invalid owner must be rejected")
	}
}

func TestRecordMapping(t *testing.T) {
	m := mongoRecord{
		ID:             primitive.NewObjectID(),
		User:           primitive.NewObjectID(),
		Username:       "jdoe",
		Age:            33,
		Specialization: "Ops",
		Address:        "Road 1",
	}
	r := m.toDomain()
	if r.ID != m.ID.Hex() || r.UserID != m.User.Hex() || r.Age != 33 {
		t.Fatalf("unexpected record: %+v", r)
	}
}
