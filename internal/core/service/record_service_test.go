package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

const (
	ownerA = "aaaaaaaaaaaaaaaaaaaaaaaa"
	ownerB = "bbbbbbbbbbbbbbbbbbbbbbbb"
)

func validRecordInput() ports.RecordInput {
	return ports.RecordInput{
		Username:       "  jdoe ",
		Age:            "42",
		Specialization: " Backend ",
		Address:        " 1 Main St ",
	}
}

func TestRecordService_Create(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())

	rec, err := svc.Create(context.Background(), ownerA, validRecordInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.UserID != ownerA {
		t.Fatalf("expected owner %s, got %s", ownerA, rec.UserID)
	}
	if rec.Username != "jdoe" || rec.Age != 42 || rec.Specialization != "Backend" || rec.Address != "1 Main St" {
		t.Fatalf("expected trimmed fields, got %+v", rec)
	}
}

func TestRecordService_Create_Validation(t *testing.T) {
	svc := NewRecordService(newStubRecordRepo(), zerolog.Nop())

	tests := []struct {
		name   string
		mutate func(*ports.RecordInput)
	}{
		{"short username", func(in *ports.RecordInput) { in.Username = " a " }},
		{"age zero", func(in *ports.RecordInput) { in.Age = "0" }},
		{"age too high", func(in *ports.RecordInput) { in.Age = "121" }},
		{"age not a number", func(in *ports.RecordInput) { in.Age = "old" }},
		{"age fractional", func(in *ports.RecordInput) { in.Age = "30.5" }},
		{"blank specialization", func(in *ports.RecordInput) { in.Specialization = "   " }},
		{"missing address", func(in *ports.RecordInput) { in.Address = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRecordInput()
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), ownerA, in); !errors.Is(err, domain.ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestRecordService_List_ScopedAndNewestFirst(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())

	first, _ := svc.Create(context.Background(), ownerA, validRecordInput())
	second, _ := svc.Create(context.Background(), ownerA, validRecordInput())
	if _, err := svc.Create(context.Background(), ownerB, validRecordInput()); err != nil {
		t.Fatalf("create for owner B failed: %v", err)
	}

	list, err := svc.List(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", list[0].ID, list[1].ID)
	}
}

func TestRecordService_OwnershipIsolation(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())

	rec, err := svc.Create(context.Background(), ownerA, validRecordInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), ownerB, rec.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on foreign get, got %v", err)
	}
	if _, err := svc.Update(context.Background(), ownerB, rec.ID, validRecordInput()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on foreign update, got %v", err)
	}
	if err := svc.Delete(context.Background(), ownerB, rec.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on foreign delete, got %v", err)
	}
	if _, ok := repo.records[rec.ID]; !ok {
		t.Fatalf("record must survive a foreign delete")
	}
}

func TestRecordService_UpdateAndDelete(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())
	rec, _ := svc.Create(context.Background(), ownerA, validRecordInput())

	in := validRecordInput()
	in.Age = "43"
	in.Username = "john"
	updated, err := svc.Update(context.Background(), ownerA, rec.ID, in)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Age != 43 || updated.Username != "john" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := svc.Delete(context.Background(), ownerA, rec.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), ownerA, rec.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
}

func TestRecordService_InvalidID(t *testing.T) {
	svc := NewRecordService(newStubRecordRepo(), zerolog.Nop())

	if _, err := svc.Get(context.Background(), ownerA, "not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if err := svc.Delete(context.Background(), ownerA, "123"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestRecordService_RequiresOwner(t *testing.T) {
	svc := NewRecordService(newStubRecordRepo(), zerolog.Nop())

	if _, err := svc.List(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
