package domain

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinAge          = 1
	MaxAge          = 120
	minUsernameLen  = 2
	objectIDHexSize = 24
)

var (
	ErrRecordNotFound = errors.New("data not found")
	ErrInvalidID      = errors.New("invalid id format")
	ErrInvalidRecord  = errors.New("invalid record")
)

// Record is a personal data entry owned by exactly one user.
type Record struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user"`
	Username       string    `json:"username"`
	Age            int       `json:"age"`
	Specialization string    `json:"specialization"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecordFields is the mutable part of a record after validation.
type RecordFields struct {
	Username       string
	Age            int
	Specialization string
	Address        string
}

// NewRecordFields trims and validates raw input. Age may arrive as any
// decimal string (form posts, JSON strings or numbers).
func NewRecordFields(username, age, specialization, address string) (RecordFields, error) {
	f := RecordFields{
		Username:       strings.TrimSpace(username),
		Specialization: strings.TrimSpace(specialization),
		Address:        strings.TrimSpace(address),
	}
	age = strings.TrimSpace(age)
	if f.Username == "" || age == "" || f.Specialization == "" || f.Address == "" {
		return RecordFields{}, Detail(ErrInvalidRecord, "all fields are required")
	}
	if len([]rune(f.Username)) < minUsernameLen {
		return RecordFields{}, Detail(ErrInvalidRecord, fmt.Sprintf("username must be at least %d characters long", minUsernameLen))
	}

	n, err := strconv.ParseFloat(age, 64)
	if err != nil || n != float64(int(n)) {
		return RecordFields{}, Detail(ErrInvalidRecord, "age must be a whole number")
	}
	f.Age = int(n)
	if f.Age < MinAge || f.Age > MaxAge {
		return RecordFields{}, Detail(ErrInvalidRecord, fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge))
	}
	return f, nil
}

// IsValidID reports whether id has the shape of a Mongo ObjectID (24 hex chars).
func IsValidID(id string) bool {
	if len(id) != objectIDHexSize {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
