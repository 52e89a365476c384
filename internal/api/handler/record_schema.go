package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

// ageValue accepts a JSON number, a JSON string or a form value and keeps
// the raw text; range and integer checks happen in the domain.
type ageValue string

func (a *ageValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = ageValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New("age must be a number")
		}
		*a = ageValue(n.String())
	}
	return nil
}

// UnmarshalParam lets echo bind the field from form and query values.
func (a *ageValue) UnmarshalParam(param string) error {
	*a = ageValue(strings.TrimSpace(param))
	return nil
}

type recordRequest struct {
	Username       string   `json:"username" form:"username"`
	Age            ageValue `json:"age" form:"age"`
	Specialization string   `json:"specialization" form:"specialization"`
	Address        string   `json:"address" form:"address"`
}

func (r recordRequest) toInput() ports.RecordInput {
	return ports.RecordInput{
		Username:       r.Username,
		Age:            string(r.Age),
		Specialization: r.Specialization,
		Address:        r.Address,
	}
}

type recordResponse struct {
	Message string         `json:"message,omitempty"`
	Data    *domain.Record `json:"data"`
}

type recordListResponse struct {
	Data  []*domain.Record `json:"data"`
	Count int              `json:"count"`
}
