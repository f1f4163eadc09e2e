package controllers

import (
	"github.com/google/uuid"

	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
)

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	value, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "field must be a UUID").WithDetails(map[string]string{field: "must be a valid UUID"})
	}
	return value, nil
}

func parseOptionalUUIDField(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	value, err := parseUUIDField(*raw, field)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
