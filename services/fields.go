package services

import (
	"cashier/models"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// checkCustomFields validates submitted values against the method's declared
// field specs and returns the normalised map that gets stored.
func (s *Service) checkCustomFields(specs []models.FieldSpec, submitted map[string]any) (datatypes.JSONMap, error) {
	out := datatypes.JSONMap{}
	declared := make(map[string]bool, len(specs))

	for _, spec := range specs {
		declared[spec.Key] = true

		value := fieldString(submitted[spec.Key])

		if value == "" {
			if spec.Required {
				return nil, ValidationError("%s is required", spec.Label)
			}
			continue
		}

		switch spec.Type {
		case models.FieldNumber:
			if _, err := decimal.NewFromString(value); err != nil {
				return nil, ValidationError("%s must be a number", spec.Label)
			}
		case models.FieldEmail:
			if err := s.validate.Var(value, "email"); err != nil {
				return nil, ValidationError("%s must be a valid email address", spec.Label)
			}
		}
		out[spec.Key] = value
	}

	var unknown []string
	for key := range submitted {
		if !declared[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, ValidationError("unknown fields: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// fieldString renders a decoded JSON value. Numbers are printed without an
// exponent so long account numbers survive.
func fieldString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
