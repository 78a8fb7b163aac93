package services

import (
	"cashier/models"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var hundred = decimal.NewFromInt(100)

type DepositMethodInput struct {
	NameEN             string              `json:"name_en" validate:"required,max=64"`
	NameBN             string              `json:"name_bn" validate:"max=64"`
	AccountNumber      string              `json:"account_number" validate:"max=64"`
	MethodTypes        []string            `json:"method_types"`
	BonusPercentage    decimal.Decimal     `json:"bonus_percentage"`
	TurnoverMultiplier decimal.Decimal     `json:"turnover_multiplier"`
	MinDeposit         decimal.NullDecimal `json:"min_deposit"`
	MaxDeposit         decimal.NullDecimal `json:"max_deposit"`
	IsActive           bool                `json:"is_active"`
	Order              int                 `json:"order"`
}

func (s *Service) validateDepositMethod(in *DepositMethodInput) error {
	in.NameEN = strings.TrimSpace(in.NameEN)
	in.NameBN = strings.TrimSpace(in.NameBN)
	if err := s.check(in); err != nil {
		return err
	}
	if in.BonusPercentage.IsNegative() || in.BonusPercentage.GreaterThan(hundred) {
		return ValidationError("bonus_percentage must be between 0 and 100")
	}
	if in.TurnoverMultiplier.IsNegative() {
		return ValidationError("turnover_multiplier must not be negative")
	}
	if err := checkRange("deposit", in.MinDeposit, in.MaxDeposit); err != nil {
		return err
	}

	types := make([]string, 0, len(in.MethodTypes))
	for _, t := range in.MethodTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	in.MethodTypes = types
	return nil
}

func checkRange(what string, min, max decimal.NullDecimal) error {
	if min.Valid && min.Decimal.IsNegative() {
		return ValidationError("min_%s must not be negative", what)
	}
	if min.Valid && max.Valid && max.Decimal.LessThan(min.Decimal) {
		return ValidationError("max_%s must be greater than or equal to min_%s", what, what)
	}
	return nil
}

func (s *Service) CreateDepositMethod(ctx context.Context, in DepositMethodInput) (*models.DepositMethod, error) {
	if err := s.validateDepositMethod(&in); err != nil {
		return nil, err
	}

	method := models.DepositMethod{
		NameEN:             in.NameEN,
		NameBN:             in.NameBN,
		AccountNumber:      in.AccountNumber,
		MethodTypes:        datatypes.JSONSlice[string](in.MethodTypes),
		BonusPercentage:    in.BonusPercentage,
		TurnoverMultiplier: in.TurnoverMultiplier,
		MinDeposit:         in.MinDeposit,
		MaxDeposit:         in.MaxDeposit,
		IsActive:           in.IsActive,
		Order:              in.Order,
	}
	if err := s.db.WithContext(ctx).Create(&method).Error; err != nil {
		return nil, fmt.Errorf("create deposit method: %w", err)
	}

	log.Info().Uint("method_id", method.ID).Str("name", method.NameEN).Msg("[CATALOG] deposit method created")
	return &method, nil
}

// UpdateDepositMethod replaces the method's terms. Requests already submitted
// keep their bonus snapshot; approval re-reads the multiplier.
func (s *Service) UpdateDepositMethod(ctx context.Context, id uint, in DepositMethodInput) (*models.DepositMethod, error) {
	if err := s.validateDepositMethod(&in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var method models.DepositMethod
	if err := db.First(&method, id).Error; err != nil {
		return nil, notFound(err, "deposit method")
	}

	if err := db.Model(&method).Updates(map[string]any{
		"name_en":             in.NameEN,
		"name_bn":             in.NameBN,
		"account_number":      in.AccountNumber,
		"method_types":        datatypes.JSONSlice[string](in.MethodTypes),
		"bonus_percentage":    in.BonusPercentage,
		"turnover_multiplier": in.TurnoverMultiplier,
		"min_deposit":         in.MinDeposit,
		"max_deposit":         in.MaxDeposit,
		"is_active":           in.IsActive,
		"sort_order":          in.Order,
	}).Error; err != nil {
		return nil, fmt.Errorf("update deposit method: %w", err)
	}

	if err := db.First(&method, id).Error; err != nil {
		return nil, notFound(err, "deposit method")
	}
	return &method, nil
}

func (s *Service) GetDepositMethod(ctx context.Context, id uint) (*models.DepositMethod, error) {
	var method models.DepositMethod
	if err := s.db.WithContext(ctx).First(&method, id).Error; err != nil {
		return nil, notFound(err, "deposit method")
	}
	return &method, nil
}

func (s *Service) ListDepositMethods(ctx context.Context, activeOnly bool) ([]models.DepositMethod, error) {
	db := s.db.WithContext(ctx).Order("sort_order ASC, id ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	methods := []models.DepositMethod{}
	if err := db.Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("list deposit methods: %w", err)
	}
	return methods, nil
}

type WithdrawMethodInput struct {
	NameEN      string              `json:"name_en" validate:"required,max=64"`
	NameBN      string              `json:"name_bn" validate:"max=64"`
	Fields      []models.FieldSpec  `json:"fields" validate:"dive"`
	MinWithdraw decimal.NullDecimal `json:"min_withdraw"`
	MaxWithdraw decimal.NullDecimal `json:"max_withdraw"`
	IsActive    bool                `json:"is_active"`
	Order       int                 `json:"order"`
}

func (s *Service) validateWithdrawMethod(in *WithdrawMethodInput) error {
	in.NameEN = strings.TrimSpace(in.NameEN)
	in.NameBN = strings.TrimSpace(in.NameBN)
	if err := s.check(in); err != nil {
		return err
	}
	if err := checkRange("withdraw", in.MinWithdraw, in.MaxWithdraw); err != nil {
		return err
	}

	seen := make(map[string]bool, len(in.Fields))
	for i := range in.Fields {
		f := &in.Fields[i]
		f.Key = strings.TrimSpace(f.Key)
		f.Label = strings.TrimSpace(f.Label)
		if f.Key == "" {
			return ValidationError("fields[%d].key is required", i)
		}
		if seen[f.Key] {
			return ValidationError("field %q is declared twice", f.Key)
		}
		seen[f.Key] = true

		switch f.Type {
		case models.FieldText, models.FieldNumber, models.FieldEmail:
		case "":
			f.Type = models.FieldText
		default:
			return ValidationError("field %q has unknown type %q", f.Key, f.Type)
		}
		if f.Label == "" {
			f.Label = f.Key
		}
	}
	return nil
}

func (s *Service) CreateWithdrawMethod(ctx context.Context, in WithdrawMethodInput) (*models.WithdrawMethod, error) {
	if err := s.validateWithdrawMethod(&in); err != nil {
		return nil, err
	}

	method := models.WithdrawMethod{
		NameEN:      in.NameEN,
		NameBN:      in.NameBN,
		Fields:      datatypes.JSONSlice[models.FieldSpec](in.Fields),
		MinWithdraw: in.MinWithdraw,
		MaxWithdraw: in.MaxWithdraw,
		IsActive:    in.IsActive,
		Order:       in.Order,
	}
	if err := s.db.WithContext(ctx).Create(&method).Error; err != nil {
		return nil, fmt.Errorf("create withdraw method: %w", err)
	}

	log.Info().Uint("method_id", method.ID).Str("name", method.NameEN).Msg("[CATALOG] withdraw method created")
	return &method, nil
}

func (s *Service) UpdateWithdrawMethod(ctx context.Context, id uint, in WithdrawMethodInput) (*models.WithdrawMethod, error) {
	if err := s.validateWithdrawMethod(&in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var method models.WithdrawMethod
	if err := db.First(&method, id).Error; err != nil {
		return nil, notFound(err, "withdraw method")
	}

	if err := db.Model(&method).Updates(map[string]any{
		"name_en":      in.NameEN,
		"name_bn":      in.NameBN,
		"fields":       datatypes.JSONSlice[models.FieldSpec](in.Fields),
		"min_withdraw": in.MinWithdraw,
		"max_withdraw": in.MaxWithdraw,
		"is_active":    in.IsActive,
		"sort_order":   in.Order,
	}).Error; err != nil {
		return nil, fmt.Errorf("update withdraw method: %w", err)
	}

	if err := db.First(&method, id).Error; err != nil {
		return nil, notFound(err, "withdraw method")
	}
	return &method, nil
}

func (s *Service) GetWithdrawMethod(ctx context.Context, id uint) (*models.WithdrawMethod, error) {
	var method models.WithdrawMethod
	if err := s.db.WithContext(ctx).First(&method, id).Error; err != nil {
		return nil, notFound(err, "withdraw method")
	}
	return &method, nil
}

func (s *Service) ListWithdrawMethods(ctx context.Context, activeOnly bool) ([]models.WithdrawMethod, error) {
	db := s.db.WithContext(ctx).Order("sort_order ASC, id ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	methods := []models.WithdrawMethod{}
	if err := db.Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("list withdraw methods: %w", err)
	}
	return methods, nil
}
