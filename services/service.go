package services

import (
	"cashier/events"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MinimumAmount applies to both deposits and withdrawals.
var MinimumAmount = decimal.NewFromInt(100)

// checkAmount rejects values the numeric(20,2) money columns would round.
func checkAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return ValidationError("%s must have at most 2 decimal places", field)
	}
	return nil
}

type Options struct {
	Publisher        events.Publisher
	PhoneCountryCode string
}

type Service struct {
	db        *gorm.DB
	publisher events.Publisher
	phoneCC   string
	validate  *validator.Validate
}

func New(db *gorm.DB, opts Options) *Service {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.PhoneCountryCode == "" {
		opts.PhoneCountryCode = "880"
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Service{
		db:        db,
		publisher: opts.Publisher,
		phoneCC:   opts.PhoneCountryCode,
		validate:  v,
	}
}

func (s *Service) check(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return ValidationError("%s is required", fe.Field())
		case "min":
			return ValidationError("%s must be at least %s characters", fe.Field(), fe.Param())
		case "max":
			return ValidationError("%s must be at most %s characters", fe.Field(), fe.Param())
		case "oneof":
			return ValidationError("%s must be one of [%s]", fe.Field(), fe.Param())
		default:
			return ValidationError("%s is invalid", fe.Field())
		}
	}
	return fmt.Errorf("validate input: %w", err)
}

// publish runs after commit; the ledger is already durable so failures are
// logged, not returned.
func (s *Service) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Error().Err(err).Str("type", evt.Type).Str("ref", evt.Reference).Msg("[EVENTS] publish failed")
	}
}

// publishWithBalance attaches the committed balance for transitions that did
// not move money. A failed read is logged and the event goes out without it.
func (s *Service) publishWithBalance(ctx context.Context, evt events.Event) {
	balance, err := balanceOf(s.db.WithContext(ctx), evt.UserID)
	if err != nil {
		log.Warn().Err(err).Str("type", evt.Type).Uint("user_id", evt.UserID).Msg("[EVENTS] balance unavailable")
	} else {
		evt = evt.WithBalance(balance)
	}
	s.publish(ctx, evt)
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
