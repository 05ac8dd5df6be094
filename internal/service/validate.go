package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/shopspring/decimal"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal is read directly; a custom type func returning the same
	// type would loop inside the validator.
	if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		amount, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && domain.ValidAmount(amount)
	}); err != nil {
		panic(fmt.Sprintf("register money validation: %v", err))
	}
	return v
}

// validateRequest runs struct validation and maps the first failing rule to
// a typed ledger error.
func validateRequest(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	var badAmount, sameAccount, badID bool
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "money":
			badAmount = true
		case fe.Tag() == "nefield":
			sameAccount = true
		case fe.Field() == "AccountID" || fe.Field() == "SenderID" || fe.Field() == "ReceiverID":
			badID = true
		}
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}

	switch {
	case badAmount:
		return domain.ErrInvalidAmount
	case badID:
		return domain.ErrInvalidAccountID
	case sameAccount:
		return domain.ErrSameAccount
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, strings.Join(fields, ", "))
}
