// Package validation is the single canonical schema module for applicant
// input. The wizard runs it client-side for UX and the submission endpoint
// runs it again behind the trust boundary; both surfaces import this package
// so the two passes cannot drift.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
)

var (
	digitsOnly = regexp.MustCompile(`[0-9]`)
	last4Re    = regexp.MustCompile(`^[0-9]{4}$`)
	zipRe      = regexp.MustCompile(`^[0-9]{5}([0-9]{4})?$`)
)

// validate is the shared validator instance with the custom rules registered.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report failures by json field name so error paths match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimal.Decimal participates in numeric comparisons as a float.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// usphone: at least ten digits once separators are stripped.
	_ = v.RegisterValidation("usphone", func(fl validator.FieldLevel) bool {
		return len(digitsOnly.FindAllString(fl.Field().String(), -1)) >= 10
	})

	// zipcode: five or nine digits, optional dash.
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		s := strings.ReplaceAll(fl.Field().String(), "-", "")
		return zipRe.MatchString(s)
	})

	// last4: exactly four numeric digits, never a full account number.
	_ = v.RegisterValidation("last4", func(fl validator.FieldLevel) bool {
		return last4Re.MatchString(fl.Field().String())
	})

	return v
}

// reasonFor maps a failed rule to a human-readable reason.
func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Bool {
			return "must be accepted"
		}
		return "is required"
	case "email":
		return "must be a valid email address"
	case "usphone":
		return "must contain at least 10 digits"
	case "zipcode":
		return "must be a 5 or 9 digit ZIP code"
	case "last4":
		return "must be exactly 4 digits"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must have at least " + fe.Param() + " entries"
		}
		return "must be at least " + fe.Param()
	case "len":
		if fe.Kind() == reflect.Slice {
			return "must have exactly " + fe.Param() + " entries"
		}
		return "must have length " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}

// check runs the validator over value and returns field errors whose paths
// are rooted at prefix (empty prefix means the value's own json names).
func check(prefix string, value any) []apperrors.FieldError {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.FieldError{{Field: prefix, Reason: err.Error()}}
	}
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "TypeName.path.to.field"; drop the type name.
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		fields = append(fields, apperrors.FieldError{Field: path, Reason: reasonFor(fe)})
	}
	return fields
}

// asError wraps field errors in an apperrors.ValidationError, or nil.
func asError(fields []apperrors.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidationError(fields...)
}

// CompanyInfo validates the company-info step.
func CompanyInfo(p dto.CompanyInfoPayload) error {
	return asError(check("companyInfo", p))
}

// Owners validates the owners step, including the at-least-one invariant.
func Owners(owners []dto.OwnerPayload) error {
	return asError(check("", dto.OwnersPayload{Owners: owners}))
}

// BankReference validates the bank-reference step.
func BankReference(p dto.BankReferencePayload) error {
	return asError(check("bankReference", p))
}

// TradeReferences validates the trade-references step, including the
// fixed-arity-of-three invariant.
func TradeReferences(refs []dto.TradeReferencePayload) error {
	return asError(check("", dto.TradeReferencesPayload{TradeReferences: refs}))
}

// SalesProfile validates the sales-profile step.
func SalesProfile(p dto.SalesProfilePayload) error {
	return asError(check("salesProfile", p))
}

// Agreements validates the consent-and-signature step.
func Agreements(p dto.AgreementsPayload) error {
	return asError(check("agreements", p))
}

// Application validates the full aggregate. Used by the wizard immediately
// before submission and by the server on every submission request.
func Application(req dto.CreditApplicationRequest) error {
	return asError(check("", req))
}

// ApplicationFields validates the full aggregate and returns the raw field
// list, for callers that build their own response body.
func ApplicationFields(req dto.CreditApplicationRequest) []apperrors.FieldError {
	return check("", req)
}

// Quote validates the single-step quote/lead form.
func Quote(req dto.QuoteRequest) error {
	return asError(check("", req))
}
