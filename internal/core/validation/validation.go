// Package validation checks request input against declared constraints and
// reports every failing field as a domain.Violation.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

var (
	pagePattern     = regexp.MustCompile(`^[1-9]\d*$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// Engine wraps go-playground/validator with the API's custom rules.
type Engine struct {
	v *validator.Validate
}

// New returns an Engine with the notblank, page and username rules
// registered. Property paths are taken from json tags.
func New() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("page", func(fl validator.FieldLevel) bool {
		return pagePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &Engine{v: v}
}

// Struct validates i and returns all violations, or nil when i is valid.
func (e *Engine) Struct(i any) []domain.Violation {
	err := e.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.Violation{{PropertyPath: "", Message: err.Error()}}
	}
	out := make([]domain.Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.Violation{PropertyPath: fe.Field(), Message: message(fe)})
	}
	return out
}

// ProductQueryParams holds raw listing parameters. A nil field was absent
// from the request and takes its default.
type ProductQueryParams struct {
	Brand *string
	Order *string
	Page  *string
}

type productQuery struct {
	Brand string `json:"brand" validate:"required"`
	Order string `json:"order" validate:"notblank,oneof=asc desc"`
	Page  string `json:"page"  validate:"notblank,page"`
}

// ProductQuery normalizes listing parameters. Brand defaults to "all", order
// to "asc" and page to 1. Present but invalid values are never coerced. Brand
// only has to be non-empty; whitespace is a legitimate substring.
func (e *Engine) ProductQuery(p ProductQueryParams) (domain.ProductQuery, error) {
	in := productQuery{
		Brand: valueOr(p.Brand, domain.AllBrands),
		Order: valueOr(p.Order, string(domain.SortAsc)),
		Page:  valueOr(p.Page, "1"),
	}
	if violations := e.Struct(in); len(violations) > 0 {
		return domain.ProductQuery{}, domain.NewValidationError(violations...)
	}

	// The pattern admits only digits, so Atoi can fail on overflow alone. An
	// overflowing page is past any last page and saturates.
	page, err := strconv.Atoi(in.Page)
	if err != nil {
		page = math.MaxInt
	}
	return domain.ProductQuery{Brand: in.Brand, Order: domain.SortOrder(in.Order), Page: page}, nil
}

type newUser struct {
	Username string `json:"username" validate:"notblank,min=3,max=180,username"`
	Password string `json:"password" validate:"notblank,min=8,max=255"`
}

type passwordChange struct {
	Password string `json:"password" validate:"notblank,min=8,max=255"`
}

// NewUser checks the username format and the password of a user about to
// be created. Username uniqueness needs the store and is not checked here.
func (e *Engine) NewUser(username, password string) []domain.Violation {
	return e.Struct(newUser{Username: username, Password: password})
}

// Password checks a replacement password.
func (e *Engine) Password(password string) []domain.Violation {
	return e.Struct(passwordChange{Password: password})
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// message converts a single FieldError into a human-readable message.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "this value should not be blank"
	case "min":
		return fmt.Sprintf("this value is too short, it should have %s characters or more", fe.Param())
	case "max":
		return fmt.Sprintf("this value is too long, it should have %s characters or less", fe.Param())
	case "oneof":
		return "the value must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "page":
		return "the page must be a positive integer"
	case "username":
		return "only letters, digits and the characters . - _ are allowed"
	default:
		return fmt.Sprintf("this value is not valid (%s)", fe.Tag())
	}
}
