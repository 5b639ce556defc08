package domain

import (
	"net/mail"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxCustomerName    = 24
	maxCustomerPhone   = 10
	maxCustomerAddress = 32
	maxCustomerEmail   = 254
	maxDishName        = 24
	maxUsername        = 150
	minPasswordLength  = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	maxDishPrice    = decimal.RequireFromString("999.99")
)

// ValidationError collects messages per form field.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge appends every message of other.
func (e *ValidationError) Merge(other *ValidationError) {
	for field, messages := range other.Fields {
		e.Fields[field] = append(e.Fields[field], messages...)
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// For returns the messages recorded for field; used by templates.
func (e *ValidationError) For(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil keeps callers from returning a typed nil inside an error interface.
func (e *ValidationError) orNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func requireText(verr *ValidationError, field, value string, max int) {
	switch {
	case strings.TrimSpace(value) == "":
		verr.Add(field, "This field is required.")
	case utf8.RuneCountInString(value) > max:
		verr.Add(field, "Ensure this value has at most "+strconv.Itoa(max)+" characters.")
	}
}

func (c Contact) Validate() error {
	verr := NewValidationError()
	requireText(verr, "customer_name", c.Name, maxCustomerName)
	requireText(verr, "customer_phone", c.Phone, maxCustomerPhone)
	requireText(verr, "customer_address", c.Address, maxCustomerAddress)
	requireText(verr, "customer_email", c.Email, maxCustomerEmail)
	if _, bad := verr.Fields["customer_email"]; !bad {
		addr, err := mail.ParseAddress(c.Email)
		if err != nil || addr.Address != c.Email {
			verr.Add("customer_email", "Enter a valid email address.")
		}
	}
	return verr.orNil()
}

// Normalize trims surrounding whitespace from every contact field.
func (c Contact) Normalize() Contact {
	return Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

func (d Dish) Validate() error {
	verr := NewValidationError()
	requireText(verr, "name", d.Name, maxDishName)
	if d.NetPrice.IsNegative() {
		verr.Add("net_price", "Ensure this value is greater than or equal to 0.")
	} else if d.NetPrice.GreaterThan(maxDishPrice) {
		verr.Add("net_price", "Ensure that there are no more than 5 digits in total.")
	}
	return verr.orNil()
}

type Registration struct {
	Username  string
	Password1 string
	Password2 string
}

func (r Registration) Validate() error {
	verr := NewValidationError()
	switch {
	case r.Username == "":
		verr.Add("username", "This field is required.")
	case utf8.RuneCountInString(r.Username) > maxUsername:
		verr.Add("username", "Ensure this value has at most "+strconv.Itoa(maxUsername)+" characters.")
	case !usernamePattern.MatchString(r.Username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if r.Password1 == "" {
		verr.Add("password1", "This field is required.")
	}
	if r.Password2 == "" {
		verr.Add("password2", "This field is required.")
	}
	if r.Password1 != "" && r.Password2 != "" {
		if r.Password1 != r.Password2 {
			verr.Add("password2", "The two password fields didn't match.")
		} else {
			if utf8.RuneCountInString(r.Password1) < minPasswordLength {
				verr.Add("password2", "This password is too short. It must contain at least "+strconv.Itoa(minPasswordLength)+" characters.")
			}
			if isNumeric(r.Password1) {
				verr.Add("password2", "This password is entirely numeric.")
			}
		}
	}
	return verr.orNil()
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
