package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type createEmployee struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,min=2"`
	Salary    string `json:"salary" validate:"omitempty,decimal"`
}

type createCompany struct {
	Slug    string `json:"slug" validate:"required,slug"`
	Feature string `json:"feature_key" validate:"omitempty,feature_key"`
}

func TestValidate_FieldMessages(t *testing.T) {
	t.Parallel()

	err := NewValidator().Validate(createEmployee{Email: "nope", Salary: "-3"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "email must be a valid email address", verr.Fields["email"])
	require.Equal(t, "first_name is required", verr.Fields["first_name"])
	require.Contains(t, verr.Fields["salary"], "non-negative")
	require.Contains(t, err.Error(), "; ")
}

func TestValidate_Decimal(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	for _, ok := range []string{"0", "1200", "1200.5", "99999.99"} {
		require.NoError(t, v.Validate(createEmployee{Email: "a@b.co", FirstName: "Ana", Salary: ok}), ok)
	}
	for _, bad := range []string{"abc", "12.345", "-1"} {
		require.Error(t, v.Validate(createEmployee{Email: "a@b.co", FirstName: "Ana", Salary: bad}), bad)
	}
}

func TestValidate_SlugAndFeature(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	require.NoError(t, v.Validate(createCompany{Slug: "acme-corp", Feature: "salary_view"}))
	require.Error(t, v.Validate(createCompany{Slug: "Acme Corp"}))
	require.Error(t, v.Validate(createCompany{Slug: "acme", Feature: "Salary-View"}))
}
