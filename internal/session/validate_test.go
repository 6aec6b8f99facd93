package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignup(t *testing.T) {
	ok := SignupForm{Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	require.NoError(t, ValidateSignup(ok))

	cases := map[string]struct {
		mutate func(*SignupForm)
		field  string
	}{
		"missing name":   {func(f *SignupForm) { f.Name = " " }, "name"},
		"missing email":  {func(f *SignupForm) { f.Email = "" }, "email"},
		"invalid email":  {func(f *SignupForm) { f.Email = "not-an-email" }, "email"},
		"short password": {func(f *SignupForm) { f.Password, f.ConfirmPassword = "abc", "abc" }, "password"},
		"mismatch":       {func(f *SignupForm) { f.ConfirmPassword = "secret2" }, "confirm_password"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := ok
			tc.mutate(&f)
			err := ValidateSignup(f)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	require.NoError(t, ValidateLogin("a@b.c", "x"))
	var ve *ValidationError
	require.ErrorAs(t, ValidateLogin("", "x"), &ve)
	assert.Equal(t, "email", ve.Field)
	require.ErrorAs(t, ValidateLogin("a@b.c", ""), &ve)
	assert.Equal(t, "password", ve.Field)
}
