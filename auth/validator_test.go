package auth

import (
	"testing"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "S3cure!pass"}
}

func TestValidateRegister(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateRegister(validRegister()))

	short := validRegister()
	short.Username = "al"
	req.ErrorIs(ValidateRegister(short), errors.ErrValidation)

	badEmail := validRegister()
	badEmail.Email = "not-an-email"
	req.ErrorIs(ValidateRegister(badEmail), errors.ErrValidation)

	tooShort := validRegister()
	tooShort.Password = "S3c!"
	req.ErrorIs(ValidateRegister(tooShort), errors.ErrValidation)
}

func TestValidateRegister_PasswordComplexity(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"all four classes", "S3cure!pass", true},
		{"no upper", "s3cure!pass", false},
		{"no lower", "S3CURE!PASS", false},
		{"no digit", "Secure!pass", false},
		{"no symbol", "S3curepass", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRegister()
			r.Password = tt.password
			err := ValidateRegister(r)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errors.ErrInvalidPassword)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateLogin(LoginRequest{Email: "alice@example.com", Password: "whatever"}))
	req.ErrorIs(ValidateLogin(LoginRequest{Email: "nope", Password: "whatever"}), errors.ErrValidation)
	req.ErrorIs(ValidateLogin(LoginRequest{Email: "alice@example.com"}), errors.ErrValidation)
}
