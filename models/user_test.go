package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techagentng/awaz/models"
)

func TestValidateStruct_LowercasesEmails(t *testing.T) {
	login := &models.LoginRequest{Email: " Sita@Awaz.Test ", Password: "secret123"}
	assert.Empty(t, models.ValidateStruct(login))
	assert.Equal(t, "sita@awaz.test", login.Email)

	forgot := &models.ForgotPassword{Email: "RAM@Awaz.Test"}
	assert.Empty(t, models.ValidateStruct(forgot))
	assert.Equal(t, "ram@awaz.test", forgot.Email)

	register := &models.RegisterRequest{
		FirstName:       "sita",
		LastName:        "sharma",
		Email:           "Sita@Awaz.Test",
		Telephone:       "9800000000",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
	assert.Empty(t, models.ValidateStruct(register))
	assert.Equal(t, "sita@awaz.test", register.Email)
	assert.Equal(t, "Sita", register.FirstName)
}
