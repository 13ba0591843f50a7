package usecase

import (
	"testing"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_Messages(t *testing.T) {
	err := validateStruct(CredentialsRequest{Username: "a!", Password: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Contains(t, err.Error(), "username must be at least 3 characters")
	require.Contains(t, err.Error(), "password must be at least 8 characters")

	err = validateStruct(CredentialsRequest{Username: "bad name", Password: "password123"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Contains(t, err.Error(), "letters, digits and underscores")

	require.NoError(t, validateStruct(CredentialsRequest{Username: "alice_1", Password: "password123"}))
}
