package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistrationError(t *testing.T) {
	err := &RegistrationError{Module: "users", Message: "not found"}

	require.Equal(t, `register module "users": not found`, err.Error())
	require.True(t, err.IsValuSDKError())
}

func TestInvocationError(t *testing.T) {
	err := &InvocationError{Module: "users", Function: "get", Message: "permission denied"}

	require.Equal(t, "invoke users.get: permission denied", err.Error())
	require.True(t, err.IsValuSDKError())

	var target *InvocationError

	require.ErrorAs(t, error(err), &target)
	require.Equal(t, "permission denied", target.Message)
}

func TestIntentError(t *testing.T) {
	err := &IntentError{ApplicationID: "contacts", Action: "open", Message: "no such app"}

	require.Equal(t, "intent contacts/open: no such app", err.Error())
	require.True(t, err.IsValuSDKError())
}

func TestFrameDecodeError(t *testing.T) {
	root := errors.New("unexpected token")
	err := &FrameDecodeError{
		RawData: `{"target":"valuApi",`,
		Err:     root,
	}

	require.Equal(t, "failed to decode frame: unexpected token", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsValuSDKError())
}
