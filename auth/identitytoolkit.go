package auth

import (
	"context"

	"golang.org/x/xerrors"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

const passwordResetRequest = "PASSWORD_RESET"

// IdentityToolkit is a Provider backed by the Firebase Authentication REST API
type IdentityToolkit struct {
	service *identitytoolkit.Service
}

// NewIdentityToolkit returns a provider for the project the API key belongs to
func NewIdentityToolkit(ctx context.Context, apiKey string, opts ...option.ClientOption) (*IdentityToolkit, error) {
	if apiKey == "" {
		return nil, xerrors.Errorf("api key is required: %w", ErrOperationNotAllowed)
	}

	svc, err := identitytoolkit.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, xerrors.Errorf("failed to initialize identity toolkit: %w", err)
	}

	return &IdentityToolkit{service: svc}, nil
}

// SignUp creates an email/password account
func (it *IdentityToolkit) SignUp(ctx context.Context, email, password string) (*User, error) {
	resp, err := it.service.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &User{
		UID:     resp.LocalId,
		Email:   resp.Email,
		IDToken: resp.IdToken,
	}, nil
}

// SignIn verifies an email/password pair
func (it *IdentityToolkit) SignIn(ctx context.Context, email, password string) (*User, error) {
	resp, err := it.service.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &User{
		UID:     resp.LocalId,
		Email:   resp.Email,
		IDToken: resp.IdToken,
	}, nil
}

// SendPasswordReset asks the backend to mail a password reset link
func (it *IdentityToolkit) SendPasswordReset(ctx context.Context, email string) error {
	_, err := it.service.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		Email:       email,
		RequestType: passwordResetRequest,
	}).Context(ctx).Do()

	return err
}
