package main

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/go-generalize/golf-score-memo/auth"
	"github.com/go-generalize/golf-score-memo/config"
	"github.com/go-generalize/golf-score-memo/repository"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"
	"google.golang.org/api/option"
)

// app is the signed-in user's Firestore scope
type app struct {
	client  *firestore.Client
	session *auth.Session
	user    *auth.User
	rounds  *repository.RoundRepository
}

func (a *app) Close() {
	if err := a.client.Close(); err != nil {
		logger.Warn("failed to close firestore client", zap.Error(err))
	}
}

func newSession(ctx context.Context, c *config.Config) (*auth.Session, error) {
	provider, err := auth.NewIdentityToolkit(ctx, c.Firebase.APIKey)
	if err != nil {
		return nil, err
	}
	return auth.NewSession(provider, logger), nil
}

func signIn(ctx context.Context, c *config.Config) (*auth.Session, *auth.User, error) {
	if uid != "" {
		if c.Firebase.EmulatorHost == "" {
			return nil, nil, xerrors.New("--uid can only be used with the Firestore emulator")
		}
		user := &auth.User{UID: uid, Email: c.Auth.Email}
		session := auth.NewSession(nil, logger)
		session.Restore(user)
		return session, user, nil
	}

	if c.Auth.Email == "" {
		return nil, nil, auth.ErrEmailRequired
	}
	if c.Auth.Password == "" {
		return nil, nil, xerrors.Errorf("set %s to sign in as %s", config.EnvPassword, c.Auth.Email)
	}

	session, err := newSession(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	user, err := session.SignIn(ctx, c.Auth.Email, c.Auth.Password)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// userTokenSource authorizes Firestore requests as the signed-in user
func userTokenSource(user *auth.User) (oauth2.TokenSource, error) {
	if user == nil || user.IDToken == "" {
		return nil, xerrors.Errorf("no id token for the signed-in user: %w", auth.ErrNotSignedIn)
	}
	// TODO: refresh through securetoken.googleapis.com once the id token expires after an hour
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: user.IDToken,
		TokenType:   "Bearer",
	}), nil
}

// firestoreOptions picks the credentials: the emulator needs none, a service account file
// is used as is, and otherwise requests carry the user's id token.
func firestoreOptions(c *config.Config, user *auth.User) ([]option.ClientOption, error) {
	switch {
	case c.Firebase.EmulatorHost != "":
		// firestore.NewClient switches to the emulator through this variable
		if err := os.Setenv(config.EnvEmulatorHost, c.Firebase.EmulatorHost); err != nil {
			return nil, xerrors.Errorf("failed to set emulator host: %w", err)
		}
		return nil, nil
	case c.Firebase.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.Firebase.CredentialsFile)}, nil
	}

	ts, err := userTokenSource(user)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

func newFirestore(ctx context.Context, c *config.Config, user *auth.User) (*firestore.Client, error) {
	if c.Firebase.ProjectID == "" {
		return nil, xerrors.Errorf("firebase project id is not configured (set %s)", config.EnvProjectID)
	}

	opts, err := firestoreOptions(c, user)
	if err != nil {
		return nil, err
	}

	client, err := firestore.NewClient(ctx, c.Firebase.ProjectID, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to initialize firestore client: %w", err)
	}
	return client, nil
}

func openApp(ctx context.Context, c *config.Config) (*app, error) {
	session, user, err := signIn(ctx, c)
	if err != nil {
		return nil, xerrors.Errorf("failed to sign in: %w", err)
	}

	client, err := newFirestore(ctx, c, user)
	if err != nil {
		return nil, err
	}

	logger.Info("signed in", zap.String("uid", user.UID), zap.String("email", user.Email))

	return &app{
		client:  client,
		session: session,
		user:    user,
		rounds:  repository.NewRoundRepository(client, user.UID, logger),
	}, nil
}
