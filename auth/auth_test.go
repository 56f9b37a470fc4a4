package auth

import (
	"context"
	"net"
	"testing"

	"golang.org/x/xerrors"
	"google.golang.org/api/googleapi"
)

type fakeProvider struct {
	err        error
	resetCalls int
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &User{UID: "uid-1", Email: email}, nil
}

func (f *fakeProvider) SignIn(_ context.Context, email, _ string) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &User{UID: "uid-1", Email: email}, nil
}

func (f *fakeProvider) SendPasswordReset(context.Context, string) error {
	f.resetCalls++
	return f.err
}

func apiError(msg string) error {
	return &googleapi.Error{Code: 400, Message: msg}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
		msg  string
	}{
		{"InvalidPassword", apiError("INVALID_PASSWORD"), ErrInvalidCredential, "メールアドレスまたはパスワードが違います。"},
		{"InvalidLogin", apiError("INVALID_LOGIN_CREDENTIALS"), ErrInvalidCredential, "メールアドレスまたはパスワードが違います。"},
		{"NotFound", apiError("EMAIL_NOT_FOUND"), ErrUserNotFound, "ユーザーが見つかりません。新規登録してください。"},
		{"InvalidEmail", apiError("INVALID_EMAIL"), ErrInvalidEmail, "メールアドレスの形式が正しくありません。"},
		{"Duplicate", apiError("EMAIL_EXISTS"), ErrEmailAlreadyInUse, "このメールアドレスは既に登録されています。"},
		{"Weak", apiError("WEAK_PASSWORD : Password should be at least 6 characters"), ErrWeakPassword, "パスワードは6文字以上で入力してください。"},
		{"RateLimited", apiError("TOO_MANY_ATTEMPTS_TRY_LATER"), ErrTooManyRequests, "リクエストが多すぎます。しばらくしてからお試しください。"},
		{"NotAllowed", apiError("OPERATION_NOT_ALLOWED"), ErrOperationNotAllowed, "この認証方法は無効です（Firebase Console を確認）。"},
		{"Network", &net.DNSError{Err: "no such host", IsTimeout: true}, ErrNetwork, "ネットワークエラーが発生しました。"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(tr *testing.T) {
			err := classify(c.err)
			if !xerrors.Is(err, c.want) {
				tr.Fatalf("unexpected error: %+v (expected: %v)", err, c.want)
			}
			if got := Message(xerrors.Errorf("failed to sign in: %w", err)); got != c.msg {
				tr.Fatalf("unexpected message: %s (expected: %s)", got, c.msg)
			}
		})
	}

	if got := Message(apiError("SOMETHING_ELSE")); got != defaultMessage {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestSessionSignIn(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	s := NewSession(p, nil)

	var changes []*User
	s.OnChange(func(u *User) {
		changes = append(changes, u)
	})

	u, err := s.SignIn(ctx, " golfer@example.com ", "secret")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if u.Email != "golfer@example.com" {
		t.Fatalf("email must be trimmed: %q", u.Email)
	}
	if cur := s.CurrentUser(); cur == nil || cur.UID != "uid-1" {
		t.Fatalf("unexpected current user: %+v", cur)
	}

	s.SignOut()
	if s.CurrentUser() != nil {
		t.Fatal("session must be cleared")
	}

	if len(changes) != 2 || changes[0] == nil || changes[1] != nil {
		t.Fatalf("unexpected changes: %v", changes)
	}
}

func TestSessionSignInFailure(t *testing.T) {
	p := &fakeProvider{err: apiError("INVALID_PASSWORD")}
	s := NewSession(p, nil)

	_, err := s.SignIn(context.Background(), "golfer@example.com", "wrong")
	if !xerrors.Is(err, ErrInvalidCredential) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if s.CurrentUser() != nil {
		t.Fatal("failed sign in must not set a user")
	}
}

func TestSessionSignUpDuplicate(t *testing.T) {
	p := &fakeProvider{err: apiError("EMAIL_EXISTS")}
	s := NewSession(p, nil)

	if _, err := s.SignUp(context.Background(), "golfer@example.com", "secret"); !xerrors.Is(err, ErrEmailAlreadyInUse) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestSendPasswordReset(t *testing.T) {
	ctx := context.Background()
	p := &fakeProvider{}
	s := NewSession(p, nil)

	if err := s.SendPasswordReset(ctx, "  "); !xerrors.Is(err, ErrEmailRequired) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if p.resetCalls != 0 {
		t.Fatal("provider must not be called for an empty email")
	}
	if got := Message(ErrEmailRequired); got != "パスワード再設定用のメールアドレスを入力してください。" {
		t.Fatalf("unexpected message: %s", got)
	}

	if err := s.SendPasswordReset(ctx, "golfer@example.com"); err != nil {
		t.Fatalf("%+v", err)
	}
	if p.resetCalls != 1 {
		t.Fatalf("unexpected calls: %d", p.resetCalls)
	}
}
