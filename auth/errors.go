package auth

import (
	"net"
	"strings"

	"golang.org/x/xerrors"
	"google.golang.org/api/googleapi"
)

// 認証エラー
var (
	ErrInvalidCredential   = xerrors.New("invalid credential")
	ErrUserNotFound        = xerrors.New("user not found")
	ErrInvalidEmail        = xerrors.New("invalid email")
	ErrEmailAlreadyInUse   = xerrors.New("email already in use")
	ErrWeakPassword        = xerrors.New("weak password")
	ErrTooManyRequests     = xerrors.New("too many requests")
	ErrOperationNotAllowed = xerrors.New("operation not allowed")
	ErrNetwork             = xerrors.New("network request failed")

	// ErrEmailRequired is a client-side validation error raised before calling the provider
	ErrEmailRequired = xerrors.New("email is required")
	// ErrNotSignedIn is returned when an operation needs a signed-in user
	ErrNotSignedIn = xerrors.New("not signed in")
)

// Identity Toolkit のエラーコード
var codeErrors = map[string]error{
	"INVALID_PASSWORD":            ErrInvalidCredential,
	"INVALID_LOGIN_CREDENTIALS":   ErrInvalidCredential,
	"INVALID_ID_TOKEN":            ErrInvalidCredential,
	"EMAIL_NOT_FOUND":             ErrUserNotFound,
	"USER_NOT_FOUND":              ErrUserNotFound,
	"INVALID_EMAIL":               ErrInvalidEmail,
	"MISSING_EMAIL":               ErrInvalidEmail,
	"EMAIL_EXISTS":                ErrEmailAlreadyInUse,
	"WEAK_PASSWORD":               ErrWeakPassword,
	"TOO_MANY_ATTEMPTS_TRY_LATER": ErrTooManyRequests,
	"OPERATION_NOT_ALLOWED":       ErrOperationNotAllowed,
	"PASSWORD_LOGIN_DISABLED":     ErrOperationNotAllowed,
	"CONFIGURATION_NOT_FOUND":     ErrOperationNotAllowed,
}

var messages = []struct {
	err error
	msg string
}{
	{ErrInvalidCredential, "メールアドレスまたはパスワードが違います。"},
	{ErrUserNotFound, "ユーザーが見つかりません。新規登録してください。"},
	{ErrInvalidEmail, "メールアドレスの形式が正しくありません。"},
	{ErrEmailAlreadyInUse, "このメールアドレスは既に登録されています。"},
	{ErrWeakPassword, "パスワードは6文字以上で入力してください。"},
	{ErrTooManyRequests, "リクエストが多すぎます。しばらくしてからお試しください。"},
	{ErrNetwork, "ネットワークエラーが発生しました。"},
	{ErrOperationNotAllowed, "この認証方法は無効です（Firebase Console を確認）。"},
	{ErrEmailRequired, "パスワード再設定用のメールアドレスを入力してください。"},
	{ErrNotSignedIn, "ログインしてください。"},
}

const defaultMessage = "処理に失敗しました。入力内容をご確認ください。"

// classify converts a provider error into one of the sentinel errors, keeping the original as context
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if xerrors.As(err, &apiErr) {
		// "WEAK_PASSWORD : Password should be at least 6 characters" の形式もある
		code := strings.TrimSpace(strings.SplitN(apiErr.Message, ":", 2)[0])
		if sentinel, ok := codeErrors[code]; ok {
			return xerrors.Errorf("%s: %w", apiErr.Message, sentinel)
		}
		return xerrors.Errorf("identity toolkit error: %w", err)
	}

	var netErr net.Error
	if xerrors.As(err, &netErr) {
		return xerrors.Errorf("%v: %w", err, ErrNetwork)
	}

	return err
}

// Message returns the user-facing text for err
func Message(err error) string {
	for _, m := range messages {
		if xerrors.Is(err, m.err) {
			return m.msg
		}
	}
	return defaultMessage
}
