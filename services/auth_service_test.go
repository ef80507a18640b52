package services

import (
	"errors"
	"testing"
	"time"

	"trainsurvey/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmailSender struct {
	sentTo   []string
	tokens   []string
	codes    []string
	failWith error
}

func (s *stubEmailSender) SendVerificationEmail(email, verificationType, token, code string) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.sentTo = append(s.sentTo, email)
	s.tokens = append(s.tokens, token)
	s.codes = append(s.codes, code)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *stubEmailSender) {
	t.Helper()
	db := newTestDB(t)
	sender := &stubEmailSender{}
	return NewAuthService(db, "test-secret", sender), sender
}

func TestSendVerificationPersistsAndSends(t *testing.T) {
	svc, sender := newAuthFixture(t)

	err := svc.SendVerification(&SendVerificationRequest{
		Email:            "Researcher@Example.com",
		VerificationType: "both",
	})
	require.NoError(t, err)

	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "researcher@example.com", sender.sentTo[0])
	assert.Len(t, sender.codes[0], 6)
	assert.NotEmpty(t, sender.tokens[0])

	var verification models.EmailVerification
	require.NoError(t, svc.db.First(&verification).Error)
	assert.Equal(t, "researcher@example.com", verification.Email)
	assert.NotEqual(t, sender.codes[0], verification.CodeHash, "code is stored hashed")
}

func TestSendVerificationEmailFailureKeepsRecord(t *testing.T) {
	svc, sender := newAuthFixture(t)
	sender.failWith = errors.New("smtp down")

	err := svc.SendVerification(&SendVerificationRequest{
		Email:            "researcher@example.com",
		VerificationType: "token",
	})
	require.Error(t, err)

	// Known inconsistency: the record survives the failed send.
	var count int64
	require.NoError(t, svc.db.Model(&models.EmailVerification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerifyCodeCreatesUserOnFirstSight(t *testing.T) {
	svc, sender := newAuthFixture(t)

	require.NoError(t, svc.SendVerification(&SendVerificationRequest{
		Email:            "new@example.com",
		VerificationType: "token",
	}))

	user, token, err := svc.VerifyCode(&VerifyTokenRequest{
		Email: "new@example.com",
		Code:  sender.codes[0],
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)

	// Second sign-in reuses the same user record.
	require.NoError(t, svc.SendVerification(&SendVerificationRequest{
		Email:            "new@example.com",
		VerificationType: "token",
	}))
	again, _, err := svc.VerifyCode(&VerifyTokenRequest{
		Email: "new@example.com",
		Code:  sender.codes[1],
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	svc, _ := newAuthFixture(t)

	require.NoError(t, svc.SendVerification(&SendVerificationRequest{
		Email:            "new@example.com",
		VerificationType: "token",
	}))

	_, _, err := svc.VerifyCode(&VerifyTokenRequest{Email: "new@example.com", Code: "000000"})
	require.Error(t, err)
	assert.IsType(t, &AuthenticationError{}, err)
}

func TestVerifyCodeExpired(t *testing.T) {
	svc, sender := newAuthFixture(t)

	base := time.Now()
	svc.now = func() time.Time { return base }
	require.NoError(t, svc.SendVerification(&SendVerificationRequest{
		Email:            "new@example.com",
		VerificationType: "token",
	}))

	svc.now = func() time.Time { return base.Add(31 * time.Minute) }
	_, _, err := svc.VerifyCode(&VerifyTokenRequest{
		Email: "new@example.com",
		Code:  sender.codes[0],
	})
	require.Error(t, err)
	assert.IsType(t, &AuthenticationError{}, err)
}

func TestVerifyLinkConsumesToken(t *testing.T) {
	svc, sender := newAuthFixture(t)

	require.NoError(t, svc.SendVerification(&SendVerificationRequest{
		Email:            "link@example.com",
		VerificationType: "magic_link",
	}))

	user, _, err := svc.VerifyLink(sender.tokens[0])
	require.NoError(t, err)
	assert.Equal(t, "link@example.com", user.Email)

	// The token is single-use.
	_, _, err = svc.VerifyLink(sender.tokens[0])
	require.Error(t, err)
	assert.IsType(t, &AuthenticationError{}, err)
}

func TestVerifyLinkUnknownToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.VerifyLink("no-such-token")
	require.Error(t, err)
	assert.IsType(t, &AuthenticationError{}, err)

	_, _, err = svc.VerifyLink("")
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}
