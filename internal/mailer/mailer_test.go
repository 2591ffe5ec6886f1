package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_SendPasswordReset(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth

	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "noreply@example.com"})
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	link := "http://localhost:3000/reset-password/update?token=abc"
	require.NoError(t, m.SendPasswordReset(context.Background(), "student@example.com", link))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"student@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "To: student@example.com\r\n")
	assert.Contains(t, string(gotMsg), link)
}

func TestSMTPMailer_NoAuthWithoutUsername(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "a@b.c"})
	m.send = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		assert.Nil(t, a)
		return nil
	}
	assert.NoError(t, m.SendPasswordReset(context.Background(), "x@y.z", "link"))
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	assert.Error(t, m.SendPasswordReset(context.Background(), "a@b.c\r\nBcc: evil@x.y", "link"))
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	assert.ErrorContains(t, m.SendPasswordReset(context.Background(), "a@b.c", "link"), "connection refused")
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.SendPasswordReset(context.Background(), "a@b.c", "link"))
}
