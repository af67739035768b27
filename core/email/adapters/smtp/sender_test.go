package smtp

import (
	"context"
	"errors"
	"testing"
	"time"

	"photogram/core/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type captureClient struct {
	msgs []*mail.Msg
	err  error
}

func (c *captureClient) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, messages...)
	return nil
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	client := &captureClient{}
	s := newSender(Config{From: "no-reply@photogram.local"}, client)

	err := s.Send(context.Background(), domain.Message{
		To:      "alice@example.com",
		Subject: "Confirm your email",
		Body:    "hello",
	})
	require.NoError(t, err)
	require.Len(t, client.msgs, 1)

	msg := client.msgs[0]
	assert.Equal(t, []string{"Confirm your email"}, msg.GetGenHeader(mail.HeaderSubject))
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "alice@example.com")
}

func TestSender_RejectsBadAddress(t *testing.T) {
	t.Parallel()

	client := &captureClient{}
	s := newSender(Config{From: "no-reply@photogram.local"}, client)

	require.Error(t, s.Send(context.Background(), domain.Message{To: "not an address"}))
	require.ErrorIs(t, s.Send(context.Background(), domain.Message{}), domain.ErrInvalidData)
	assert.Empty(t, client.msgs)
}

func TestSender_WrapsTransportError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	s := newSender(Config{From: "no-reply@photogram.local"}, &captureClient{err: boom})

	err := s.Send(context.Background(), domain.Message{To: "bob@example.com"})
	require.ErrorIs(t, err, boom)
}

func TestSender_ThrottleHonoursContext(t *testing.T) {
	t.Parallel()

	client := &captureClient{}
	s := newSender(Config{From: "no-reply@photogram.local", RatePerSecond: 0.001, Burst: 1}, client)

	require.NoError(t, s.Send(context.Background(), domain.Message{To: "a@example.com"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, s.Send(ctx, domain.Message{To: "b@example.com"}))
	assert.Len(t, client.msgs, 1)
}

func TestTLSPolicy(t *testing.T) {
	t.Parallel()

	p, err := tlsPolicy("mandatory")
	require.NoError(t, err)
	assert.Equal(t, mail.TLSMandatory, p)

	_, err = tlsPolicy("sometimes")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
