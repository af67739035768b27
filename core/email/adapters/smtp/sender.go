// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package smtp

import (
	"context"
	"errors"
	"fmt"

	"photogram/core/email/domain"

	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

var _ domain.Sender = (*Sender)(nil)

var ErrInvalidConfig = errors.New("smtp: invalid configuration")

type (
	// deliverer is the part of *mail.Client the sender needs.
	deliverer interface {
		DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
	}

	// Sender delivers messages over SMTP. Sends are throttled so a burst of
	// sign-ups cannot exceed the relay's accepted rate.
	Sender struct {
		from    string
		client  deliverer
		limiter *rate.Limiter
	}
)

func NewSender(cfg Config) (*Sender, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("%w: host and from are required", ErrInvalidConfig)
	}

	policy, err := tlsPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(policy),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: new client: %w", err)
	}

	return newSender(cfg, client), nil
}

func newSender(cfg Config, client deliverer) *Sender {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := max(cfg.Burst, 1)

	return &Sender{
		from:    cfg.From,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (s *Sender) Send(ctx context.Context, m domain.Message) error {
	if m.To == "" {
		return fmt.Errorf("smtp: %w: empty recipient", domain.ErrInvalidData)
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("smtp: from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("smtp: to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", m.To, err)
	}
	return nil
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch name {
	case "", "opportunistic":
		return mail.TLSOpportunistic, nil
	case "mandatory":
		return mail.TLSMandatory, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, fmt.Errorf("%w: unknown tls policy %q", ErrInvalidConfig, name)
	}
}
