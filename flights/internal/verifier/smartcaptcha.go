// Package verifier checks CAPTCHA proof tokens with the SmartCaptcha
// validation API.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
)

const (
	DefaultVerifyURL = "https://smartcaptcha.api.cloud.yandex.net/v1/captcha:verify"
	DefaultTimeout   = 5 * time.Second
)

var ErrCaptchaFailed = errors.New("captcha_failed")

type SmartCaptcha struct {
	client    *http.Client
	verifyURL string
	secret    string
}

type verifyRequest struct {
	Token  string `json:"token"`
	Secret string `json:"secret"`
}

type verifyResponse struct {
	Success bool `json:"success"`
}

// Verify returns nil when the token passes, ErrCaptchaFailed when the
// service rejects it, and a wrapped error when the service cannot be
// reached.
func (s *SmartCaptcha) Verify(ctx context.Context, token string) error {
	payload, err := json.Marshal(verifyRequest{Token: token, Secret: s.secret})
	if err != nil {
		return pkgerrors.Wrap(err, "marshal captcha verification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(err, "build captcha verification")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(err, "captcha verification")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrCaptchaFailed
	}
	body := verifyResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || !body.Success {
		return ErrCaptchaFailed
	}
	return nil
}

func NewSmartCaptcha(verifyURL string, secret string) *SmartCaptcha {
	return &SmartCaptcha{
		client:    &http.Client{Timeout: DefaultTimeout},
		verifyURL: verifyURL,
		secret:    secret,
	}
}

// Disabled accepts every token. Used when no server secret is configured.
type Disabled struct{}

func (Disabled) Verify(ctx context.Context, token string) error {
	return nil
}
