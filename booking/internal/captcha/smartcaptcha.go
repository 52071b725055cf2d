package captcha

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sync"

	"github.com/pkg/errors"
)

const DefaultScriptURL = "https://smartcaptcha.yandexcloud.net/captcha.js"

// SmartCaptcha is the terminal rendition of the SmartCaptcha widget. A
// terminal cannot run the widget script, so Load only confirms the script
// is served, and the proof token obtained on the challenge page is handed
// in through SetToken.
type SmartCaptcha struct {
	client    *http.Client
	scriptURL string
	pageURL   string

	mu      sync.Mutex
	loaded  bool
	siteKey string
	mounted string
	visible bool
	token   string
	renders int
}

func (s *SmartCaptcha) Load(ctx context.Context, done func(error)) {
	go func() {
		err := s.fetchScript(ctx)
		if err == nil {
			s.mu.Lock()
			s.loaded = true
			s.mu.Unlock()
		}
		done(err)
	}()
}

func (s *SmartCaptcha) fetchScript(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.scriptURL, nil)
	if err != nil {
		return errors.Wrap(err, "captcha script")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "captcha script")
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("captcha script: status %d", resp.StatusCode)
	}
	return nil
}

func (s *SmartCaptcha) Render(siteKey string, mountPoint string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return
	}
	if s.mounted == mountPoint && s.siteKey == siteKey && s.visible == visible {
		return
	}
	s.siteKey = siteKey
	s.mounted = mountPoint
	s.visible = visible
	s.token = ""
	s.renders++
}

func (s *SmartCaptcha) GetResponse() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted == "" {
		return ""
	}
	return s.token
}

// SetToken records the proof token for the rendered challenge. Tokens
// offered before the widget is rendered are ignored.
func (s *SmartCaptcha) SetToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted == "" {
		return false
	}
	s.token = token
	return true
}

// Rendered reports the mount point the widget occupies, or "".
func (s *SmartCaptcha) Rendered() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// ChallengeURL is where the user solves the challenge, empty when no
// challenge page is configured or nothing is rendered.
func (s *SmartCaptcha) ChallengeURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pageURL == "" || s.mounted == "" {
		return ""
	}
	u, err := url.Parse(s.pageURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("sitekey", s.siteKey)
	u.RawQuery = q.Encode()
	return u.String()
}

func NewSmartCaptcha(client *http.Client, scriptURL string, pageURL string) *SmartCaptcha {
	if client == nil {
		client = http.DefaultClient
	}
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}
	return &SmartCaptcha{
		client:    client,
		scriptURL: scriptURL,
		pageURL:   pageURL,
	}
}
