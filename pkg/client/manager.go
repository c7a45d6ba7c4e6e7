package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/company-portal/pkg/claims"
)

const (
	defaultTimeout = 30 * time.Second
	refreshTimeout = 15 * time.Second
)

// Config configures a Manager.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      TokenStore
	Clock      Clock
	Logger     *zap.Logger
	// OnLogout runs after the session has been cleared.
	OnLogout func()
}

// Manager keeps a portal session alive: it logs in, refreshes the token before
// it expires, retries a rejected call once after refreshing, and logs out when
// the session cannot be recovered.
type Manager struct {
	baseURL  *url.URL
	http     *http.Client
	clock    Clock
	log      *zap.Logger
	state    *State
	group    singleflight.Group
	onLogout func()
}

// LoginResult is the decoded login response.
type LoginResult struct {
	Message   string
	Token     string
	ExpiresIn int64
	Principal json.RawMessage
}

type refreshResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewManager validates cfg and restores any stored session's refresh timer.
func NewManager(cfg Config) (*Manager, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	m := &Manager{
		baseURL:  base,
		http:     cfg.HTTPClient,
		clock:    cfg.Clock,
		log:      cfg.Logger,
		onLogout: cfg.OnLogout,
	}
	if m.http == nil {
		m.http = &http.Client{Timeout: defaultTimeout}
	}
	if m.clock == nil {
		m.clock = RealClock()
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	m.state = NewState(store, m.clock, m.log, m.refreshDue)
	m.state.ScheduleRefresh()
	return m, nil
}

// State exposes the session state.
func (m *Manager) State() *State { return m.state }

// Login authenticates against /api/{role}/login and stores the session.
func (m *Manager) Login(ctx context.Context, role claims.Role, email, password string) (*LoginResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	var body map[string]json.RawMessage
	status, err := m.send(ctx, http.MethodPost, "/api/"+string(role)+"/login", "",
		map[string]string{"email": email, "password": password}, &body)
	if err != nil {
		m.log.Info("login failed", zap.String("role", string(role)), zap.Int("status", status), zap.Error(err))
		return nil, err
	}

	res := &LoginResult{Principal: body[string(role)]}
	if err := decodeField(body, "message", &res.Message); err != nil {
		return nil, err
	}
	if err := decodeField(body, "token", &res.Token); err != nil {
		return nil, err
	}
	if err := decodeField(body, "expiresIn", &res.ExpiresIn); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, errors.New("login response carried no token")
	}

	if err := m.state.SetSession(Session{Token: res.Token, Role: role, Principal: res.Principal}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	m.log.Info("logged in", zap.String("role", string(role)))
	return res, nil
}

// Refresh exchanges the stored token for a new one. Concurrent callers share a
// single request. Any failure logs the session out and returns an error
// wrapping ErrAuthenticationFailed.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	ch := m.group.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return m.refresh(rctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	session, epoch, ok := m.state.Snapshot()
	if !ok || session.Token == "" {
		m.expire(epoch)
		return "", fmt.Errorf("%w: no session", ErrAuthenticationFailed)
	}
	role := session.Role
	if role == "" {
		c, err := claims.Decode(session.Token)
		if err != nil {
			m.expire(epoch)
			return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
		}
		role = c.Role
	}

	var body refreshResponse
	if _, err := m.send(ctx, http.MethodPost, "/api/"+string(role)+"/refresh-token", session.Token, nil, &body); err != nil {
		m.log.Warn("token refresh failed", zap.Error(err))
		m.expire(epoch)
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if body.Token == "" {
		m.expire(epoch)
		return "", fmt.Errorf("%w: refresh response carried no token", ErrAuthenticationFailed)
	}
	applied, err := m.state.SetTokenIfCurrent(body.Token, epoch)
	if err != nil {
		m.log.Warn("failed to store refreshed token", zap.Error(err))
		m.expire(epoch)
		return "", fmt.Errorf("%w: store session: %v", ErrAuthenticationFailed, err)
	}
	if !applied {
		m.log.Debug("refreshed token discarded; session ended during refresh")
		return "", fmt.Errorf("%w: session ended during refresh", ErrAuthenticationFailed)
	}
	m.log.Debug("token refreshed")
	return body.Token, nil
}

// expire logs out the session identified by epoch. A session that was
// replaced by a newer login is left alone.
func (m *Manager) expire(epoch uint64) {
	cleared, err := m.state.ClearIfCurrent(epoch)
	if err != nil {
		m.log.Warn("failed to clear session", zap.Error(err))
	}
	if cleared && m.onLogout != nil {
		m.onLogout()
	}
}

// refreshDue runs from the refresh timer.
func (m *Manager) refreshDue() {
	if _, err := m.Refresh(context.Background()); err != nil {
		m.log.Warn("scheduled refresh failed", zap.Error(err))
	}
}

// Do performs an authenticated call. An expired local token is refreshed
// first; a 401 or 403 response triggers one refresh and one retry. When the
// retry fails too the session is logged out.
func (m *Manager) Do(ctx context.Context, method, path string, body, out any) error {
	if claims.IsExpired(m.state.Token(), m.clock.Now()) {
		if _, err := m.Refresh(ctx); err != nil {
			return err
		}
	}

	_, err := m.send(ctx, method, path, m.state.Token(), body, out)
	var apiErr *APIError
	if err == nil || !errors.As(err, &apiErr) || !apiErr.IsAuthError() {
		return err
	}

	if _, err := m.Refresh(ctx); err != nil {
		return err
	}
	if _, err := m.send(ctx, method, path, m.state.Token(), body, out); err != nil {
		m.log.Warn("retry after refresh failed", zap.String("path", path), zap.Error(err))
		m.Logout()
		return err
	}
	return nil
}

// Logout cancels the pending refresh, clears the stored session and runs the
// OnLogout hook.
func (m *Manager) Logout() {
	if err := m.state.Clear(); err != nil {
		m.log.Warn("failed to clear session", zap.Error(err))
	}
	if m.onLogout != nil {
		m.onLogout()
	}
}

func (m *Manager) send(ctx context.Context, method, path, token string, in, out any) (int, error) {
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL.String()+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.Code = eb.Code
		}
		return resp.StatusCode, apiErr
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func decodeField(body map[string]json.RawMessage, key string, dst any) error {
	raw, ok := body[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
