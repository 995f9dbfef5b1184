// Package authapi is a thin client for the external identity provider:
// sign-in, sign-up, whoami and one-time-password enrollment.
//
// Input is validated locally before any request is made. A non-2xx answer
// becomes a *common.AuthError carrying the provider's detail message; a
// transport failure or timeout wraps common.ErrAuthUnavailable.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const maxBody = 1 << 20

// SignUpConfirmation is shown after a successful sign-up.
const SignUpConfirmation = "Account created! You can sign in now."

type Client struct {
	base string
	http *http.Client
}

// New returns a client for baseURL whose requests give up after timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken string
	TokenType   string
	// Membership is read from the token without verifying it.
	Membership string
}

func (c *Client) SignIn(ctx context.Context, username, password string) (Session, error) {
	if err := ValidateSignIn(username, password); err != nil {
		return Session{}, err
	}

	form := url.Values{"username": {username}, "password": {password}}
	req, err := c.newRequest(ctx, http.MethodPost, "/account/signin", "", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return Session{}, err
	}
	if out.AccessToken == "" {
		return Session{}, fmt.Errorf("%w: sign-in response has no access token", common.ErrInvalidToken)
	}

	membership, err := MembershipClaim(out.AccessToken)
	if err != nil {
		return Session{}, err
	}

	tokenType := out.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	return Session{AccessToken: out.AccessToken, TokenType: tokenType, Membership: membership}, nil
}

// SignUp registers email. confirm must repeat password.
func (c *Client) SignUp(ctx context.Context, email, password, confirm string) (string, error) {
	if err := ValidateSignUp(email, password, confirm); err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/account/signup", "", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req); err != nil {
		return "", err
	}
	return SignUpConfirmation, nil
}

// WhoAmI returns the raw identity claim for accessToken.
func (c *Client) WhoAmI(ctx context.Context, accessToken string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/whoami", accessToken, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// ConfigureOTP starts OTP enrollment and returns the otpauth:// URL.
func (c *Client) ConfigureOTP(ctx context.Context, accessToken string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/otp", accessToken, nil)
	if err != nil {
		return "", err
	}

	var out struct {
		URL string `json:"otpauth_url"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// ConfirmOTP checks a code from the authenticator app.
func (c *Client) ConfirmOTP(ctx context.Context, accessToken, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if err := ValidateOTPCode(code); err != nil {
		return false, err
	}

	body, err := json.Marshal(map[string]string{"otp_code": code})
	if err != nil {
		return false, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/confirm-otp", accessToken, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return false, err
	}
	return parseConfirmation(raw)
}

// parseConfirmation accepts a bare JSON boolean or an object with a
// "valid" or "success" flag.
func parseConfirmation(raw []byte) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, fmt.Errorf("unexpected confirm-otp response: %s", raw)
	}
	for _, k := range []string{"valid", "success"} {
		if v, ok := obj[k].(bool); ok {
			return v, nil
		}
	}
	return false, fmt.Errorf("unexpected confirm-otp response: %s", raw)
}

// MembershipClaim decodes the token payload and returns its membership
// claim without checking the signature.
func MembershipClaim(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	m, _ := claims[common.MembershipClaim].(string)
	return m, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &common.AuthError{Status: resp.StatusCode, Detail: detail(body)}
	}
	return body, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// detail extracts the provider's "detail" field. Structured details (such
// as validation error lists) are returned as compact JSON; a body that is
// not JSON is returned as text.
func detail(body []byte) string {
	var v struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &v); err != nil || len(v.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(v.Detail, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v.Detail); err != nil {
		return string(v.Detail)
	}
	return buf.String()
}
