package bridgerpay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid   = errors.New("bridgerpay config invalid")
	ErrRequestFailed   = errors.New("bridgerpay request failed")
	ErrResponseInvalid = errors.New("bridgerpay response invalid")
	ErrAuthFailed      = errors.New("bridgerpay authentication failed")
	ErrSessionFailed   = errors.New("bridgerpay session creation failed")
)

// Config holds the cashier API credentials.
type Config struct {
	APIURL     string `json:"api_url"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	CashierKey string `json:"cashier_key"`
	Theme      string `json:"theme"`
}

// ValidateConfig checks the required fields.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return fmt.Errorf("%w: api_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return fmt.Errorf("%w: password is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.CashierKey) == "" {
		return fmt.Errorf("%w: cashier_key is required", ErrConfigInvalid)
	}
	return nil
}

// normalized returns a trimmed copy. The caller's config is shared
// across concurrent requests and must not be written to.
func (c *Config) normalized() Config {
	out := *c
	out.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	out.Username = strings.TrimSpace(c.Username)
	out.Password = strings.TrimSpace(c.Password)
	out.CashierKey = strings.TrimSpace(c.CashierKey)
	out.Theme = strings.TrimSpace(c.Theme)
	if out.Theme == "" {
		out.Theme = "dark"
	}
	return out
}

// apiEnvelope is the gateway's uniform response wrapper. result is either
// the payload object or an array of {type, message} errors.
type apiEnvelope struct {
	Response struct {
		Status  string `json:"status"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"response"`
	Result json.RawMessage `json:"result"`
}

type apiErrorEntry struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// decodeResult unpacks the result union. When the envelope code is not 200
// or the result is an error array, it returns the joined error messages.
func decodeResult(raw []byte, dest interface{}) error {
	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}

	trimmed := strings.TrimSpace(string(envelope.Result))
	if envelope.Response.Code != 200 || strings.HasPrefix(trimmed, "[") {
		message := envelope.Response.Message
		var entries []apiErrorEntry
		if json.Unmarshal(envelope.Result, &entries) == nil && len(entries) > 0 {
			parts := make([]string, 0, len(entries))
			for _, entry := range entries {
				parts = append(parts, entry.Message)
			}
			message = strings.Join(parts, ", ")
		}
		return fmt.Errorf("%w: %s", ErrResponseInvalid, message)
	}

	if err := json.Unmarshal(envelope.Result, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

// AuthResult is a successful login.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login obtains a merchant access token.
func Login(ctx context.Context, cfg *Config) (*AuthResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	conf := cfg.normalized()

	payload := map[string]string{
		"user_name": conf.Username,
		"password":  conf.Password,
	}
	raw, err := postJSON(ctx, conf.APIURL+"/v2/auth/login", "", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	var result struct {
		AccessToken struct {
			Token     string `json:"token"`
			ExpiresIn int64  `json:"expires_in"`
		} `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeResult(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if result.AccessToken.Token == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}

	return &AuthResult{
		AccessToken:  result.AccessToken.Token,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.AccessToken.ExpiresIn,
	}, nil
}

// SessionInput carries the payer and amount details for a cashier session.
type SessionInput struct {
	OrderID   string
	Currency  string
	Country   string
	Amount    float64
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	ZipCode   string
}

// CreateSession opens a cashier session for an order and returns the
// one-time cashier token the browser widget embeds.
func CreateSession(ctx context.Context, cfg *Config, accessToken string, input SessionInput) (string, error) {
	if err := ValidateConfig(cfg); err != nil {
		return "", err
	}
	conf := cfg.normalized()
	if strings.TrimSpace(accessToken) == "" {
		return "", fmt.Errorf("%w: access token required", ErrSessionFailed)
	}
	if strings.TrimSpace(input.OrderID) == "" {
		return "", fmt.Errorf("%w: order id required", ErrSessionFailed)
	}

	payload := map[string]interface{}{
		"theme":       conf.Theme,
		"cashier_key": conf.CashierKey,
		"order_id":    input.OrderID,
		"currency":    input.Currency,
		"country":     input.Country,
		"amount":      input.Amount,
		"first_name":  input.FirstName,
		"last_name":   input.LastName,
		"phone":       input.Phone,
		"email":       input.Email,
		"address":     input.Address,
		"city":        input.City,
		"state":       input.State,
		"zip_code":    input.ZipCode,
	}
	raw, err := postJSON(ctx, conf.APIURL+"/v2/cashier/session/create/"+input.OrderID, accessToken, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionFailed, err)
	}

	var result struct {
		CashierToken string `json:"cashier_token"`
	}
	if err := decodeResult(raw, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionFailed, err)
	}
	if result.CashierToken == "" {
		return "", fmt.Errorf("%w: empty cashier token", ErrSessionFailed)
	}
	return result.CashierToken, nil
}

func postJSON(ctx context.Context, endpoint, bearer string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
