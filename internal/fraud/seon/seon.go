package seon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
)

// DeclinedReason is the support-facing message returned when a purchase
// is blocked.
const DeclinedReason = "We couldn't process your order. Please contact support."

// Config holds the fraud screening settings.
type Config struct {
	Enabled      bool
	APIKey       string
	APIURL       string
	DeclineScore int
}

// normalized returns a trimmed copy. The caller's config is shared
// across concurrent requests and must not be written to.
func (c *Config) normalized() Config {
	out := *c
	out.APIKey = strings.TrimSpace(c.APIKey)
	out.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if out.APIURL == "" {
		out.APIURL = "https://api.us-east-1-main.seon.io/SeonRestService/fraud-api/v2"
	}
	if out.DeclineScore <= 0 {
		out.DeclineScore = constants.FraudDeclineScore
	}
	return out
}

// Input carries the purchase attempt details to screen.
type Input struct {
	Email      string
	IP         string
	Session    string
	Amount     float64
	Currency   string
	IsLoggedIn bool
}

// Result is the screening verdict. Skipped means the provider was not
// consulted (disabled, unconfigured, or unreachable) and the purchase
// proceeds.
type Result struct {
	Allowed bool    `json:"allowed"`
	Skipped bool    `json:"skipped,omitempty"`
	Score   float64 `json:"score,omitempty"`
	State   string  `json:"state,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Check screens a purchase attempt. Provider outages fail open: the only
// hard denial is an explicit DECLINE state or a score at or above the
// decline threshold.
func Check(ctx context.Context, cfg *Config, input Input) *Result {
	if cfg == nil || !cfg.Enabled {
		return &Result{Allowed: true, Skipped: true}
	}
	conf := cfg.normalized()
	if conf.APIKey == "" {
		logger.Warnw("seon_api_key_missing")
		return &Result{Allowed: true, Skipped: true}
	}

	actionType := "account_register"
	if input.IsLoggedIn {
		actionType = "purchase"
	}
	payload := map[string]interface{}{
		"ip":                   input.IP,
		"email":                input.Email,
		"transaction_type":     "purchase",
		"transaction_amount":   input.Amount,
		"transaction_currency": input.Currency,
		"action_type":          actionType,
		"config": map[string]bool{
			"ip_api":                true,
			"email_api":             true,
			"phone_api":             !input.IsLoggedIn,
			"device_fingerprinting": true,
		},
	}
	if strings.TrimSpace(input.Session) != "" {
		payload["session"] = input.Session
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warnw("seon_payload_marshal_failed", "error", err)
		return &Result{Allowed: true, Skipped: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, conf.APIURL, bytes.NewReader(body))
	if err != nil {
		logger.Warnw("seon_request_build_failed", "error", err)
		return &Result{Allowed: true, Skipped: true}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", conf.APIKey)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Warnw("seon_request_failed", "error", err)
		return &Result{Allowed: true, Skipped: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnw("seon_api_error", "status", resp.StatusCode)
		return &Result{Allowed: true, Skipped: true}
	}

	var decoded struct {
		Data struct {
			FraudScore float64 `json:"fraud_score"`
			State      string  `json:"state"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		logger.Warnw("seon_response_decode_failed", "error", err)
		return &Result{Allowed: true, Skipped: true}
	}

	score := decoded.Data.FraudScore
	state := decoded.Data.State
	if state == "" {
		state = "UNKNOWN"
	}

	if state == constants.FraudStateDecline || score >= float64(conf.DeclineScore) {
		logger.Infow("seon_purchase_declined",
			"state", state,
			"score", fmt.Sprintf("%.1f", score),
		)
		return &Result{
			Allowed: false,
			Score:   score,
			State:   state,
			Reason:  DeclinedReason,
		}
	}

	return &Result{Allowed: true, Score: score, State: state}
}
