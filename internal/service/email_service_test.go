package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/Innovatio-dev/tof-checkout/internal/config"
	"github.com/Innovatio-dev/tof-checkout/internal/models"
)

func TestSendOrderStatusEmailGuards(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendOrderStatusEmail("buyer@example.com", OrderStatusEmailInput{OrderID: 1}); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("disabled: err = %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := unconfigured.SendOrderStatusEmail("buyer@example.com", OrderStatusEmailInput{OrderID: 1}); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("unconfigured: err = %v", err)
	}

	svc := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})
	if err := svc.SendOrderStatusEmail("not-an-address", OrderStatusEmailInput{OrderID: 1}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad recipient: err = %v", err)
	}
}

func TestBuildOrderStatusContent(t *testing.T) {
	subject, body := buildOrderStatusContent(OrderStatusEmailInput{
		OrderID:     9001,
		Status:      "completed",
		Total:       models.NewMoneyFromFloat(679),
		Currency:    "USD",
		AccountType: "Instant SIM Funded",
		AccountSize: "$50,000",
	})
	if subject != "Order #9001 confirmed" {
		t.Fatalf("subject = %q", subject)
	}
	for _, want := range []string{
		"your order is complete",
		"Order number: 9001",
		"Account type: Instant SIM Funded",
		"Account size: $50,000",
		"Total: 679.00 USD",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}

	subject, body = buildOrderStatusContent(OrderStatusEmailInput{OrderID: 7, Status: "failed"})
	if subject != "Order #7 payment failed" {
		t.Fatalf("subject = %q", subject)
	}
	if strings.Contains(body, "Total:") {
		t.Fatalf("zero total should be omitted:\n%s", body)
	}

	subject, _ = buildOrderStatusContent(OrderStatusEmailInput{OrderID: 8, Status: "refunded"})
	if subject != "Order #8 update" {
		t.Fatalf("fallback subject = %q", subject)
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("noreply@example.com", ""); got != "noreply@example.com" {
		t.Fatalf("bare address = %q", got)
	}
	got := buildFromAddress("noreply@example.com", "TOF Checkout")
	if !strings.Contains(got, "noreply@example.com") || !strings.Contains(got, "TOF Checkout") {
		t.Fatalf("named address = %q", got)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	msg := buildEmailMessage("noreply@example.com", "buyer@example.com", "Order #1 confirmed", "body text")
	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: buyer@example.com\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nbody text",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	if err := normalizeEmailSendError(nil); err != nil {
		t.Fatalf("nil passthrough: %v", err)
	}
	rejected := errors.New("550 5.1.1 Recipient address rejected: undeliverable")
	if err := normalizeEmailSendError(rejected); !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("rejection not normalized: %v", err)
	}
	network := errors.New("dial tcp: connection refused")
	if err := normalizeEmailSendError(network); !errors.Is(err, network) {
		t.Fatalf("unrelated error rewritten: %v", err)
	}
}
