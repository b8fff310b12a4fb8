package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

func nopLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func TestSendPostsMessage(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Fatalf("unexpected authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := &Client{
		httpClient: srv.Client(),
		apiURL:     srv.URL,
		apiKey:     "secret",
		from:       "shop@example.com",
		logger:     nopLogger(),
	}

	err := c.Send(context.Background(), Message{
		To:      "buyer@example.com",
		Subject: "Ваше замовлення прийнято",
		HTML:    "<p>Дякуємо!</p>",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if got.From != "shop@example.com" || got.To != "buyer@example.com" {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if got.HTML == "" {
		t.Fatal("html body not forwarded")
	}
}

func TestSendMapsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{
		httpClient: srv.Client(),
		apiURL:     srv.URL,
		from:       "shop@example.com",
		logger:     nopLogger(),
	}

	err := c.Send(context.Background(), Message{To: "buyer@example.com", Subject: "subject"})
	if err == nil {
		t.Fatal("expected error for provider failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSendValidatesMessage(t *testing.T) {
	c := &Client{logger: nopLogger()}
	if err := c.Send(context.Background(), Message{Subject: "subject"}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if err := c.Send(context.Background(), Message{To: "buyer@example.com"}); err == nil {
		t.Fatal("expected error for missing subject")
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	cfg := config.MailConfig{FromAddress: "shop@example.com"}
	if _, err := NewClient(context.Background(), cfg, nopLogger()); err == nil {
		t.Fatal("expected error for missing api url")
	}
	cfg.APIURL = "https://mail.example.test/send"
	cfg.FromAddress = ""
	if _, err := NewClient(context.Background(), cfg, nopLogger()); err == nil {
		t.Fatal("expected error for missing from address")
	}
}
