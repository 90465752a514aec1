package sms

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTwilioSend(t *testing.T) {

	t.Run("DeliversFormEncodedWithBasicAuth", func(t *testing.T) {

		// Arrange
		var gotPath, gotAuth, gotTo, gotFrom, gotBody string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			gotTo = r.PostFormValue("To")
			gotFrom = r.PostFormValue("From")
			gotBody = r.PostFormValue("Body")

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SM0123456789abcdef"}`))
		}))
		defer srv.Close()

		channel, err := NewTwilio(TwilioOptions{
			AccountSID: "AC0000",
			AuthToken:  "secret",
			From:       "+15005550100",
			BaseURL:    srv.URL,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Act
		result, err := channel.Send(context.Background(), "+15005550006", "Your code is 123456")

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success || result.DeliveryID != "SM0123456789abcdef" {
			t.Fatalf("unexpected result: %+v", result)
		}
		if gotPath != "/2010-04-01/Accounts/AC0000/Messages.json" {
			t.Fatalf("unexpected path %q", gotPath)
		}
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("AC0000:secret"))
		if gotAuth != wantAuth {
			t.Fatalf("unexpected auth header %q", gotAuth)
		}
		if gotTo != "+15005550006" || gotFrom != "+15005550100" || gotBody != "Your code is 123456" {
			t.Fatalf("unexpected form values: to=%q from=%q body=%q", gotTo, gotFrom, gotBody)
		}
	})

	t.Run("ProviderRejectionCarriesMessage", func(t *testing.T) {

		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
		}))
		defer srv.Close()

		channel, err := NewTwilio(TwilioOptions{AccountSID: "AC0000", AuthToken: "secret", BaseURL: srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Act
		result, err := channel.Send(context.Background(), "+15005550006", "hello")

		// Assert
		if err != nil {
			t.Fatalf("expected rejection in result, got error: %v", err)
		}
		if result.Success {
			t.Fatalf("expected failed result")
		}
		if result.Message != "The 'To' number is not a valid phone number." {
			t.Fatalf("unexpected message %q", result.Message)
		}
	})

	t.Run("TransportFailureIsRetriedThenReported", func(t *testing.T) {

		// Arrange
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 2 {
				// drop the connection to force a transport error
				hj, ok := w.(http.Hijacker)
				if !ok {
					t.Errorf("server does not support hijacking")
					return
				}
				conn, _, _ := hj.Hijack()
				conn.Close()
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SMretry"}`))
		}))
		defer srv.Close()

		channel, err := NewTwilio(TwilioOptions{AccountSID: "AC0000", AuthToken: "secret", BaseURL: srv.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Act
		result, err := channel.Send(context.Background(), "+15005550006", "hello")

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success || result.DeliveryID != "SMretry" {
			t.Fatalf("expected retried success, got %+v (attempts=%d)", result, attempts)
		}
	})

	t.Run("MissingCredentialsRejected", func(t *testing.T) {
		if _, err := NewTwilio(TwilioOptions{}); err == nil {
			t.Fatalf("expected an error for missing credentials")
		}
	})
}

func TestSimulatedSend(t *testing.T) {

	t.Run("AlwaysSucceedsWithDeliveryID", func(t *testing.T) {
		channel := NewSimulated(time.Millisecond)

		result, err := channel.Send(context.Background(), "+15005550006", "Your code is 123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success || result.DeliveryID == "" {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("HonorsContextCancellation", func(t *testing.T) {
		channel := NewSimulated(time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := channel.Send(ctx, "+15005550006", "hello"); err == nil {
			t.Fatalf("expected context error")
		}
	})
}
