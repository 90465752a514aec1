package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultTwilioBaseURL is the production Twilio REST API.
	DefaultTwilioBaseURL = "https://api.twilio.com"

	// defaultRequestTimeout bounds one carrier round trip so a hung provider
	// cannot stall the caller.
	defaultRequestTimeout = 10 * time.Second

	maxTransportRetries = 2
)

// ErrTwilioCredentialsRequired is returned when AccountSID/AuthToken are missing.
var ErrTwilioCredentialsRequired = errors.New("sms: twilio account sid and auth token are required")

// Twilio is a Channel backed by the Twilio Messages API.
type Twilio struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// TwilioOptions configures the Twilio channel.
type TwilioOptions struct {
	// AccountSID is the Twilio account identifier.
	AccountSID string
	// AuthToken is the Twilio API secret.
	AuthToken string
	// From is the sender phone number.
	From string
	// BaseURL overrides the API endpoint; tests point it at a local server.
	BaseURL string
	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration
}

// NewTwilio constructs a Twilio channel.
func NewTwilio(opts TwilioOptions) (*Twilio, error) {
	if opts.AccountSID == "" || opts.AuthToken == "" {
		return nil, ErrTwilioCredentialsRequired
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultTwilioBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Twilio{
		baseURL:    baseURL,
		accountSID: opts.AccountSID,
		authToken:  opts.AuthToken,
		from:       opts.From,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type twilioSuccess struct {
	SID string `json:"sid"`
}

type twilioFailure struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Send implements Channel.
//
// Transport failures are retried with exponential backoff before being
// reported; a provider rejection (non-2xx) is terminal for the attempt and
// carries the provider's message.
func (t *Twilio) Send(ctx context.Context, to, body string) (Result, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.from)
	form.Set("Body", body)
	payload := form.Encode()

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)

	var result Result
	backoff := retry.WithMaxRetries(maxTransportRetries, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
		if err != nil {
			return err
		}
		req.SetBasicAuth(t.accountSID, t.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := t.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			var failure twilioFailure
			msg := fmt.Sprintf("provider returned status %d", resp.StatusCode)
			if jsonErr := json.Unmarshal(raw, &failure); jsonErr == nil && failure.Message != "" {
				msg = failure.Message
			}

			result = Result{Success: false, Message: msg}
			return nil
		}

		var success twilioSuccess
		if err := json.Unmarshal(raw, &success); err != nil {
			result = Result{Success: false, Message: "provider returned an unreadable response"}
			return nil
		}

		result = Result{Success: true, Message: "delivered", DeliveryID: success.SID}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{Success: false, Message: err.Error()}, nil
	}

	return result, nil
}

// Close implements io.Closer for interface compatibility.
func (t *Twilio) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
