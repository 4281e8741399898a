package contact

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/clock"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/resilience"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMinDelay  = 3 * time.Second
	IdempotencyKey   = "Idempotency-Key"
	defaultUserAgent = "DeskOS-Contact/1.0"
)

// Options configures a Client
type Options struct {
	Endpoint string
	Timeout  time.Duration
	Retries  int
	// RetryWaitMin and RetryWaitMax bound the backoff between attempts
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// MinDelay spaces out consecutive submissions
	MinDelay time.Duration
	Clock    clock.Clock
	Logger   *zap.Logger
	Metrics  *monitoring.Metrics
}

// Receipt acknowledges a delivered message
type Receipt struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// reply is the relay's response body
type reply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Client posts contact messages to the relay
type Client struct {
	endpoint string
	resty    *resty.Client
	breaker  *resilience.Breaker
	limiter  *rate.Limiter
	clock    clock.Clock
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewClient creates a relay client. An empty endpoint yields a client that
// answers every submission with service_unavailable.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = DefaultMinDelay
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = 500 * time.Millisecond
	}
	if opts.RetryWaitMax < opts.RetryWaitMin {
		opts.RetryWaitMax = 5 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = max(0, opts.Retries)
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = nil
	// hand the last response back so its status can be classified
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", defaultUserAgent).
		SetHeader("Accept", "application/json")

	breaker := resilience.New("contact-relay", resilience.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		Clock:       opts.Clock,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			switch CodeOf(err) {
			case CodeValidation, CodeRateLimited:
				return true
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to resilience.State) {
			opts.Logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &Client{
		endpoint: opts.Endpoint,
		resty:    restyClient,
		breaker:  breaker,
		limiter:  rate.NewLimiter(rate.Every(opts.MinDelay), 1),
		clock:    opts.Clock,
		logger:   opts.Logger.Named("contact"),
		metrics:  opts.Metrics,
	}
}

// Configured reports whether a relay endpoint is set
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// Send sanitises, validates and delivers msg
func (c *Client) Send(ctx context.Context, msg Message) (Receipt, error) {
	receipt, err := c.send(ctx, msg)
	if err != nil {
		code := CodeOf(err)
		c.metrics.RecordContact(string(code))
		c.logger.Info("Contact submission failed", zap.String("code", string(code)), zap.Error(err))
		return Receipt{}, err
	}
	c.metrics.RecordContact("sent")
	c.logger.Info("Contact submission delivered", zap.String("id", receipt.ID))
	return receipt, nil
}

func (c *Client) send(ctx context.Context, msg Message) (Receipt, error) {
	msg = msg.Sanitize()
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}
	if !c.Configured() {
		return Receipt{}, newError(CodeServiceUnavailable, "contact relay not configured", nil)
	}
	if !c.limiter.AllowN(c.clock.Now(), 1) {
		return Receipt{}, newError(CodeRateLimited, "submissions are too frequent", nil)
	}

	receipt, err := resilience.Execute(c.breaker, func() (Receipt, error) {
		return c.post(ctx, msg)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return Receipt{}, newError(CodeServiceUnavailable, "contact relay unavailable", err)
	}
	return receipt, err
}

func (c *Client) post(ctx context.Context, msg Message) (Receipt, error) {
	key := uuid.NewString()
	var body reply

	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader(IdempotencyKey, key).
		SetBody(msg).
		SetResult(&body).
		SetError(&body).
		Post(c.endpoint)
	if err != nil {
		if isTimeout(err) {
			return Receipt{}, newError(CodeTimeout, "contact relay timed out", err)
		}
		return Receipt{}, newError(CodeServiceUnavailable, "contact relay unreachable", err)
	}

	if resp.IsError() || !body.Success {
		code := codeForStatus(resp.StatusCode())
		if resp.IsSuccess() {
			code = CodeInternal
		}
		text := body.Message
		if text == "" {
			text = resp.Status()
		}
		return Receipt{}, newError(code, text, nil)
	}
	return Receipt{ID: key, Message: body.Message}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
