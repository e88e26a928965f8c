package amazon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every legacy API round trip.
const DefaultTimeout = 12 * time.Second

const mwsAPIVersion = "2013-01-01"

type LegacyConfig struct {
	SellerID  string
	AccessKey string
	SecretKey string
	// BaseURL is the MWS host including scheme; Path the versioned request
	// path (sandbox merchants get the sandbox path).
	BaseURL string
	Path    string
	Timeout time.Duration
}

// LegacyClient speaks the signed-query MWS/XML generation of the API.
type LegacyClient struct {
	cfg        LegacyConfig
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

func NewLegacyClient(cfg LegacyConfig, logger *slog.Logger) *LegacyClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &LegacyClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		now:        time.Now,
	}
}

var _ Client = (*LegacyClient)(nil)

func (c *LegacyClient) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizationDetails, error) {
	params := map[string]string{
		"AmazonOrderReferenceId":           req.ReferenceID,
		"AuthorizationReferenceId":         req.AuthorizationReferenceID,
		"AuthorizationAmount.Amount":       req.Amount.Amount.StringFixed(2),
		"AuthorizationAmount.CurrencyCode": req.Amount.Currency,
		"CaptureNow":                       fmt.Sprintf("%t", req.CaptureNow),
	}
	if req.SellerAuthorizationNote != "" {
		params["SellerAuthorizationNote"] = req.SellerAuthorizationNote
	}
	if req.TransactionTimeoutMins != nil {
		params["TransactionTimeout"] = fmt.Sprintf("%d", *req.TransactionTimeoutMins)
	}

	env, err := c.do(ctx, "Authorize", params)
	if err != nil {
		return nil, err
	}
	return c.requireAuthorization(env)
}

func (c *LegacyClient) GetAuthorizationDetails(ctx context.Context, authorizationID string) (*AuthorizationDetails, error) {
	env, err := c.do(ctx, "GetAuthorizationDetails", map[string]string{
		"AmazonAuthorizationId": authorizationID,
	})
	if err != nil {
		return nil, err
	}
	return c.requireAuthorization(env)
}

func (c *LegacyClient) CloseAuthorization(ctx context.Context, authorizationID string) error {
	_, err := c.do(ctx, "CloseAuthorization", map[string]string{
		"AmazonAuthorizationId": authorizationID,
	})
	return err
}

func (c *LegacyClient) Capture(ctx context.Context, req CaptureRequest) (*CaptureDetails, error) {
	params := map[string]string{
		"AmazonAuthorizationId":      req.AuthorizationID,
		"CaptureReferenceId":         req.CaptureReferenceID,
		"CaptureAmount.Amount":       req.Amount.Amount.StringFixed(2),
		"CaptureAmount.CurrencyCode": req.Amount.Currency,
	}
	if req.SellerCaptureNote != "" {
		params["SellerCaptureNote"] = req.SellerCaptureNote
	}

	env, err := c.do(ctx, "Capture", params)
	if err != nil {
		return nil, err
	}
	if d := env.captureDetails(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no capture details in response", ErrMalformedResponse)
}

func (c *LegacyClient) GetCaptureDetails(ctx context.Context, captureID string) (*CaptureDetails, error) {
	env, err := c.do(ctx, "GetCaptureDetails", map[string]string{
		"AmazonCaptureId": captureID,
	})
	if err != nil {
		return nil, err
	}
	if d := env.captureDetails(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no capture details in response", ErrMalformedResponse)
}

func (c *LegacyClient) Refund(ctx context.Context, req RefundRequest) (*RefundDetails, error) {
	params := map[string]string{
		"AmazonCaptureId":           req.CaptureID,
		"RefundReferenceId":         req.RefundReferenceID,
		"RefundAmount.Amount":       req.Amount.Amount.StringFixed(2),
		"RefundAmount.CurrencyCode": req.Amount.Currency,
	}
	if req.SellerRefundNote != "" {
		params["SellerRefundNote"] = req.SellerRefundNote
	}

	env, err := c.do(ctx, "Refund", params)
	if err != nil {
		return nil, err
	}
	if d := env.refundDetails(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no refund details in response", ErrMalformedResponse)
}

func (c *LegacyClient) GetRefundDetails(ctx context.Context, refundID string) (*RefundDetails, error) {
	env, err := c.do(ctx, "GetRefundDetails", map[string]string{
		"AmazonRefundId": refundID,
	})
	if err != nil {
		return nil, err
	}
	if d := env.refundDetails(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no refund details in response", ErrMalformedResponse)
}

func (c *LegacyClient) GetOrderReferenceDetails(ctx context.Context, referenceID, accessToken string) (*OrderReferenceDetails, error) {
	params := map[string]string{
		"AmazonOrderReferenceId": referenceID,
	}
	if accessToken != "" {
		params["AccessToken"] = accessToken
	}

	env, err := c.do(ctx, "GetOrderReferenceDetails", params)
	if err != nil {
		return nil, err
	}
	if d := env.orderReferenceDetails(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no order reference details in response", ErrMalformedResponse)
}

func (c *LegacyClient) CancelOrderReference(ctx context.Context, referenceID, reason string) error {
	params := map[string]string{
		"AmazonOrderReferenceId": referenceID,
	}
	if reason != "" {
		params["CancelationReason"] = reason
	}
	_, err := c.do(ctx, "CancelOrderReference", params)
	return err
}

func (c *LegacyClient) CloseOrderReference(ctx context.Context, referenceID string) error {
	_, err := c.do(ctx, "CloseOrderReference", map[string]string{
		"AmazonOrderReferenceId": referenceID,
	})
	return err
}

func (c *LegacyClient) requireAuthorization(env *responseEnvelope) (*AuthorizationDetails, error) {
	if d := env.authorizationDetails(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: no authorization details in response", ErrMalformedResponse)
}

// do builds, signs, and performs one MWS action call.
func (c *LegacyClient) do(ctx context.Context, action string, params map[string]string) (*responseEnvelope, error) {
	all := make(map[string]string, len(params)+8)
	for k, v := range params {
		all[k] = v
	}
	all["Action"] = action
	all["AWSAccessKeyId"] = c.cfg.AccessKey
	all["SellerId"] = c.cfg.SellerID
	all["Version"] = mwsAPIVersion
	if _, ok := all["Timestamp"]; !ok {
		all["Timestamp"] = c.now().UTC().Format("2006-01-02T15:04:05Z")
	}
	if _, ok := all["SignatureVersion"]; !ok {
		all["SignatureVersion"] = "2"
	}
	if _, ok := all["SignatureMethod"]; !ok {
		all["SignatureMethod"] = "HmacSHA256"
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	all["Signature"] = signQuery(base.Host, c.cfg.Path, all, c.cfg.SecretKey)

	c.logger.Debug("amazon request", "action", action, "params", redactParams(all))

	reqURL := c.cfg.BaseURL + c.cfg.Path + "?" + canonicalQuery(all)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: action, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: action, Err: err}
	}

	c.logger.Debug("amazon response", "action", action, "status", resp.StatusCode, "body_bytes", len(body))

	env, err := parseResponse(body, resp.StatusCode)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Code:       DefaultErrorCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}
	return env, nil
}
