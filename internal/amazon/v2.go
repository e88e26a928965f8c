package amazon

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/address"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type V2Config struct {
	MerchantID  string
	StoreID     string
	PublicKeyID string
	PrivateKey  []byte // PEM
	BaseURL     string
	RegionCode  string
	Timeout     time.Duration
}

// V2Client speaks the JSON generation of the API: charge permissions in
// place of order references, charges in place of authorizations/captures.
// It translates v2 states into the shared legacy vocabulary so the
// orchestrator sees one state machine.
type V2Client struct {
	cfg        V2Config
	key        *rsa.PrivateKey
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

func NewV2Client(cfg V2Config, logger *slog.Logger) (*V2Client, error) {
	key, err := parsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &V2Client{
		cfg:        cfg,
		key:        key,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		now:        time.Now,
	}, nil
}

var _ Client = (*V2Client)(nil)

type v2Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type v2StatusDetails struct {
	State      string `json:"state"`
	ReasonCode string `json:"reasonCode"`
}

type v2Charge struct {
	ChargeID           string          `json:"chargeId"`
	ChargePermissionID string          `json:"chargePermissionId"`
	ChargeAmount       v2Price         `json:"chargeAmount"`
	CaptureAmount      *v2Price        `json:"captureAmount"`
	StatusDetails      v2StatusDetails `json:"statusDetails"`
}

type v2Refund struct {
	RefundID      string          `json:"refundId"`
	ChargeID      string          `json:"chargeId"`
	RefundAmount  v2Price         `json:"refundAmount"`
	StatusDetails v2StatusDetails `json:"statusDetails"`
}

type v2ChargePermission struct {
	ChargePermissionID string          `json:"chargePermissionId"`
	StatusDetails      v2StatusDetails `json:"statusDetails"`
	Buyer              struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"buyer"`
	ShippingAddress struct {
		Name          string `json:"name"`
		AddressLine1  string `json:"addressLine1"`
		AddressLine2  string `json:"addressLine2"`
		AddressLine3  string `json:"addressLine3"`
		City          string `json:"city"`
		StateOrRegion string `json:"stateOrRegion"`
		PostalCode    string `json:"postalCode"`
		CountryCode   string `json:"countryCode"`
		PhoneNumber   string `json:"phoneNumber"`
	} `json:"shippingAddress"`
}

type v2Error struct {
	ReasonCode string `json:"reasonCode"`
	Message    string `json:"message"`
}

func (c *V2Client) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizationDetails, error) {
	body := map[string]any{
		"chargePermissionId": req.ReferenceID,
		"chargeAmount": v2Price{
			Amount:       req.Amount.Amount.StringFixed(2),
			CurrencyCode: req.Amount.Currency,
		},
		"captureNow":                    req.CaptureNow,
		"canHandlePendingAuthorization": req.TransactionTimeoutMins != nil,
		"merchantMetadata": map[string]any{
			"merchantReferenceId": req.AuthorizationReferenceID,
			"noteToBuyer":         req.SellerAuthorizationNote,
		},
	}

	var charge v2Charge
	if err := c.do(ctx, http.MethodPost, "/v2/charges", body, &charge); err != nil {
		return nil, err
	}
	return chargeToAuthorization(charge), nil
}

func (c *V2Client) GetAuthorizationDetails(ctx context.Context, authorizationID string) (*AuthorizationDetails, error) {
	var charge v2Charge
	if err := c.do(ctx, http.MethodGet, "/v2/charges/"+url.PathEscape(authorizationID), nil, &charge); err != nil {
		return nil, err
	}
	return chargeToAuthorization(charge), nil
}

func (c *V2Client) CloseAuthorization(ctx context.Context, authorizationID string) error {
	body := map[string]any{"cancellationReason": "Authorization closed by merchant"}
	return c.do(ctx, http.MethodDelete, "/v2/charges/"+url.PathEscape(authorizationID)+"/cancel", body, &v2Charge{})
}

func (c *V2Client) Capture(ctx context.Context, req CaptureRequest) (*CaptureDetails, error) {
	body := map[string]any{
		"captureAmount": v2Price{
			Amount:       req.Amount.Amount.StringFixed(2),
			CurrencyCode: req.Amount.Currency,
		},
		"softDescriptor": req.SellerCaptureNote,
	}

	var charge v2Charge
	if err := c.do(ctx, http.MethodPost, "/v2/charges/"+url.PathEscape(req.AuthorizationID)+"/capture", body, &charge); err != nil {
		return nil, err
	}
	return chargeToCapture(charge), nil
}

func (c *V2Client) GetCaptureDetails(ctx context.Context, captureID string) (*CaptureDetails, error) {
	var charge v2Charge
	if err := c.do(ctx, http.MethodGet, "/v2/charges/"+url.PathEscape(captureID), nil, &charge); err != nil {
		return nil, err
	}
	return chargeToCapture(charge), nil
}

func (c *V2Client) Refund(ctx context.Context, req RefundRequest) (*RefundDetails, error) {
	body := map[string]any{
		"chargeId": req.CaptureID,
		"refundAmount": v2Price{
			Amount:       req.Amount.Amount.StringFixed(2),
			CurrencyCode: req.Amount.Currency,
		},
		"softDescriptor": req.SellerRefundNote,
	}

	var refund v2Refund
	if err := c.do(ctx, http.MethodPost, "/v2/refunds", body, &refund); err != nil {
		return nil, err
	}
	return refundToDetails(refund), nil
}

func (c *V2Client) GetRefundDetails(ctx context.Context, refundID string) (*RefundDetails, error) {
	var refund v2Refund
	if err := c.do(ctx, http.MethodGet, "/v2/refunds/"+url.PathEscape(refundID), nil, &refund); err != nil {
		return nil, err
	}
	return refundToDetails(refund), nil
}

func (c *V2Client) GetOrderReferenceDetails(ctx context.Context, referenceID, _ string) (*OrderReferenceDetails, error) {
	var cp v2ChargePermission
	if err := c.do(ctx, http.MethodGet, "/v2/chargePermissions/"+url.PathEscape(referenceID), nil, &cp); err != nil {
		return nil, err
	}

	return &OrderReferenceDetails{
		ReferenceID: cp.ChargePermissionID,
		State:       translateChargePermissionState(cp.StatusDetails.State),
		ReasonCode:  cp.StatusDetails.ReasonCode,
		Buyer: Buyer{
			Name:  cp.Buyer.Name,
			Email: cp.Buyer.Email,
		},
		Destination: address.Raw{
			Name:          cp.ShippingAddress.Name,
			AddressLine1:  cp.ShippingAddress.AddressLine1,
			AddressLine2:  cp.ShippingAddress.AddressLine2,
			AddressLine3:  cp.ShippingAddress.AddressLine3,
			City:          cp.ShippingAddress.City,
			StateOrRegion: cp.ShippingAddress.StateOrRegion,
			PostalCode:    cp.ShippingAddress.PostalCode,
			CountryCode:   cp.ShippingAddress.CountryCode,
			Phone:         cp.ShippingAddress.PhoneNumber,
		},
	}, nil
}

func (c *V2Client) CancelOrderReference(ctx context.Context, referenceID, reason string) error {
	body := map[string]any{
		"closureReason":        reason,
		"cancelPendingCharges": true,
	}
	return c.do(ctx, http.MethodDelete, "/v2/chargePermissions/"+url.PathEscape(referenceID)+"/close", body, &v2ChargePermission{})
}

func (c *V2Client) CloseOrderReference(ctx context.Context, referenceID string) error {
	body := map[string]any{
		"closureReason":        "Order fulfilled",
		"cancelPendingCharges": false,
	}
	return c.do(ctx, http.MethodDelete, "/v2/chargePermissions/"+url.PathEscape(referenceID)+"/close", body, &v2ChargePermission{})
}

// do performs one signed v2 call and decodes the JSON response into out.
func (c *V2Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshalling json: %w", err)
		}
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	headers := map[string]string{
		"accept":           "application/json",
		"content-type":     "application/json",
		"x-amz-pay-date":   c.now().UTC().Format("20060102T150405Z"),
		"x-amz-pay-host":   base.Host,
		"x-amz-pay-region": c.cfg.RegionCode,
	}
	if method == http.MethodPost {
		headers["x-amz-pay-idempotency-key"] = uuid.New().String()
	}

	auth, err := signV2Request(c.key, c.cfg.PublicKeyID, method, base.Path+path, "", headers, payload)
	if err != nil {
		return err
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("authorization", auth)

	c.logger.Debug("amazon v2 request", "method", method, "path", path)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	c.logger.Debug("amazon v2 response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr v2Error
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Message == "" {
			return &ProviderError{
				Code:       DefaultErrorCode,
				Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
				StatusCode: resp.StatusCode,
			}
		}
		code := apiErr.ReasonCode
		if code == "" {
			code = DefaultErrorCode
		}
		return &ProviderError{Code: code, Message: apiErr.Message, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func chargeToAuthorization(charge v2Charge) *AuthorizationDetails {
	d := &AuthorizationDetails{
		AuthorizationID: charge.ChargeID,
		ReferenceID:     charge.ChargePermissionID,
		State:           translateChargeState(charge.StatusDetails.State),
		ReasonCode:      translateReasonCode(charge.StatusDetails.ReasonCode),
		Amount:          priceToMoney(charge.ChargeAmount),
	}
	if charge.CaptureAmount != nil {
		d.CaptureNow = true
		d.CaptureID = charge.ChargeID
	}
	return d
}

func chargeToCapture(charge v2Charge) *CaptureDetails {
	amount := charge.ChargeAmount
	if charge.CaptureAmount != nil {
		amount = *charge.CaptureAmount
	}
	return &CaptureDetails{
		CaptureID:  charge.ChargeID,
		State:      translateChargeState(charge.StatusDetails.State),
		ReasonCode: translateReasonCode(charge.StatusDetails.ReasonCode),
		Amount:     priceToMoney(amount),
	}
}

func refundToDetails(refund v2Refund) *RefundDetails {
	return &RefundDetails{
		RefundID:   refund.RefundID,
		State:      translateChargeState(refund.StatusDetails.State),
		ReasonCode: refund.StatusDetails.ReasonCode,
		Amount:     priceToMoney(refund.RefundAmount),
	}
}

// translateChargeState maps v2 charge states onto the legacy vocabulary.
func translateChargeState(state string) string {
	switch state {
	case "AuthorizationInitiated", "CaptureInitiated", "RefundInitiated":
		return StatePending
	case "Authorized":
		return StateOpen
	case "Captured", "Completed", "Refunded":
		return StateCompleted
	case "Declined":
		return StateDeclined
	case "Canceled":
		return StateClosed
	default:
		return state
	}
}

func translateChargePermissionState(state string) string {
	switch state {
	case "Chargeable":
		return StateOpen
	case "NonChargeable":
		return StateSuspended
	case "Closed":
		return StateClosed
	default:
		return state
	}
}

// translateReasonCode maps v2 decline reasons onto the legacy codes the
// orchestrator branches on.
func translateReasonCode(code string) string {
	switch code {
	case "SoftDeclined":
		return ReasonInvalidPaymentMethod
	case "HardDeclined":
		return ReasonAmazonRejected
	default:
		return code
	}
}

func priceToMoney(p v2Price) domain.Money {
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	return domain.Money{Amount: amount, Currency: p.CurrencyCode}
}
