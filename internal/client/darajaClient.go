package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/config"
	"rustic-lights-backend/internal/model"

	"github.com/shopspring/decimal"
)

const (
	transactionType  = "CustomerPayBillOnline"
	accountReference = "Rustic Lights"
	transactionDesc  = "Paid Online"
	timestampLayout  = "20060102150405" // yyyyMMddHHmmss, gateway-local clock
)

type DarajaClient interface {
	STKPush(ctx context.Context, phoneNumber string, amount decimal.Decimal) (*model.STKPushResponse, error)
}

type darajaClientImpl struct {
	httpClient  *http.Client
	stkPushURL  string
	shortCode   string
	passKey     string
	callbackURL string
	tokens      *tokenManager
	now         func() time.Time
}

func NewDarajaClient(mpesaCfg *config.Mpesa) DarajaClient {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}
	return &darajaClientImpl{
		httpClient:  httpClient,
		stkPushURL:  mpesaCfg.STKPushURL,
		shortCode:   mpesaCfg.ShortCode,
		passKey:     mpesaCfg.PassKey,
		callbackURL: mpesaCfg.CallbackURL,
		tokens:      newTokenManager(httpClient, mpesaCfg.GrantURL, mpesaCfg.ConsumerKey, mpesaCfg.ConsumerSecret),
		now:         time.Now,
	}
}

// STKPush asks the gateway to prompt the payer's phone. The synchronous
// response only acknowledges the request; the payment result arrives later on
// the callback URL. The call is never retried.
func (c *darajaClientImpl) STKPush(ctx context.Context, phoneNumber string, amount decimal.Decimal) (*model.STKPushResponse, error) {
	timestamp := c.now().Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.shortCode + c.passKey + timestamp),
	)

	payload := model.STKPushRequest{
		BusinessShortCode: c.shortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            amount.Round(0).String(),
		PartyA:            phoneNumber,
		PartyB:            c.shortCode,
		PhoneNumber:       phoneNumber,
		CallBackURL:       c.callbackURL,
		AccountReference:  accountReference,
		TransactionDesc:   transactionDesc,
	}

	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.UpstreamPayment(fmt.Errorf("marshal stk push payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.stkPushURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, apperr.UpstreamPayment(fmt.Errorf("http new request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.UpstreamPayment(fmt.Errorf("stk push request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.UpstreamPayment(fmt.Errorf("gateway status %d: %s", resp.StatusCode, string(b)))
	}

	var result model.STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.UpstreamPayment(fmt.Errorf("decode stk push response: %w", err))
	}
	if result.CheckoutRequestID == "" {
		return nil, apperr.UpstreamPayment(fmt.Errorf("gateway acknowledgment missing CheckoutRequestID"))
	}

	return &result, nil
}
