package clients

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// OrchestratorClient starts order transactions.
type OrchestratorClient struct{ c *Client }

func NewOrchestratorClient(c *Client) *OrchestratorClient { return &OrchestratorClient{c: c} }

type sagaRequestJSON struct {
	SessionID  string  `json:"sessionId"`
	CardNumber string  `json:"cardNumber"`
	CardOwner  string  `json:"cardOwner"`
	Checksum   string  `json:"checksum"`
	Total      float64 `json:"total"`
}

// StartTransaction posts the saga request. Any 2xx answer is acceptance.
func (oc *OrchestratorClient) StartTransaction(ctx context.Context, req shop.SagaRequest) error {
	_, err := oc.c.Do(ctx, http.MethodPost, oc.c.URL(), sagaRequestJSON{
		SessionID:  req.SessionID,
		CardNumber: req.CardNumber,
		CardOwner:  req.CardOwner,
		Checksum:   req.Checksum,
		Total:      req.Total.InexactFloat64(),
	})
	return err
}
