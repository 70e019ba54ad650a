package finnhub

import (
	"context"
	"fmt"
	"time"

	"OptionVal/internal/domain/models"
	xhttp "OptionVal/pkg/http"
)

const defaultRESTBaseURL = "https://finnhub.io/api/v1"

// RESTClient fetches quotes over the Finnhub REST API. Used as a fallback
// when no live tick has been observed for a symbol yet.
type RESTClient struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

func NewRESTClient(apiKey string) *RESTClient {
	return &RESTClient{
		apiKey:  apiKey,
		baseURL: defaultRESTBaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
}

// Quote returns the current quote for a symbol.
func (c *RESTClient) Quote(ctx context.Context, symbol string) (*models.SpotQuote, error) {
	var body struct {
		Current float64 `json:"c"`
		T       int64   `json:"t"` // unix seconds
	}
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/quote",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {c.apiKey},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}
	if body.Current <= 0 {
		return nil, fmt.Errorf("finnhub quote %s: no price", symbol)
	}
	ts := body.T
	if ts == 0 {
		ts = time.Now().Unix()
	}
	return &models.SpotQuote{Symbol: symbol, Price: body.Current, Timestamp: ts}, nil
}
