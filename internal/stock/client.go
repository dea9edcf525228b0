package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercadoia/internal/model"
	"mercadoia/internal/observability"
)

var (
	// ErrUnavailable cobre qualquer caso em que não há preço confiável para
	// mostrar: produto inexistente, sem estoque ou API fora do ar.
	ErrUnavailable = errors.New("produto indisponível")
	ErrNotFound    = fmt.Errorf("%w: não encontrado no estoque", ErrUnavailable)
	ErrOutOfStock  = fmt.Errorf("%w: sem estoque", ErrUnavailable)
)

// Source devolve preço e quantidade atuais de um EAN.
type Source interface {
	Lookup(ctx context.Context, ean string) (model.StockEntry, error)
}

type StockResponse struct {
	Success bool        `json:"success"`
	Result  *StockData  `json:"result"`
	Errors  interface{} `json:"errors"`
}

type StockData struct {
	EAN        string  `json:"ean"`
	Preco      float64 `json:"preco"`
	Quantidade float64 `json:"quantidade"`
}

// Client consulta a API de estoque da loja.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Now     func() time.Time
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
		Now:     time.Now,
	}
}

func (c *Client) Lookup(ctx context.Context, ean string) (model.StockEntry, error) {
	entry, err := c.lookup(ctx, ean)
	if err != nil {
		observability.StockUnavailableTotal.Inc()
		log.Printf("[Estoque] EAN %s indisponível: %v", ean, err)
	}
	return entry, err
}

func (c *Client) lookup(ctx context.Context, ean string) (model.StockEntry, error) {
	ean = strings.TrimSpace(ean)
	if ean == "" {
		return model.StockEntry{}, ErrNotFound
	}

	endpoint := fmt.Sprintf("%s/v1/estoque/%s", c.BaseURL, url.PathEscape(ean))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.StockEntry{}, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[Estoque] Consultando %s em %s", ean, endpoint)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.StockEntry{}, fmt.Errorf("%w: request failed: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.StockEntry{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return model.StockEntry{}, fmt.Errorf("%w: API returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var stockResp StockResponse
	if err := json.NewDecoder(resp.Body).Decode(&stockResp); err != nil {
		return model.StockEntry{}, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	if !stockResp.Success || stockResp.Result == nil {
		return model.StockEntry{}, ErrNotFound
	}
	if stockResp.Result.Preco <= 0 {
		return model.StockEntry{}, fmt.Errorf("%w: preço inválido (%.2f)", ErrUnavailable, stockResp.Result.Preco)
	}
	if stockResp.Result.Quantidade <= 0 {
		return model.StockEntry{}, ErrOutOfStock
	}

	return model.StockEntry{
		EAN:          ean,
		Preco:        stockResp.Result.Preco,
		Quantidade:   stockResp.Result.Quantidade,
		ConsultadoEm: c.Now(),
	}, nil
}
