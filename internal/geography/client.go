package geography

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Region struct {
	ID    int64  `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

type UF struct {
	ID     int64  `json:"id"`
	Sigla  string `json:"sigla"`
	Nome   string `json:"nome"`
	Regiao Region `json:"regiao"`
}

type Mesorregiao struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
	UF   UF     `json:"UF"`
}

type Microrregiao struct {
	ID          int64       `json:"id"`
	Nome        string      `json:"nome"`
	Mesorregiao Mesorregiao `json:"mesorregiao"`
}

type Municipio struct {
	ID           int64        `json:"id"`
	Nome         string       `json:"nome"`
	Microrregiao Microrregiao `json:"microrregiao"`
}

// StateID walks the nested hierarchy up to the owning state.
func (m Municipio) StateID() int64 {
	return m.Microrregiao.Mesorregiao.UF.ID
}

type Distrito struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Municipio Municipio `json:"municipio"`
}

// Client reads the IBGE locality endpoints. There is no retry: the first
// failure is returned to the caller.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("geography"),
	}
}

func (c *Client) States(ctx context.Context) ([]UF, error) {
	var out []UF
	if err := c.get(ctx, "/estados", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Cities(ctx context.Context) ([]Municipio, error) {
	var out []Municipio
	if err := c.get(ctx, "/municipios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Districts(ctx context.Context) ([]Distrito, error) {
	var out []Distrito
	if err := c.get(ctx, "/distritos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	c.logger.Debug("fetched", zap.String("path", path), zap.Duration("latency", time.Since(start)))
	return nil
}
