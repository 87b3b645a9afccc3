package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rana718/hospigen/internal/retry"
	"github.com/brianvoe/gofakeit/v7"
)

// Category is one regulatory category of the medicine registry.
type Category struct {
	ID        int64  `json:"id"`
	Descricao string `json:"descricao"`
}

// Medication is a single registry entry as served by the listing endpoint.
type Medication struct {
	IDProduto      int64  `json:"idProduto"`
	NumeroRegistro string `json:"numeroRegistro"`
	NomeProduto    string `json:"nomeProduto"`
	Expediente     string `json:"expediente"`
	RazaoSocial    string `json:"razaoSocial"`
	CNPJ           string `json:"cnpj"`
}

// Page is one page of a category listing.
type Page struct {
	Content       []Medication `json:"content"`
	TotalPages    int          `json:"totalPages"`
	TotalElements int          `json:"totalElements"`
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 6.2; rv:20.0) Gecko/20121202 Firefox/20.0",
	"Mozilla/5.0 (X11; Fedora; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/52.0.2743.116 Safari/537.36",
	"Mozilla/5.0 (X11; Linux i686; rv:16.0) Gecko/20100101 Firefox/16.0",
	"Opera/9.80 (X11; Linux i686) Presto/2.12.388 Version/12.16",
	"Mozilla/5.0 (iPad; U; CPU OS 3_2 like Mac OS X; en-us) AppleWebKit/531.21.10 (KHTML, like Gecko) Version/4.0.4 Mobile/7B334b Safari/531.21.10",
	"Mozilla/5.0 (iPad; U; CPU OS 4_2_1 like Mac OS X; ja-jp) AppleWebKit/533.17.9 (KHTML, like Gecko) Version/5.0.2 Mobile/8C148 Safari/6533.18.5",
	"Mozilla/5.0 (Linux; Android 4.4.2; LG-V410 Build/KOT49I.V41010d) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/30.0.1599.103 Safari/537.36",
	"Mozilla/5.0 (Linux; Android 7.0; Moto G (5) Plus Build/NPNS25.137-35-5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/60.0.3112.107 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/535.7 (KHTML, like Gecko) Chrome/16.0.912.36 Safari/535.7",
	"Mozilla/5.0 (Windows; U; Windows NT 5.1; en-US) AppleWebKit/531.21.8 (KHTML, like Gecko) Version/4.0.4 Safari/531.21.10",
}

// Client talks to the medicine registry. It is safe for concurrent use.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
}

func NewClient(baseURL string, pageSize int, timeout time.Duration) *Client {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
	}
}

// ListCategories returns every regulatory category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, c.baseURL+"/api/tipoCategoriaRegulatoria", &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListPage returns one page of a category listing. Pages start at 1.
func (c *Client) ListPage(ctx context.Context, categoryID int64, page int) (*Page, error) {
	url := fmt.Sprintf("%s/api/consulta/bulario?count=%d&filter%%5BcategoriasRegulatorias%%5D=%d&page=%d",
		c.baseURL, c.pageSize, categoryID, page)

	var p Page
	if err := c.get(ctx, url, &p); err != nil {
		return nil, fmt.Errorf("category %d page %d: %w", categoryID, page, err)
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Permanent(err)
	}
	setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return err
		}
		return retry.Permanent(err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

func setHeaders(req *http.Request) {
	h := req.Header
	h.Set("accept", "application/json, text/plain, */*")
	h.Set("accept-language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("authorization", "Guest")
	h.Set("cache-control", "no-cache")
	h.Set("if-modified-since", "Mon, 26 Jul 1997 05:00:00 GMT")
	h.Set("pragma", "no-cache")
	h.Set("sec-ch-ua-mobile", "?0")
	h.Set("sec-ch-ua-platform", `"Windows"`)
	h.Set("sec-fetch-dest", "empty")
	h.Set("sec-fetch-mode", "cors")
	h.Set("sec-fetch-site", "same-origin")
	h.Set("Referer", "https://consultas.anvisa.gov.br/")
	h.Set("Referrer-Policy", "no-referrer-when-downgrade")
	h.Set("User-Agent", gofakeit.RandomString(userAgents))
}
