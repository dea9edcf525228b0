package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadoia/internal/catalog"
)

func listingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path + "?" + r.URL.RawQuery {
		case "/hortifruti?":
			fmt.Fprint(w, `<div data-ean="1"><h3>Banana</h3></div><a rel="next" href="/hortifruti?pagina=2">></a>`)
		case "/hortifruti?pagina=2":
			// aponta de volta para a primeira página: não pode entrar em loop
			fmt.Fprint(w, `<div data-ean="2"><h3>Tomate</h3></div><a rel="next" href="/hortifruti">></a>`)
		case "/mercearia?":
			fmt.Fprint(w, `<div data-ean="3"><h3>Arroz</h3></div>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCrawlCategory_FollowsNextOnce(t *testing.T) {
	srv := listingServer(t)

	var eans []string
	n, err := CrawlCategory(context.Background(), srv.URL+"/hortifruti", func(p catalog.Product) {
		eans = append(eans, p.EAN)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1", "2"}, eans)
}

func TestCrawlCategory_HTTPError(t *testing.T) {
	srv := listingServer(t)

	_, err := CrawlCategory(context.Background(), srv.URL+"/nao-existe", func(catalog.Product) {})
	assert.ErrorIs(t, err, ErrPageStatus)
}

func TestCrawlPages(t *testing.T) {
	srv := listingServer(t)

	var (
		mu   sync.Mutex
		eans []string
	)
	total := CrawlPages(context.Background(), []string{srv.URL + "/hortifruti", srv.URL + "/mercearia", srv.URL + "/nao-existe"}, 2,
		func(p catalog.Product) {
			mu.Lock()
			eans = append(eans, p.EAN)
			mu.Unlock()
		})

	sort.Strings(eans)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"1", "2", "3"}, eans)
}
