package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mercadoia/internal/catalog"
)

// Listing é uma página de vitrine da loja.
type Listing struct {
	Products []catalog.Product
	Next     string
}

// ParseListing lê os cartões de produto ([data-ean]) de uma página de
// vitrine. Preço da vitrine é ignorado: preço só vem da consulta de estoque.
func ParseListing(html, pageURL string) (Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Listing{}, err
	}
	base, _ := url.Parse(pageURL)

	var l Listing
	doc.Find("[data-ean]").Each(func(_ int, s *goquery.Selection) {
		ean := strings.TrimSpace(s.AttrOr("data-ean", ""))
		nome := text(s, ".nome, .product-name, h2, h3")
		if ean == "" || nome == "" {
			return
		}

		unidade := strings.ToLower(s.AttrOr("data-unidade", ""))
		categoria := strings.TrimSpace(s.AttrOr("data-categoria", ""))
		if categoria == "" {
			categoria = text(s, ".categoria")
		}

		l.Products = append(l.Products, catalog.Product{
			EAN:            ean,
			Nome:           nome,
			Categoria:      categoria,
			VendidoPorPeso: unidade == "kg" || s.AttrOr("data-peso", "") == "true",
			Disponivel:     s.Find(".esgotado").Length() == 0 && s.AttrOr("data-disponivel", "true") != "false",
			URL:            resolve(base, s.Find("a[href]").First().AttrOr("href", "")),
		})
	})

	if href, ok := doc.Find(`a[rel="next"], link[rel="next"]`).First().Attr("href"); ok {
		l.Next = resolve(base, strings.TrimSpace(href))
	}
	return l, nil
}

func text(s *goquery.Selection, selector string) string {
	return strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
}

func resolve(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
