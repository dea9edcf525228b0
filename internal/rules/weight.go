package rules

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownWeightCategory = errors.New("categoria sem peso médio cadastrado")
	ErrInvalidQuantity       = errors.New("quantidade deve ser maior que zero")
)

// WeightNotice acompanha toda estimativa mostrada ao cliente.
const WeightNotice = "O peso é aproximado: o valor final é confirmado na balança e pode variar um pouco."

// peso médio por unidade, em kg
var weightTable = map[string]float64{
	"banana":          0.100,
	"maca":            0.150,
	"laranja":         0.200,
	"limao":           0.080,
	"tangerina":       0.150,
	"pera":            0.170,
	"manga":           0.350,
	"abacate":         0.400,
	"mamao":           1.000,
	"abacaxi":         1.500,
	"melao":           1.500,
	"melancia":        2.000,
	"tomate":          0.120,
	"cebola":          0.130,
	"batata":          0.150,
	"batata doce":     0.250,
	"cenoura":         0.120,
	"pimentao":        0.150,
	"pepino":          0.200,
	"chuchu":          0.300,
	"beterraba":       0.200,
	"repolho":         1.000,
	"abobora":         1.200,
	"mandioca":        0.500,
	"alho":            0.040,
	"pao frances":     0.050,
	"frango inteiro":  2.200,
	"peito de frango": 0.350,
	"coxa de frango":  0.120,
	"linguica":        0.080,
	"bife":            0.150,
	"file de peixe":   0.200,
}

type WeightEstimate struct {
	Categoria  string  `json:"categoria"`
	Unidades   int     `json:"unidades"`
	PesoKg     float64 `json:"peso_kg"`
	Aproximado bool    `json:"aproximado"`
}

// EstimateWeight converte unidades pedidas em quilos pela tabela de peso
// médio. O resultado é sempre aproximado.
func EstimateWeight(categoria string, unidades int) (WeightEstimate, error) {
	if unidades <= 0 {
		return WeightEstimate{}, ErrInvalidQuantity
	}
	key, ok := weightKey(categoria)
	if !ok {
		return WeightEstimate{}, fmt.Errorf("%w: %q", ErrUnknownWeightCategory, categoria)
	}
	return WeightEstimate{
		Categoria:  key,
		Unidades:   unidades,
		PesoKg:     roundGrams(weightTable[key] * float64(unidades)),
		Aproximado: true,
	}, nil
}

// AverageWeight devolve o peso médio de uma unidade da categoria.
func AverageWeight(categoria string) (float64, bool) {
	key, ok := weightKey(categoria)
	if !ok {
		return 0, false
	}
	return weightTable[key], true
}

// weightKey aceita plural simples ("bananas", "tomates") e nomes de produto
// que começam pela categoria ("banana prata").
func weightKey(categoria string) (string, bool) {
	n := Normalize(categoria)
	if _, ok := weightTable[n]; ok {
		return n, true
	}
	for _, suffix := range []string{"es", "s"} {
		if len(n) > len(suffix) && n[len(n)-len(suffix):] == suffix {
			if _, ok := weightTable[n[:len(n)-len(suffix)]]; ok {
				return n[:len(n)-len(suffix)], true
			}
		}
	}
	// prefixo mais longo primeiro, senão "batata" ganha de "batata doce"
	var best string
	for k := range weightTable {
		if len(k) > len(best) && hasWordPrefix(n, k) {
			best = k
		}
	}
	return best, best != ""
}

func hasWordPrefix(s, prefix string) bool {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return false
	}
	return len(s) == len(prefix) || s[len(prefix)] == ' ' || s[len(prefix)] == 's'
}

// WeightCategories lista as categorias cadastradas, em ordem alfabética.
func WeightCategories() []string {
	out := make([]string, 0, len(weightTable))
	for k := range weightTable {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
