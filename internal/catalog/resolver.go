package catalog

import (
	"context"

	"mercadoia/internal/model"
	"mercadoia/internal/rules"
)

// Resolver é a busca textual no catálogo. A lista volta ordenada por
// relevância e pode ser vazia.
type Resolver interface {
	Search(ctx context.Context, query string) ([]model.Candidate, error)
}

// Resolution é o resultado de Resolve: ou um produto escolhido, ou opções
// para o cliente escolher, ou nada.
type Resolution struct {
	Consulta         string            `json:"consulta"`
	Escolhido        *model.Candidate  `json:"escolhido,omitempty"`
	Opcoes           []model.Candidate `json:"opcoes"`
	PrecisaPerguntar bool              `json:"precisa_perguntar"`
}

// Resolve aplica glossário regional e tabela de preferência antes de pedir
// ao cliente que escolha entre as opções.
func Resolve(ctx context.Context, r Resolver, query string) (Resolution, error) {
	res := Resolution{Consulta: query}

	terms := rules.ExpandGlossary(query)
	if len(terms) > 1 {
		// termo regional amplo ("mistura"): junta as opções e pergunta
		seen := make(map[string]bool)
		for _, term := range terms {
			cands, err := r.Search(ctx, term)
			if err != nil {
				return Resolution{}, err
			}
			for _, c := range cands {
				if !seen[c.EAN] {
					seen[c.EAN] = true
					res.Opcoes = append(res.Opcoes, c)
				}
			}
		}
		res.PrecisaPerguntar = len(res.Opcoes) > 0
		return res, nil
	}
	term := terms[0]

	cands, err := r.Search(ctx, term)
	if err != nil {
		return Resolution{}, err
	}
	res.Opcoes = cands

	if preferred, ok := rules.PreferredTerm(term); ok {
		pref, err := r.Search(ctx, preferred)
		if err != nil {
			return Resolution{}, err
		}
		if len(pref) > 0 {
			res.Escolhido = &pref[0]
			return res, nil
		}
	}

	switch {
	case len(cands) == 0:
	case len(cands) == 1 || rules.Normalize(cands[0].Nome) == rules.Normalize(term):
		res.Escolhido = &cands[0]
	default:
		res.PrecisaPerguntar = true
	}
	return res, nil
}
