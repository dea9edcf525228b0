package rules

// termo genérico -> produto preferido quando o cliente não especifica
var preferenceTable = map[string]string{
	"arroz":    "arroz tipo 1",
	"feijao":   "feijao carioca",
	"acucar":   "acucar cristal",
	"oleo":     "oleo de soja",
	"leite":    "leite integral",
	"cafe":     "cafe tradicional",
	"sal":      "sal refinado",
	"ovo":      "ovos brancos",
	"ovos":     "ovos brancos",
	"farinha":  "farinha de trigo",
	"macarrao": "macarrao espaguete",
}

// termos regionais -> termos de busca no catálogo
var glossary = map[string][]string{
	"mistura":   {"carne", "frango", "peixe"},
	"macaxeira": {"mandioca"},
	"aipim":     {"mandioca"},
	"jerimum":   {"abobora"},
	"charque":   {"carne seca"},
	"refri":     {"refrigerante"},
	"bolacha":   {"biscoito"},
}

// PreferredTerm devolve o produto preferido para um termo genérico.
func PreferredTerm(query string) (string, bool) {
	p, ok := preferenceTable[Normalize(query)]
	return p, ok
}

// ExpandGlossary traduz termos regionais em termos de catálogo. Termo sem
// tradução volta como está.
func ExpandGlossary(query string) []string {
	if terms, ok := glossary[Normalize(query)]; ok {
		out := make([]string, len(terms))
		copy(out, terms)
		return out
	}
	return []string{query}
}
