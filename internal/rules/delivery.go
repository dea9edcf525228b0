package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUndeliverable = errors.New("bairro fora da área de entrega")

// UndeliverableError carrega o bairro pedido para a mensagem ao cliente.
type UndeliverableError struct {
	Bairro string
}

func (e *UndeliverableError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUndeliverable, e.Bairro)
}

func (e *UndeliverableError) Is(target error) bool {
	return target == ErrUndeliverable
}

type Fee struct {
	Bairro string  `json:"bairro"`
	Taxa   float64 `json:"taxa"`
}

type feeEntry struct {
	Bairro   string
	Taxa     float64
	Entregue bool
}

// As duas tabelas de taxa vieram do material de origem e não batem entre
// si. A tabela A é a usada; as diferenças saem em FeeTableConflicts.
var feeTableA = []feeEntry{
	{"Centro", 5.00, true},
	{"Jardim América", 7.00, true},
	{"Vila Nova", 6.00, true},
	{"São José", 8.00, true},
	{"Boa Vista", 8.00, true},
	{"Parque das Flores", 10.00, true},
	{"Industrial", 0, false},
	{"Zona Rural", 0, false},
}

var feeTableB = []feeEntry{
	{"Centro", 5.00, true},
	{"Jardim América", 8.00, true},
	{"Vila Nova", 6.00, true},
	{"São José", 8.00, true},
	{"Santa Luzia", 9.00, true},
	{"Industrial", 0, false},
}

// ResolveFee devolve a taxa fixa do bairro. Aceita diferença de caixa,
// acento e pequenos erros de digitação; bairro desconhecido ou sem entrega
// devolve *UndeliverableError.
func ResolveFee(bairro string) (Fee, error) {
	e, ok := matchFeeEntry(feeTableA, bairro)
	if !ok || !e.Entregue {
		return Fee{}, &UndeliverableError{Bairro: bairro}
	}
	return Fee{Bairro: e.Bairro, Taxa: e.Taxa}, nil
}

func matchFeeEntry(table []feeEntry, bairro string) (feeEntry, bool) {
	n := Normalize(bairro)
	if n == "" {
		return feeEntry{}, false
	}
	for _, e := range table {
		if Normalize(e.Bairro) == n {
			return e, true
		}
	}

	// no máximo um erro de digitação, palavra a palavra
	var match feeEntry
	found := 0
	for _, e := range table {
		if wordDistance(n, Normalize(e.Bairro)) <= 1 {
			match = e
			found++
		}
	}
	if found != 1 {
		return feeEntry{}, false
	}
	return match, true
}

// wordDistance soma a distância de edição palavra por palavra. Nomes com
// número de palavras diferente não se comparam.
func wordDistance(a, b string) int {
	wa, wb := strings.Fields(a), strings.Fields(b)
	if len(wa) != len(wb) {
		return len(a) + len(b)
	}
	total := 0
	for i := range wa {
		total += levenshtein(wa[i], wb[i])
	}
	return total
}

// FeeConflict descreve um bairro em que as duas tabelas divergem.
// TaxaA/TaxaB nil significa ausente naquela tabela.
type FeeConflict struct {
	Bairro string
	TaxaA  *float64
	TaxaB  *float64
	Motivo string
}

// FeeTableConflicts lista as divergências entre as tabelas de taxa.
func FeeTableConflicts() []FeeConflict {
	index := func(t []feeEntry) map[string]feeEntry {
		m := make(map[string]feeEntry, len(t))
		for _, e := range t {
			m[Normalize(e.Bairro)] = e
		}
		return m
	}
	a, b := index(feeTableA), index(feeTableB)

	keys := make(map[string]string)
	for k, e := range a {
		keys[k] = e.Bairro
	}
	for k, e := range b {
		keys[k] = e.Bairro
	}

	var out []FeeConflict
	for k, name := range keys {
		ea, inA := a[k]
		eb, inB := b[k]
		c := FeeConflict{Bairro: name}
		if inA && ea.Entregue {
			c.TaxaA = &ea.Taxa
		}
		if inB && eb.Entregue {
			c.TaxaB = &eb.Taxa
		}
		switch {
		case !inB:
			c.Motivo = "só na tabela A"
		case !inA:
			c.Motivo = "só na tabela B"
		case ea.Entregue != eb.Entregue:
			c.Motivo = "entrega diverge"
		case ea.Taxa != eb.Taxa:
			c.Motivo = "taxa diverge"
		default:
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bairro < out[j].Bairro })
	return out
}

// DeliveryNeighborhoods lista os bairros atendidos com a taxa de cada um.
func DeliveryNeighborhoods() []Fee {
	var out []Fee
	for _, e := range feeTableA {
		if e.Entregue {
			out = append(out, Fee{Bairro: e.Bairro, Taxa: e.Taxa})
		}
	}
	return out
}
