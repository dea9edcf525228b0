package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"mercadoia/internal/cart"
	"mercadoia/internal/catalog"
	"mercadoia/internal/model"
	"mercadoia/internal/observability"
	"mercadoia/internal/order"
	"mercadoia/internal/rules"
	"mercadoia/internal/stock"
)

var (
	ErrPriceNotQuoted    = errors.New("preço não consultado: chame estoque ou busca_lote antes")
	ErrInsufficientStock = errors.New("quantidade pedida maior que o estoque")
)

// Catalog é a parte do catálogo usada pelas ferramentas.
type Catalog interface {
	catalog.Resolver
	ByEAN(ctx context.Context, ean string) (model.Candidate, error)
}

// Service implementa as ferramentas oferecidas ao modelo. Nenhum preço sai
// daqui sem uma consulta de estoque dentro da janela de cotação.
type Service struct {
	Catalog Catalog
	Stock   stock.Source
	Carts   *cart.Store
	Tracker *cart.Tracker
	Orders  *order.Service
	PixKey  string
	Workers int
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func count(tool string) {
	observability.ToolCallsTotal.WithLabelValues(tool).Inc()
}

type EanResult struct {
	catalog.Resolution
	Mensagem string `json:"mensagem,omitempty"`
}

func (s *Service) Ean(ctx context.Context, query string) (EanResult, error) {
	count("ean")
	res, err := catalog.Resolve(ctx, s.Catalog, query)
	if err != nil {
		return EanResult{}, err
	}
	out := EanResult{Resolution: res}
	if res.Escolhido == nil && len(res.Opcoes) == 0 {
		out.Mensagem = fmt.Sprintf("Não encontrei %q no catálogo.", query)
	}
	return out, nil
}

type EstoqueResult struct {
	EAN            string  `json:"ean"`
	Nome           string  `json:"nome"`
	Disponivel     bool    `json:"disponivel"`
	Preco          float64 `json:"preco,omitempty"`
	Quantidade     float64 `json:"quantidade,omitempty"`
	VendidoPorPeso bool    `json:"vendido_por_peso"`
	Mensagem       string  `json:"mensagem,omitempty"`
}

// Estoque consulta preço e estoque ao vivo e guarda a cotação para o
// cliente. Indisponibilidade não é erro: volta Disponivel=false sem preço.
func (s *Service) Estoque(ctx context.Context, cliente, ean string) (EstoqueResult, error) {
	count("estoque")
	prod, err := s.Catalog.ByEAN(ctx, ean)
	if err != nil {
		// sem o cadastro não dá para saber se o item é de peso variável, e
		// sem isso a regra do pix não se aplica: não cota
		if errors.Is(err, catalog.ErrProductNotFound) {
			log.Printf("[Tools] EAN %s fora do catálogo", ean)
		} else {
			log.Printf("[Tools] Erro ao buscar EAN %s no catálogo: %v", ean, err)
		}
		return EstoqueResult{EAN: ean, Nome: ean, Mensagem: rules.UnavailableMessage}, nil
	}

	entry, err := s.Stock.Lookup(ctx, ean)
	return s.quote(ctx, cliente, prod, entry, err)
}

func (s *Service) quote(ctx context.Context, cliente string, prod model.Candidate, entry model.StockEntry, err error) (EstoqueResult, error) {
	res := EstoqueResult{EAN: prod.EAN, Nome: prod.Nome, VendidoPorPeso: prod.VendidoPorPeso}
	if err != nil {
		if errors.Is(err, stock.ErrUnavailable) {
			res.Mensagem = rules.UnavailableMessage
			return res, nil
		}
		return EstoqueResult{}, err
	}

	q := cart.Quote{
		EAN:            prod.EAN,
		Nome:           prod.Nome,
		Categoria:      prod.Categoria,
		VendidoPorPeso: prod.VendidoPorPeso,
		Preco:          entry.Preco,
		Quantidade:     entry.Quantidade,
		ConsultadoEm:   entry.ConsultadoEm,
	}
	if q.ConsultadoEm.IsZero() {
		q.ConsultadoEm = s.now()
	}
	if err := s.Carts.SaveQuote(ctx, cliente, q); err != nil {
		return EstoqueResult{}, err
	}

	res.Disponivel = true
	res.Preco = entry.Preco
	res.Quantidade = entry.Quantidade
	return res, nil
}

type LoteItem struct {
	catalog.Resolution
	Estoque *EstoqueResult `json:"estoque,omitempty"`
}

type BuscaLoteResult struct {
	Itens []LoteItem `json:"itens"`
}

// BuscaLote resolve e consulta uma lista de produtos de uma vez. Cada item
// tem seu próprio resultado, na ordem pedida.
func (s *Service) BuscaLote(ctx context.Context, cliente, produtos string) (BuscaLoteResult, error) {
	count("busca_lote")
	queries := SplitProducts(produtos)

	itens := make([]LoteItem, len(queries))
	var eans []string
	var idx []int
	for i, q := range queries {
		res, err := catalog.Resolve(ctx, s.Catalog, q)
		if err != nil {
			return BuscaLoteResult{}, err
		}
		itens[i] = LoteItem{Resolution: res}
		if res.Escolhido != nil {
			eans = append(eans, res.Escolhido.EAN)
			idx = append(idx, i)
		}
	}

	for j, r := range stock.LookupBatch(ctx, s.Stock, eans, s.Workers) {
		i := idx[j]
		est, err := s.quote(ctx, cliente, *itens[i].Escolhido, r.Entry, r.Err)
		if err != nil {
			log.Printf("[Tools] busca_lote: erro em %s: %v", r.EAN, err)
			est = EstoqueResult{EAN: r.EAN, Nome: itens[i].Escolhido.Nome, Mensagem: rules.UnavailableMessage}
		}
		itens[i].Estoque = &est
	}
	return BuscaLoteResult{Itens: itens}, nil
}

// SplitProducts separa a lista do cliente por vírgula, barra vertical,
// ponto e vírgula ou quebra de linha.
func SplitProducts(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == ';' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type AddItemRequest struct {
	EAN        string  `json:"ean"`
	Quantidade float64 `json:"quantidade"`
	Unidade    string  `json:"unidade"`
}

type AddItemResult struct {
	Item     model.CartItem `json:"item"`
	Carrinho CartView       `json:"carrinho"`
	Aviso    string         `json:"aviso,omitempty"`
}

// AddItem põe no carrinho um produto já cotado. Item vendido por peso pedido
// em unidades vira quilos pela tabela de peso médio. A soma com o que já está
// no carrinho não passa do estoque consultado.
func (s *Service) AddItem(ctx context.Context, cliente string, req AddItemRequest) (AddItemResult, error) {
	count("add_item_tool")
	now := s.now()

	if req.Quantidade <= 0 {
		return AddItemResult{}, rules.ErrInvalidQuantity
	}
	q, err := s.Carts.GetQuote(ctx, cliente, req.EAN, now)
	if errors.Is(err, cart.ErrNoQuote) {
		return AddItemResult{}, ErrPriceNotQuoted
	}
	if err != nil {
		return AddItemResult{}, err
	}

	unidade := model.UnidadeUn
	if u := rules.Normalize(req.Unidade); u == "kg" || u == "quilo" || u == "quilos" {
		unidade = model.UnidadeKg
	}

	// só item vendido por peso tem preço por kg; pacote fechado de uma
	// categoria de peso variável continua por unidade
	qtd := req.Quantidade
	var aviso string
	if q.VendidoPorPeso {
		if unidade == model.UnidadeUn {
			est, err := estimate(q, qtd)
			if err != nil {
				return AddItemResult{}, err
			}
			qtd = est.PesoKg
			unidade = model.UnidadeKg
		}
		aviso = rules.WeightNotice
	} else {
		if qtd != math.Trunc(qtd) {
			return AddItemResult{}, rules.ErrInvalidQuantity
		}
		unidade = model.UnidadeUn
	}

	c, err := s.Carts.Get(ctx, cliente)
	if err != nil {
		return AddItemResult{}, err
	}
	if inCart := rules.QuantityOf(c.Itens, q.EAN, unidade); q.Quantidade > 0 && inCart+qtd > q.Quantidade {
		return AddItemResult{}, fmt.Errorf("%w: %s tem %g disponível e o carrinho já tem %g", ErrInsufficientStock, q.Nome, q.Quantidade, inCart)
	}

	item := model.CartItem{
		EAN:            q.EAN,
		Nome:           q.Nome,
		Categoria:      q.Categoria,
		VendidoPorPeso: q.VendidoPorPeso,
		Quantidade:     qtd,
		Unidade:        unidade,
		PrecoUnitario:  q.Preco,
		PrecoLinha:     rules.RoundCents(qtd * q.Preco),
		Aproximado:     q.VendidoPorPeso,
		CotadoEm:       q.ConsultadoEm,
	}
	c, err = s.Carts.AddItem(ctx, cliente, item, now)
	if err != nil {
		return AddItemResult{}, err
	}
	log.Printf("[Tools] %s adicionou %g %s de %s", cliente, item.Quantidade, item.Unidade, item.Nome)
	return AddItemResult{Item: item, Carrinho: s.view(c), Aviso: aviso}, nil
}

func estimate(q cart.Quote, unidades float64) (rules.WeightEstimate, error) {
	if unidades != math.Trunc(unidades) {
		return rules.WeightEstimate{}, rules.ErrInvalidQuantity
	}
	est, err := rules.EstimateWeight(q.Nome, int(unidades))
	if errors.Is(err, rules.ErrUnknownWeightCategory) && q.Categoria != "" {
		est, err = rules.EstimateWeight(q.Categoria, int(unidades))
	}
	return est, err
}

type CartView struct {
	Itens        []model.CartItem `json:"itens"`
	Subtotal     float64          `json:"subtotal"`
	Aproximado   bool             `json:"aproximado"`
	PixPermitido bool             `json:"pix_permitido"`
	ChavePix     string           `json:"chave_pix,omitempty"`
	Aviso        string           `json:"aviso,omitempty"`
}

func (s *Service) ViewCart(ctx context.Context, cliente string) (CartView, error) {
	count("view_cart_tool")
	c, err := s.Carts.Get(ctx, cliente)
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

func (s *Service) view(c model.Cart) CartView {
	v := CartView{
		Itens:        c.Itens,
		Subtotal:     rules.Subtotal(c.Itens),
		PixPermitido: rules.AdvanceElectronicPaymentAllowed(c.Itens),
	}
	if v.Itens == nil {
		v.Itens = []model.CartItem{}
	}
	for _, it := range c.Itens {
		v.Aproximado = v.Aproximado || it.Aproximado
	}
	if v.PixPermitido && len(c.Itens) > 0 {
		v.ChavePix = s.PixKey
	}
	if !v.PixPermitido {
		v.Aviso = rules.PrepaymentMessage
	} else if v.Aproximado {
		v.Aviso = rules.WeightNotice
	}
	return v
}

type FinalizeResult struct {
	Pedido      model.Order `json:"pedido"`
	Alterado    bool        `json:"alterado"`
	Resumo      string      `json:"resumo"`
	ChavePix    string      `json:"chave_pix,omitempty"`
	EditavelAte string      `json:"editavel_ate"`
	Mensagem    string      `json:"mensagem,omitempty"`
}

// FinalizarPedido fecha o carrinho. Se o cliente ainda está na janela do
// último pedido, itens novos e mudanças de dados entram nesse pedido. Pedido
// para alterar um pedido já congelado volta rules.ErrOrderFrozen.
func (s *Service) FinalizarPedido(ctx context.Context, cliente string, req order.FinalizeRequest) (FinalizeResult, error) {
	count("finalizar_pedido_tool")
	now := s.now()

	state, err := s.Tracker.State(ctx, cliente, now)
	if err != nil {
		return FinalizeResult{}, err
	}

	var (
		o        model.Order
		alterado bool
		continua = state.Continua
	)
	switch {
	case state.Continua:
		o, alterado, err = s.Orders.AmendFromCart(ctx, cliente, state.UltimoPedidoID, req, now)
	case req.Alterar && state.Congelado:
		o, alterado, err = s.Orders.Amend(ctx, state.UltimoPedidoID, nil, req, now)
		continua = true
	default:
		o, err = s.Orders.Finalize(ctx, cliente, req, now)
	}
	if err != nil {
		return FinalizeResult{}, err
	}

	res := FinalizeResult{
		Pedido:      o,
		Alterado:    alterado,
		Resumo:      order.Summary(o),
		EditavelAte: rules.AmendDeadline(o).Format("15:04"),
	}
	if continua && !alterado {
		res.Mensagem = fmt.Sprintf("Nada mudou no pedido %s.", o.ID)
	}
	if o.Pagamento == model.PagamentoPix {
		res.ChavePix = s.PixKey
	}
	return res, nil
}

type FreteResult struct {
	Bairro   string  `json:"bairro"`
	Entrega  bool    `json:"entrega"`
	Taxa     float64 `json:"taxa"`
	Mensagem string  `json:"mensagem,omitempty"`
}

// Frete informa a taxa de entrega do bairro antes de fechar o pedido.
func (s *Service) Frete(_ context.Context, bairro string) (FreteResult, error) {
	count("frete")
	fee, err := rules.ResolveFee(bairro)
	if errors.Is(err, rules.ErrUndeliverable) {
		return FreteResult{Bairro: strings.TrimSpace(bairro), Mensagem: rules.UserMessage(err)}, nil
	}
	if err != nil {
		return FreteResult{}, err
	}
	return FreteResult{Bairro: fee.Bairro, Entrega: true, Taxa: fee.Taxa}, nil
}

// Message é o texto para o cliente a partir de um erro de ferramenta.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPriceNotQuoted):
		return "Preciso consultar o preço desse produto antes de colocar no carrinho."
	case errors.Is(err, ErrInsufficientStock):
		return "Não temos essa quantidade em estoque agora. Posso colocar a quantidade disponível?"
	case errors.Is(err, stock.ErrUnavailable):
		return rules.UnavailableMessage
	}
	return rules.UserMessage(err)
}
