package http

import (
	"net/http"
	"strings"

	servicedto "github.com/Khrafts/uniswap-v1/internal/service/dto"
	"github.com/Khrafts/uniswap-v1/internal/transport/http/validate"
)

const (
	headerExactAmount = "X-Exact-Amount"
	headerRoute       = "X-Route"
)

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteRequestValidate(r)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	q, err := s.svc.Quote(ctx, servicedto.QuoteRequest{
		Src:       req.Src,
		Dst:       req.Dst,
		SrcAmount: req.SrcAmount,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	route := make([]string, 0, len(q.Route))
	for _, asset := range q.Route {
		route = append(route, asset.Hex())
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(headerExactAmount, q.Exact.String())
	w.Header().Set(headerRoute, strings.Join(route, ","))
	if _, err := w.Write([]byte(q.Amount.Dec())); err != nil {
		s.logger.Warn().Err(err).Msg("quote write error")
	}
}
