package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/transport/http/dto"
	"github.com/Khrafts/uniswap-v1/internal/transport/http/validate"
)

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.PriceRequestValidate(r)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	p, err := s.svc.Price(ctx, req.Asset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, dto.NewPriceResponse(p))
}

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	pools := s.svc.Pools(ctx)
	resp := make([]dto.PoolResponse, 0, len(pools))
	for _, p := range pools {
		resp = append(resp, dto.NewPoolResponse(p))
	}
	s.writeJSON(w, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("json write error")
	}
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPoolNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientLiquidity),
		errors.Is(err, apperrors.ErrDivisionByZero),
		errors.Is(err, apperrors.ErrOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal error", code)
		return
	}
	http.Error(w, err.Error(), code)
}
