package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/application/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	domain "github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

func TestMitigation_CRUD(t *testing.T) {
	t.Parallel()
	reg := mitigation.MustNewRegistry(nil, nil)
	r := newTestEngine(NewMitigationHandler(reg, nil))
	seeded := reg.Len()

	w := do(r, "GET", "/api/v1/mitigation-strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Strategy](t, w).Data, seeded)

	w = do(r, "GET", "/api/v1/mitigation-strategies?risk_type="+string(dpr.RiskFinancial), nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, s := range decode[[]domain.Strategy](t, w).Data {
		assert.Equal(t, dpr.RiskFinancial, s.RiskType)
	}

	in := domain.Strategy{
		ID: "mit-escrow", RiskType: dpr.RiskFinancial, Title: "Escrow the state share",
		Effectiveness: 0.9, CostPercent: 1,
	}
	w = do(r, "POST", "/api/v1/mitigation-strategies", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "mit-escrow", decode[domain.Strategy](t, w).Data.ID)

	w = do(r, "POST", "/api/v1/mitigation-strategies", in)
	requireError(t, w, http.StatusConflict, string(apperrors.ErrCodeConflict))

	in.Effectiveness = 0.95
	in.ID = "ignored"
	w = do(r, "PUT", "/api/v1/mitigation-strategies/mit-escrow", in)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	upd := decode[domain.Strategy](t, w).Data
	assert.Equal(t, "mit-escrow", upd.ID)
	assert.Equal(t, 0.95, upd.Effectiveness)

	w = do(r, "GET", "/api/v1/mitigation-strategies/mit-escrow", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, "DELETE", "/api/v1/mitigation-strategies/mit-escrow", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, "GET", "/api/v1/mitigation-strategies/mit-escrow", nil)
	requireError(t, w, http.StatusNotFound, string(apperrors.ErrCodeStrategyNotFound))
	w = do(r, "DELETE", "/api/v1/mitigation-strategies/mit-escrow", nil)
	requireError(t, w, http.StatusNotFound, string(apperrors.ErrCodeStrategyNotFound))
}

func TestMitigation_CreateInvalid(t *testing.T) {
	t.Parallel()
	r := newTestEngine(NewMitigationHandler(mitigation.MustNewRegistry(nil, nil), nil))

	w := do(r, "POST", "/api/v1/mitigation-strategies", domain.Strategy{
		ID: "bad", RiskType: dpr.RiskFinancial, Title: "Too good", Effectiveness: 1.5,
	})
	requireError(t, w, http.StatusBadRequest, string(apperrors.ErrCodeStrategyInvalid))
}

//Personal.AI order the ending
