package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tokenlens/internal/chain"
	"tokenlens/internal/service"
	"tokenlens/internal/token"
)

type TokenAnalyzer interface {
	Analyze(ctx context.Context, req service.AnalysisRequest) (service.AnalysisResult, error)
}

type QueryTokenHandler struct {
	Service TokenAnalyzer
	Chains  *chain.Registry
	Logger  *zap.Logger
}

func (h *QueryTokenHandler) Register(r *gin.Engine) {
	r.POST("/api/query-token", h.queryToken)
}

type queryTokenRequest struct {
	ContractAddress string `json:"contract_address"`
	Blockchain      string `json:"blockchain"`
	AnalysisType    string `json:"analysis_type"`
}

type queryTokenData struct {
	TokenInfo       *string             `json:"tokenInfo,omitempty"`
	TwitterAnalysis *token.SocialSignal `json:"twitterAnalysis,omitempty"`
	BasicInfo       *token.TokenProfile `json:"basicInfo,omitempty"`
	Blockchain      string              `json:"blockchain"`
	ContractAddress string              `json:"contractAddress"`
}

// @Summary Aggregate token info for a contract address
// @Tags token
// @Accept json
// @Param body body queryTokenRequest true "query"
// @Success 200 {object} apiResponse
// @Failure 400 {object} apiResponse
// @Router /api/query-token [post]
func (h *QueryTokenHandler) queryToken(c *gin.Context) {
	if h.Service == nil {
		Fail(c, http.StatusInternalServerError, "service unavailable")
		return
	}

	var req queryTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.ContractAddress = strings.TrimSpace(req.ContractAddress)
	if req.ContractAddress == "" {
		Fail(c, http.StatusBadRequest, "Contract address is required")
		return
	}
	if _, err := h.Chains.Lookup(req.Blockchain); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid blockchain specified")
		return
	}
	if err := chain.ValidateAddress(req.Blockchain, req.ContractAddress); err != nil {
		Fail(c, http.StatusBadRequest, "Invalid contract address for blockchain")
		return
	}

	analysisType := strings.ToLower(strings.TrimSpace(req.AnalysisType))
	if analysisType == "" {
		analysisType = service.AnalysisTypeBasic
	}
	if analysisType != service.AnalysisTypeBasic && analysisType != service.AnalysisTypeAI {
		Fail(c, http.StatusBadRequest, "Invalid analysis type specified")
		return
	}

	result, err := h.Service.Analyze(c.Request.Context(), service.AnalysisRequest{
		ContractAddress: req.ContractAddress,
		Blockchain:      strings.ToUpper(strings.TrimSpace(req.Blockchain)),
		AnalysisType:    analysisType,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("token analysis failed",
				zap.String("contract_address", req.ContractAddress),
				zap.Error(err),
			)
		}
		if errors.Is(err, service.ErrQueryLogFailed) {
			Fail(c, http.StatusInternalServerError, "Failed to log query, cannot store results.")
			return
		}
		Fail(c, http.StatusInternalServerError, "token analysis failed")
		return
	}

	profile := result.Profile
	OK(c, queryTokenData{
		TokenInfo:       result.AISummary,
		TwitterAnalysis: result.Social,
		BasicInfo:       &profile,
		Blockchain:      req.Blockchain,
		ContractAddress: req.ContractAddress,
	}, nil)
}
