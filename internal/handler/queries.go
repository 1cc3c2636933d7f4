package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tokenlens/internal/models"
	"tokenlens/internal/repository"
)

type QueryHistoryHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *QueryHistoryHandler) Register(r *gin.Engine) {
	r.GET("/api/queries", h.list)
}

type queryHistoryItem struct {
	Query   models.TokenQuery       `json:"query"`
	Records []models.AnalysisRecord `json:"records,omitempty"`
}

// @Summary List past token queries with their analysis records
// @Tags history
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Param blockchain query string false "filter by blockchain"
// @Param contract_address query string false "filter by contract address"
// @Param since query string false "RFC3339 lower bound"
// @Success 200 {object} apiResponse
// @Router /api/queries [get]
func (h *QueryHistoryHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Fail(c, http.StatusInternalServerError, "repo unavailable")
		return
	}

	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListTokenQueriesParams{
		Limit:  limit,
		Offset: offset,
	}
	if v := strings.TrimSpace(c.Query("blockchain")); v != "" {
		params.Blockchain = &v
	}
	if v := strings.TrimSpace(c.Query("contract_address")); v != "" {
		params.ContractAddress = &v
	}
	if v := strings.TrimSpace(c.Query("since")); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			t := ts.UTC()
			params.Since = &t
		}
	}

	queries, err := h.Repo.ListTokenQueries(c.Request.Context(), params)
	if err != nil {
		h.failStorage(c, "list token queries failed", err)
		return
	}
	total, err := h.Repo.CountTokenQueries(c.Request.Context(), params)
	if err != nil {
		h.failStorage(c, "count token queries failed", err)
		return
	}

	ids := make([]uint64, 0, len(queries))
	for _, q := range queries {
		ids = append(ids, q.ID)
	}
	records, err := h.Repo.ListAnalysisRecordsByQueryIDs(c.Request.Context(), ids)
	if err != nil {
		h.failStorage(c, "list analysis records failed", err)
		return
	}
	byQuery := make(map[uint64][]models.AnalysisRecord, len(queries))
	for _, rec := range records {
		byQuery[rec.QueryID] = append(byQuery[rec.QueryID], rec)
	}

	items := make([]queryHistoryItem, 0, len(queries))
	for _, q := range queries {
		items = append(items, queryHistoryItem{Query: q, Records: byQuery[q.ID]})
	}
	OK(c, items, paginationMeta(limit, offset, total))
}

// failStorage keeps storage detail out of the response body; the error goes
// to the log only.
func (h *QueryHistoryHandler) failStorage(c *gin.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, zap.Error(err))
	}
	Fail(c, http.StatusBadGateway, "Failed to read query history.")
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	return map[string]any{
		"limit":  limit,
		"offset": offset,
		"total":  total,
	}
}
