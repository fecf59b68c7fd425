package restapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/simdex/simdex/search"
	st "github.com/simdex/simdex/settings"
)

// SearchResponse is the payload of a search call.
type SearchResponse struct {
	Results []FCResponse `json:"results"`
}

type searchErrLogLine struct {
	Time    string `json:"time"`
	QueryID string `json:"query_id"`
	Engine  string `json:"engine"`
	Error   string `json:"error"`
}

// GetSearch runs a search engine over the corpus from a stored query
// collection. Query parameters: limit, scan_limit, threshold, filter (may be
// given more than once), omit_fc.
func (srv *Server) GetSearch(c *gin.Context) {
	req := search.Request{
		QueryID:   c.Param("cid"),
		Engine:    c.Param("engine"),
		Limit:     clampLimit(intQuery(c, "limit", st.Search.APIDefaultResultLimit)),
		ScanLimit: intQuery(c, "scan_limit", 0),
		Threshold: clampThreshold(floatQuery(c, "threshold", 0)),
	}
	if filters, ok := c.GetQueryArray("filter"); ok {
		req.Filters = filters
	}

	results, err := srv.searcher.Search(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, search.ErrQueryNotFound), errors.Is(err, search.ErrUnknownEngine):
		JSONError(c, 404, "search failed", err)
		return
	case errors.Is(err, search.ErrUnknownFilter):
		JSONError(c, 400, "search failed", err)
		return
	default:
		logSearchErr(req, err)
		JSONError(c, 500, "search failed", err)
		return
	}

	omitFC := c.Query("omit_fc") == "1"
	response := SearchResponse{Results: []FCResponse{}}
	for _, candidate := range results {
		result := FCResponse{ContentID: candidate.ID}
		if !omitFC {
			result.FC = candidate.FC
		}
		response.Results = append(response.Results, result)
	}
	writeJSON(c, 200, response)
}

// GetSearchEngines lists the engine names accepted by GetSearch.
func (srv *Server) GetSearchEngines(c *gin.Context) {
	writeJSON(c, 200, []string{search.EngineIndexScan, search.EngineRandom})
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > st.Search.APIMaxResultLimit {
		return st.Search.APIMaxResultLimit
	}
	return limit
}

func clampThreshold(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// logSearchErr tracks failed searches in their own log file, they usually
// mean a backend is unwell rather than a bad request.
func logSearchErr(req search.Request, searchErr error) {
	line, err := json.Marshal(searchErrLogLine{
		Time:    time.Now().Format(time.RFC3339),
		QueryID: req.QueryID,
		Engine:  req.Engine,
		Error:   searchErr.Error(),
	})
	if err != nil {
		st.Logger.Warn().Err(err).Msg(fmt.Sprintf("could not marshal search error log line for query %s", req.QueryID))
		return
	}
	st.ChLogSearchErr <- line
}
