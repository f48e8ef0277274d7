package api

import (
	"net/http"
	"strconv"

	"statkit/domain/core"
	"statkit/domain/dataset"
	"statkit/domain/stats"
	"statkit/internal/analysis/descriptive"
	"statkit/internal/analysis/frequency"
	"statkit/internal/analysis/regression"
	"statkit/internal/analysis/timeseries"
	"statkit/internal/analysis/variance"
	"statkit/internal/errors"
	"statkit/ports"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

func resultView(res *stats.Result) gin.H {
	return gin.H{
		"id":         res.ID(),
		"kind":       res.Kind(),
		"created_at": res.CreatedAt(),
		"report":     res.Report(),
	}
}

// stored answers a successful analysis and announces it to event subscribers
func (s *Server) stored(c *gin.Context, res *stats.Result) {
	s.events.Publish(res)
	c.JSON(http.StatusCreated, resultView(res))
}

func (s *Server) respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	c.JSON(errors.HTTPStatus(err), gin.H{"error": appErr.Error(), "code": appErr.Code})
}

// readBody returns the raw request body and its decoded "data" member
func (s *Server) readBody(c *gin.Context) ([]byte, any, bool) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read request body"))
		return nil, nil, false
	}
	data, err := decodeData(body)
	if err != nil {
		s.respondError(c, err)
		return nil, nil, false
	}
	return body, data, true
}

func (s *Server) resultID(c *gin.Context) (core.ID, bool) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}

func (s *Server) handleFrequency(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read request body"))
		return
	}
	req := frequency.Request{
		Column:    gjson.GetBytes(body, "column").String(),
		Normalize: gjson.GetBytes(body, "normalize").Bool(),
	}
	if method := gjson.GetBytes(body, "method"); method.Exists() {
		m, err := frequency.ParseMethod(method.String())
		if err != nil {
			s.respondError(c, err)
			return
		}
		req.Normalize = m == frequency.MethodRelative
	}
	data, err := decodeData(body)
	if err != nil {
		s.respondError(c, err)
		return
	}

	res, err := s.service.Frequency(c.Request.Context(), data, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.stored(c, res)
}

func (s *Server) handleTimeSeries(c *gin.Context) {
	body, data, ok := s.readBody(c)
	if !ok {
		return
	}
	ts, err := timestamps(body, "timestamps")
	if err != nil {
		s.respondError(c, err)
		return
	}
	req := timeseries.Request{
		Column:     gjson.GetBytes(body, "column").String(),
		Timestamps: ts,
	}

	res, err := s.service.TimeSeries(c.Request.Context(), data, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.stored(c, res)
}

func (s *Server) handleTimeSeriesBatch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		s.respondError(c, errors.InvalidInput("request body is not valid JSON"))
		return
	}
	var series [][]float64
	for i, item := range gjson.GetBytes(body, "series").Array() {
		col, err := decodeColumn("series "+strconv.Itoa(i), item)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if col.Type == dataset.ColumnText {
			s.respondError(c, core.NewTypeMismatchError(col.Texts))
			return
		}
		series = append(series, col.Numbers)
	}
	if len(series) == 0 {
		s.respondError(c, core.ErrEmptyInput)
		return
	}

	results, err := s.service.TimeSeriesBatch(c.Request.Context(), series)
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]gin.H, len(results))
	for i, res := range results {
		s.events.Publish(res)
		views[i] = resultView(res)
	}
	c.JSON(http.StatusCreated, gin.H{"results": views})
}

func (s *Server) handleVariance(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read request body"))
		return
	}
	// The test is checked before the data so an unknown test is always
	// reported as such.
	test, err := variance.ParseTest(gjson.GetBytes(body, "test").String())
	if err != nil {
		s.respondError(c, err)
		return
	}
	data, err := decodeData(body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	req := variance.Request{
		Test:       test,
		GroupCol:   gjson.GetBytes(body, "group_col").String(),
		ValueCol:   gjson.GetBytes(body, "value_col").String(),
		SubjectCol: gjson.GetBytes(body, "subject_col").String(),
		Alpha:      gjson.GetBytes(body, "alpha").Float(),
	}

	res, err := s.service.Variance(c.Request.Context(), data, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.stored(c, res)
}

func (s *Server) handleRegression(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read request body"))
		return
	}
	method, err := regression.ParseMethod(gjson.GetBytes(body, "method").String())
	if err != nil {
		s.respondError(c, err)
		return
	}
	data, err := decodeData(body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	req := regression.Request{
		Method: method,
		XCols:  stringList(body, "x_cols"),
		YCol:   gjson.GetBytes(body, "y_col").String(),
		Degree: int(gjson.GetBytes(body, "degree").Int()),
	}

	res, err := s.service.Regression(c.Request.Context(), data, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.stored(c, res)
}

func (s *Server) handleDescriptive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read request body"))
		return
	}
	method, err := descriptive.ParseMethod(gjson.GetBytes(body, "method").String())
	if err != nil {
		s.respondError(c, err)
		return
	}
	data, err := decodeData(body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	req := descriptive.Request{
		Method:   method,
		ValueCol: gjson.GetBytes(body, "value_col").String(),
		Window:   int(gjson.GetBytes(body, "window").Int()),
	}

	res, err := s.service.Descriptive(c.Request.Context(), data, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.stored(c, res)
}

func (s *Server) handleSummaryByColumn(c *gin.Context) {
	_, data, ok := s.readBody(c)
	if !ok {
		return
	}
	summaries, err := s.service.SummaryByColumn(c.Request.Context(), data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]gin.H, len(summaries))
	for i, cs := range summaries {
		out[i] = gin.H{
			"column": cs.Column,
			"count":  cs.Count,
			"mean":   stats.Float(cs.Mean),
			"std":    stats.Float(cs.Std),
			"min":    stats.Float(cs.Min),
			"q1":     stats.Float(cs.Q1),
			"median": stats.Float(cs.Median),
			"q3":     stats.Float(cs.Q3),
			"max":    stats.Float(cs.Max),
		}
	}
	c.JSON(http.StatusOK, gin.H{"columns": out})
}

func (s *Server) handleListResults(c *gin.Context) {
	filter := ports.ResultFilter{Kind: stats.Kind(c.Query("kind"))}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.respondError(c, errors.InvalidInput("limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	results, err := s.service.Results(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	views := make([]gin.H, len(results))
	for i, res := range results {
		views[i] = resultView(res)
	}
	c.JSON(http.StatusOK, gin.H{"results": views, "count": len(views)})
}

func (s *Server) handleGetResult(c *gin.Context) {
	id, ok := s.resultID(c)
	if !ok {
		return
	}
	res, err := s.service.Result(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultView(res))
}

func (s *Server) handleDeleteResult(c *gin.Context) {
	id, ok := s.resultID(c)
	if !ok {
		return
	}
	if err := s.service.DeleteResult(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEffectSize(c *gin.Context) {
	id, ok := s.resultID(c)
	if !ok {
		return
	}
	effect, err := s.service.EffectSize(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, effect.Report())
}

func (s *Server) handleFrequencies(c *gin.Context) {
	id, ok := s.resultID(c)
	if !ok {
		return
	}
	view := c.Param("column")
	freqs, err := s.service.Frequencies(c.Request.Context(), id, view)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":   view,
		"values": freqs.Values,
		"counts": freqs.Counts,
	})
}

func (s *Server) handleTrend(c *gin.Context) {
	_, data, ok := s.readBody(c)
	if !ok {
		return
	}
	slope, intercept, err := timeseries.Trend(data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slope": stats.Float(slope), "intercept": stats.Float(intercept)})
}

func (s *Server) handleSeasonality(c *gin.Context) {
	body, data, ok := s.readBody(c)
	if !ok {
		return
	}
	period, err := timeseries.Seasonality(data, gjson.GetBytes(body, "period").Float())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": stats.Float(period)})
}

func (s *Server) handleAutocorrelation(c *gin.Context) {
	body, data, ok := s.readBody(c)
	if !ok {
		return
	}
	lag := 1
	if v := gjson.GetBytes(body, "lag"); v.Exists() {
		lag = int(v.Int())
	}
	value, err := timeseries.Autocorrelation(data, lag)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lag": lag, "autocorrelation": stats.Float(value)})
}
