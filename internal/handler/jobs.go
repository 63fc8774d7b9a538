package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"farmledger/internal/apierror"
	"farmledger/internal/dto"
	"farmledger/internal/service"
	"farmledger/internal/worker"

	"github.com/gin-gonic/gin"
)

// JobsHandler triggers and inspects background jobs. dead is nil when the
// server runs without Redis.
type JobsHandler struct {
	feed service.FeedCostService
	dead *worker.DeadLetters
}

func NewJobsHandler(feed service.FeedCostService, dead *worker.DeadLetters) *JobsHandler {
	return &JobsHandler{feed: feed, dead: dead}
}

// RunFeedCost godoc
// @Summary Run the feed-cost allocator now
// @Description Each run charges one day of feed; a second run on the same day is flagged.
// @Tags jobs
// @Produce json
// @Success 200 {object} dto.FeedCostRunResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/jobs/feed-cost/run [post]
func (h *JobsHandler) RunFeedCost(c *gin.Context) {
	resp, err := h.feed.Run(c.Request.Context(), service.TriggerManual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobsHandler) ListFeedCostRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.feed.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EmailDeadLetters lists failed email jobs, newest first.
func (h *JobsHandler) EmailDeadLetters(c *gin.Context) {
	if h.dead == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("job queue unavailable"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ctx := c.Request.Context()
	total, err := h.dead.Len(ctx, worker.QueueEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.dead.List(ctx, worker.QueueEmail, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.DeadLetterListResponse{Total: total, Items: make([]dto.DeadLetterResponse, len(items))}
	for i, dl := range items {
		resp.Items[i] = dto.DeadLetterResponse{
			JobType: dl.JobType, Payload: dl.Payload, Reason: dl.Reason,
			FailedAt: dl.FailedAt, Attempts: dl.Attempts,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RequeueEmailDeadLetters puts every failed email job back on the queue.
func (h *JobsHandler) RequeueEmailDeadLetters(c *gin.Context) {
	if h.dead == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("job queue unavailable"))
		return
	}
	n, err := h.dead.Requeue(c.Request.Context(), worker.QueueEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RequeueResponse{Requeued: n})
}

// ReportsHandler serves file exports.
type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *ReportsHandler) Herd(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.WriteHerdReport(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="herd.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
