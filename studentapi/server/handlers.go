package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/studentstats/errors"
	"github.com/kbukum/studentstats/observability"
	"github.com/kbukum/studentstats/studentapi"
	"github.com/kbukum/studentstats/version"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/info", s.info)

	api := s.engine.Group("/api/v1")
	api.GET("/students", s.summary)
	api.GET("/students/pages/:index", s.page)
}

func (s *Server) health(c *gin.Context) {
	list := observability.HealthCheckFunc(func(context.Context) observability.Health {
		return observability.Health{
			Name:   "students",
			Status: observability.HealthStatusUp,
			Details: map[string]string{
				"students": strconv.Itoa(s.list.NumStudents()),
				"pages":    strconv.Itoa(s.list.NumPages()),
			},
		}
	})
	h := observability.Check(c.Request.Context(), s.service, version.Get().Short(), list)

	status := http.StatusOK
	if h.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": s.service,
		"version": version.Get(),
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) summary(c *gin.Context) {
	RespondOK(c, Summary{Students: s.list.NumStudents(), Pages: s.list.NumPages()})
}

func (s *Server) page(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondWithError(c, apperrors.InvalidInput("index", "page index must be an integer"))
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanPageServe)
	defer span.End()
	span.SetAttributes(observability.AttrPage.Int(index))

	ctx, cancel := context.WithTimeout(ctx, s.config.PageTimeout)
	defer cancel()

	students, err := s.list.Page(ctx, index)
	if err != nil {
		observability.SetSpanError(ctx, err)
		RespondWithError(c, s.pageError(index, err))
		return
	}

	records := make([]studentapi.Record, len(students))
	for i, st := range students {
		records[i] = studentapi.RecordOf(st)
	}
	RespondOKWithMeta(c, records, &Meta{
		Page:       index,
		PageSize:   len(records),
		Total:      s.list.NumStudents(),
		TotalPages: s.list.NumPages(),
	})
}

func (s *Server) pageError(index int, err error) *apperrors.AppError {
	switch {
	case errors.Is(err, studentapi.ErrPageOutOfRange):
		return apperrors.PageNotFound(index)
	case studentapi.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("student page").WithDetail("page", index).WithCause(err)
	default:
		return apperrors.Wrap(err)
	}
}
