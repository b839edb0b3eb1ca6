package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campaign-enricher/internal/models"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
)

// enrich treats the raw request body as the event's body string.
func (s *Server) enrich(c *gin.Context) {
	body, err := s.readBody(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(err.Error()))
		return
	}

	text := string(body)
	s.execute(c, &ecd.Input{Body: &text, Source: ecd.SourceHTTP})
}

// event accepts the full serverless-style event {"body": "..."}.
func (s *Server) event(c *gin.Context) {
	var input ecd.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(err.Error()))
		return
	}
	input.Source = ecd.SourceEvent
	s.execute(c, &input)
}

func (s *Server) execute(c *gin.Context, input *ecd.Input) {
	input.RequestID = requestID(c)

	output, err := s.executor.Execute(c.Request.Context(), input)
	if output == nil {
		msg := "Internal server error"
		if err != nil {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(msg))
		return
	}
	c.JSON(output.StatusCode, output.Response)
}

func (s *Server) readBody(c *gin.Context) ([]byte, error) {
	reader := io.Reader(c.Request.Body)
	if s.config.MaxBodyBytes > 0 {
		reader = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
	}
	return io.ReadAll(reader)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readiness(c *gin.Context) {
	if err := s.ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
