package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/middleware"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/render"
)

// DisorderList is the body of GET /api/v1/disorders and the gene search.
type DisorderList struct {
	Count     int               `json:"count"`
	Disorders []domain.Disorder `json:"disorders"`
}

// SnapshotMessage is the single message sent on /ws/disorders.
type SnapshotMessage struct {
	Type      string            `json:"type"`
	LoadedAt  time.Time         `json:"loaded_at"`
	Disorders []domain.Disorder `json:"disorders"`
}

const maxCardWidth = 240

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"records":   s.provider.Len(),
		"loaded_at": s.provider.LoadedAt(),
		"timestamp": time.Now().UTC(),
		"version":   s.configManager.GetConfig().MCP.ServerVersion,
		"cache":     s.renders.Stats(),
	})
}

// notModified sets Last-Modified and reports whether the client copy is
// current. The catalog never changes after load, so LoadedAt is exact.
func (s *Server) notModified(c *gin.Context) bool {
	loaded := s.provider.LoadedAt().UTC().Truncate(time.Second)
	c.Header("Last-Modified", loaded.Format(http.TimeFormat))

	since := c.GetHeader("If-Modified-Since")
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil || loaded.After(t) {
		return false
	}
	c.Status(http.StatusNotModified)
	return true
}

func (s *Server) handlePage(c *gin.Context) {
	if s.notModified(c) {
		return
	}

	s.writeRendered(c, "page:html", "text/html; charset=utf-8", func() (string, error) {
		var buf bytes.Buffer
		err := render.HTML(&buf, render.Page{
			Title:       s.title,
			Cards:       render.Compose(s.provider.Records()),
			GeneratedAt: s.provider.LoadedAt(),
		})
		return buf.String(), err
	})
}

// writeRendered serves the render cached under key, computing it on a miss.
func (s *Server) writeRendered(c *gin.Context, key, contentType string, compute func() (string, error)) {
	out, err := s.renders.GetOrCompute(key, compute)
	if err != nil {
		s.internalError(c, "Failed to render cards", err)
		return
	}
	c.Data(http.StatusOK, contentType, []byte(out))
}

func (s *Server) handleListDisorders(c *gin.Context) {
	if s.notModified(c) {
		return
	}
	records := s.provider.Records()
	c.JSON(http.StatusOK, DisorderList{Count: len(records), Disorders: records})
}

func (s *Server) handleGetDisorder(c *gin.Context) {
	d, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleGetGenes(c *gin.Context) {
	d, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"disorder_id": d.ID,
		"count":       len(d.Genes),
		"genes":       d.Genes,
	})
}

// lookup resolves the :id parameter by identifier or by name, writing a 404
// when nothing matches.
func (s *Server) lookup(c *gin.Context) (domain.Disorder, bool) {
	key := c.Param("id")
	d, err := s.provider.Lookup(key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			middleware.AbortWithError(c, http.StatusNotFound, domain.ErrNotFoundCode, "disorder not found", key)
			return domain.Disorder{}, false
		}
		s.internalError(c, "Disorder lookup failed", err)
		return domain.Disorder{}, false
	}
	return d, true
}

func (s *Server) handleFindByGene(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput, "query parameter q is required", "")
		return
	}
	matches := s.provider.FindByGene(q)
	c.JSON(http.StatusOK, DisorderList{Count: len(matches), Disorders: matches})
}

func (s *Server) handleCards(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "text"))

	width := render.DefaultWidth
	if raw := c.Query("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w <= 0 || w > maxCardWidth {
			middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput,
				fmt.Sprintf("width must be an integer between 1 and %d", maxCardWidth), raw)
			return
		}
		width = w
	}

	switch format {
	case "text":
		s.writeRendered(c, fmt.Sprintf("cards:text:%d", width), "text/plain; charset=utf-8", func() (string, error) {
			return render.Text(render.Compose(s.provider.Records()), render.TextOptions{Width: width}), nil
		})
	case "markdown":
		s.writeRendered(c, "cards:markdown", "text/markdown; charset=utf-8", func() (string, error) {
			return render.Markdown(s.title, render.Compose(s.provider.Records())), nil
		})
	case "json":
		c.JSON(http.StatusOK, render.Compose(s.provider.Records()))
	default:
		middleware.AbortWithError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"format must be one of text, markdown, json", format)
	}
}

// handleSnapshotSocket sends the loaded catalog once and closes normally.
// There are no further updates to stream.
func (s *Server) handleSnapshotSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	for records := range s.provider.Watch(c.Request.Context()) {
		msg := SnapshotMessage{Type: "snapshot", LoadedAt: s.provider.LoadedAt(), Disorders: records}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.WithError(err).Warn("Failed to write catalog snapshot")
			return
		}
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "catalog sent")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		s.logger.WithError(err).Debug("Failed to send close frame")
	}
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.logger.WithFields(logrus.Fields{
		"correlation_id": c.GetString(middleware.CorrelationKey),
		"error":          err.Error(),
	}).Error(msg)
	middleware.AbortWithError(c, http.StatusInternalServerError, domain.ErrInternalServer, msg, "")
}
