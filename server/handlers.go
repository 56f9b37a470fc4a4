package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-generalize/golf-score-memo/arrow"
	"github.com/go-generalize/golf-score-memo/controller"
	"github.com/go-generalize/golf-score-memo/export"
	"github.com/go-generalize/golf-score-memo/model"
	"github.com/go-generalize/golf-score-memo/store"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StateResponse is the body of every controller endpoint
type StateResponse struct {
	controller.State
	Email string `json:"email"`
	Error string `json:"error,omitempty"`
}

func (s *Server) respond(c *gin.Context, err error) {
	res := StateResponse{
		State: s.controller.State(),
		Email: s.email,
	}
	if err == nil {
		c.JSON(http.StatusOK, res)
		return
	}

	res.Error = controller.Message(err)
	c.JSON(statusOf(err), res)
}

func statusOf(err error) int {
	switch {
	case xerrors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case xerrors.Is(err, controller.ErrInvalidTransition),
		xerrors.Is(err, controller.ErrRoundInProgress),
		xerrors.Is(err, controller.ErrNoRoundInProgress):
		return http.StatusConflict
	case xerrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// GET /api/state
func (s *Server) getState(c *gin.Context) {
	s.respond(c, nil)
}

// POST /api/logout
func (s *Server) logout(c *gin.Context) {
	if s.signOut == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "sign-out is not available"})
		return
	}

	s.signOut()
	s.logger.Info("session ended", zap.String("email", s.email))
	c.JSON(http.StatusOK, gin.H{"signedOut": true})
}

// POST /api/rounds
func (s *Server) newRound(c *gin.Context) {
	s.respond(c, s.controller.NewRound())
}

// DELETE /api/rounds/:id
func (s *Server) deleteRound(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		badRequest(c, "invalid id")
		return
	}
	s.respond(c, s.controller.DeleteRound(c.Request.Context(), id))
}

// PUT /api/setup
func (s *Server) updateSetup(c *gin.Context) {
	var req controller.RoundSetup
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	s.respond(c, s.controller.UpdateSetup(req))
}

// POST /api/setup/cancel
func (s *Server) cancelSetup(c *gin.Context) {
	s.respond(c, s.controller.CancelSetup())
}

// POST /api/play
func (s *Server) startPlay(c *gin.Context) {
	s.respond(c, s.controller.StartPlay(c.Request.Context()))
}

// POST /api/resume
func (s *Server) resume(c *gin.Context) {
	s.respond(c, s.controller.Resume())
}

// PATCH /api/hole
func (s *Server) editHole(c *gin.Context) {
	var req model.HoleEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	s.respond(c, s.controller.EditHole(req))
}

// POST /api/hole/save
func (s *Server) saveHole(c *gin.Context) {
	s.respond(c, s.controller.SaveHole(c.Request.Context()))
}

type navigateRequest struct {
	Direction controller.Direction `json:"direction" binding:"required"`
}

// POST /api/hole/navigate
func (s *Server) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	s.respond(c, s.controller.Navigate(req.Direction))
}

// POST /api/list
func (s *Server) showList(c *gin.Context) {
	s.respond(c, s.controller.ShowList())
}

func attachment(c *gin.Context, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", name, url.PathEscape(name)))
}

// GET /api/export.csv
func (s *Server) exportCSV(c *gin.Context) {
	name, data := s.controller.Export(s.now())

	attachment(c, name)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// GET /api/export.xlsx
func (s *Server) exportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, s.controller.Rounds()); err != nil {
		s.logger.Error("failed to build workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	attachment(c, export.XLSXFileName(s.now()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GET /api/arrow.svg?start=左15°&curve=右&size=40
func (s *Server) arrowSVG(c *gin.Context) {
	start := model.DirectionStart(c.Query("start"))
	curve := model.DirectionCurve(c.DefaultQuery("curve", string(model.CurveStraight)))

	size := 40
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			badRequest(c, "invalid size")
			return
		}
		size = n
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", []byte(arrow.PathFor(start, curve).SVG(size)))
}
