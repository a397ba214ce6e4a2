package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"channel_sync/internal/domain"
)

type stateResponse struct {
	Boot       domain.BootState `json:"boot"`
	Sync       domain.SyncState `json:"sync"`
	HasContent bool             `json:"hasContent"`
	LoggedIn   bool             `json:"loggedIn"`
	NewVideos  int              `json:"newVideos"`
}

type retryResponse struct {
	FromCache   bool  `json:"fromCache"`
	Fetched     bool  `json:"fetched"`
	Videos      int   `json:"videos"`
	Shorts      int   `json:"shorts"`
	NewItems    int   `json:"newItems"`
	ViewsRaised int   `json:"viewsRaised"`
	DurationMS  int64 `json:"durationMs"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) state(c *gin.Context) {
	syncState := domain.SyncIdle
	if s.sync != nil {
		syncState = s.sync.State()
	}
	respond(c, http.StatusOK, stateResponse{
		Boot:       s.channel.BootState(),
		Sync:       syncState,
		HasContent: s.channel.HasContent(),
		LoggedIn:   s.isAdmin(c),
		NewVideos:  len(s.channel.NewVideoIDs()),
	})
}

// retry repeats a failed or slow first load. It is a no-op once the remote document is loaded.
func (s *Server) retry(c *gin.Context) {
	stats, err := s.channel.Retry(s.baseCtx)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, retryResponse{
		FromCache:   stats.FromCache,
		Fetched:     stats.Fetched,
		Videos:      stats.Videos,
		Shorts:      stats.Shorts,
		NewItems:    stats.NewItems,
		ViewsRaised: stats.ViewsRaised,
		DurationMS:  stats.Duration.Milliseconds(),
	})
}

func (s *Server) getChannel(c *gin.Context) {
	doc := s.channel.Document()
	if !s.isAdmin(c) {
		doc.FeedbackSyncSettings.Token = ""
	}
	respond(c, http.StatusOK, doc)
}

func (s *Server) listVideos(c *gin.Context) {
	var playlistID int64
	if raw := c.Query("playlist"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid playlist id")
			return
		}
		playlistID = id
	}

	videos, err := s.channel.Videos(c.Query("q"), playlistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, videos)
}

func (s *Server) listShorts(c *gin.Context) {
	respond(c, http.StatusOK, s.channel.Shorts())
}

func (s *Server) listNotifications(c *gin.Context) {
	respond(c, http.StatusOK, s.channel.Notifications())
}

func (s *Server) newVideos(c *gin.Context) {
	respond(c, http.StatusOK, s.channel.NewVideoIDs())
}

func (s *Server) dismissNewVideos(c *gin.Context) {
	if err := s.channel.DismissNotifications(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (s *Server) recordView(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	views, err := s.channel.RecordView(c.Request.Context(), c.GetString(visitorKey), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "views": views})
}

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	item, err := s.channel.SubmitFeedback(c.Request.Context(), req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := s.channel.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": http.StatusUnauthorized,
			"msg":  "invalid username or password",
		})
		return
	}
	respond(c, http.StatusOK, gin.H{"token": s.sessions.open()})
}

func (s *Server) isAdmin(c *gin.Context) bool {
	return s.sessions.valid(bearerToken(c)) && s.channel.LoggedIn()
}
