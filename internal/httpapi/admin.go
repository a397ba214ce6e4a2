package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"channel_sync/internal/domain"
)

const maxImportSize = 10 << 20

type videoRequest struct {
	Title      string `json:"title"`
	YoutubeURL string `json:"youtubeUrl"`
}

type activityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type playlistRequest struct {
	Name string `json:"name"`
}

type playlistVideoRequest struct {
	VideoID int64 `json:"videoId"`
}

type logoRequest struct {
	Logo *string `json:"logo"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type subscriptionRequest struct {
	URL string `json:"url"`
}

type syncTokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) logout(c *gin.Context) {
	s.sessions.close()
	s.channel.Logout(c.Request.Context())
	respond(c, http.StatusOK, nil)
}

func (s *Server) addVideo(c *gin.Context) {
	s.addVideoItem(c, false)
}

func (s *Server) addShort(c *gin.Context) {
	s.addVideoItem(c, true)
}

func (s *Server) addVideoItem(c *gin.Context, short bool) {
	var req videoRequest
	if !bind(c, &req) {
		return
	}

	add := s.channel.AddVideo
	if short {
		add = s.channel.AddShort
	}
	item, err := add(c.Request.Context(), req.Title, req.YoutubeURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

func (s *Server) editVideo(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req videoRequest
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.EditVideo(c.Request.Context(), id, req.Title, req.YoutubeURL))
}

func (s *Server) deleteVideo(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.done(c, s.channel.DeleteVideo(c.Request.Context(), id))
}

func (s *Server) addActivity(c *gin.Context) {
	var req activityRequest
	if !bind(c, &req) {
		return
	}
	activity, err := s.channel.AddActivity(c.Request.Context(), req.Title, req.Description, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, activity)
}

func (s *Server) deleteActivity(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.done(c, s.channel.DeleteActivity(c.Request.Context(), id))
}

func (s *Server) createPlaylist(c *gin.Context) {
	var req playlistRequest
	if !bind(c, &req) {
		return
	}
	playlist, err := s.channel.CreatePlaylist(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, playlist)
}

func (s *Server) addToPlaylist(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req playlistVideoRequest
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.AddToPlaylist(c.Request.Context(), req.VideoID, id))
}

func (s *Server) setLogo(c *gin.Context) {
	var req logoRequest
	if !bind(c, &req) {
		return
	}
	if req.Logo != nil && !strings.HasPrefix(*req.Logo, "data:image/") {
		badRequest(c, "logo must be an image data uri")
		return
	}
	s.done(c, s.channel.SetChannelLogo(c.Request.Context(), req.Logo))
}

func (s *Server) setDescription(c *gin.Context) {
	var req descriptionRequest
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.SetChannelDescription(c.Request.Context(), req.Description))
}

func (s *Server) setSubscription(c *gin.Context) {
	var req subscriptionRequest
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.SetSubscriptionURL(c.Request.Context(), req.URL))
}

func (s *Server) setAds(c *gin.Context) {
	var req domain.AdSettings
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.SetAdSettings(c.Request.Context(), req))
}

func (s *Server) setCredentials(c *gin.Context) {
	var req domain.Credentials
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.SetCredentials(c.Request.Context(), req))
}

func (s *Server) configureSync(c *gin.Context) {
	var req syncTokenRequest
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.ConfigureSync(c.Request.Context(), req.Token))
}

func (s *Server) setFeedbackSync(c *gin.Context) {
	var req domain.FeedbackSyncSettings
	if !bind(c, &req) {
		return
	}
	s.done(c, s.channel.SetFeedbackSyncSettings(c.Request.Context(), req))
}

func (s *Server) deleteFeedback(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.done(c, s.channel.DeleteFeedback(c.Request.Context(), id))
}

func (s *Server) export(c *gin.Context) {
	data, filename, err := s.channel.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// importDocument accepts either a multipart upload in the "file" field or a raw JSON body.
func (s *Server) importDocument(c *gin.Context) {
	var reader io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "missing file")
			return
		}
		f, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()
		reader = f
	} else {
		reader = c.Request.Body
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxImportSize))
	if err != nil {
		badRequest(c, "could not read upload")
		return
	}
	s.done(c, s.channel.Import(c.Request.Context(), data))
}

func (s *Server) done(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "invalid request body")
		return false
	}
	return true
}
