package handler

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/classic-cipher-go/internal/auth"
	"github.com/classic-cipher-go/internal/cache"
	"github.com/classic-cipher-go/internal/config"
	"github.com/classic-cipher-go/internal/dao"
	"github.com/classic-cipher-go/internal/restart"
	"github.com/classic-cipher-go/internal/storage"
)

// APIHandler handles authentication, user management and the settings
// endpoints of the admin API. These endpoints follow the frontend
// convention of HTTP 200 with the error code in the body.
type APIHandler struct {
	mu       sync.Mutex
	scheme   config.SchemeConfig
	jwtAuth  *auth.JWTAuth
	userDAO  *dao.UserDAO
	store    *storage.Store
	settings *EngineSettings

	pipelines *cache.PipelineCache
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(scheme config.SchemeConfig, jwtAuth *auth.JWTAuth, userDAO *dao.UserDAO, store *storage.Store, settings *EngineSettings, pipelines *cache.PipelineCache) *APIHandler {
	return &APIHandler{
		scheme:    scheme,
		jwtAuth:   jwtAuth,
		userDAO:   userDAO,
		store:     store,
		settings:  settings,
		pipelines: pipelines,
	}
}

// Login handles POST /api/auth/login
func (h *APIHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAPIError(c, 400, "Invalid request")
		return
	}

	if err := h.userDAO.Validate(req.Username, req.Password); err != nil {
		RespondAPIError(c, 401, "user or password error")
		return
	}

	token, err := h.jwtAuth.GenerateToken(req.Username)
	if err != nil {
		RespondAPIError(c, 500, "Failed to generate token")
		return
	}

	RespondSuccess(c, gin.H{
		"token": token,
		"userInfo": gin.H{
			"username":   req.Username,
			"headImgUrl": "/public/logo.svg",
		},
	})
}

// GetUserInfo handles GET /api/user/info
func (h *APIHandler) GetUserInfo(c *gin.Context) {
	RespondSuccess(c, gin.H{
		"username":   c.GetString("username"),
		"headImgUrl": "/public/logo.svg",
		"version":    config.Version,
	})
}

// UpdatePasswd handles POST /api/user/passwd for the logged-in user
func (h *APIHandler) UpdatePasswd(c *gin.Context) {
	var req struct {
		Password    string `json:"password"`
		NewPassword string `json:"newpassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondAPIError(c, 400, "Invalid request")
		return
	}

	if len(req.NewPassword) < 8 {
		RespondAPIError(c, 400, "password too short, at least 8 characters")
		return
	}

	username := c.GetString("username")
	if err := h.userDAO.Validate(username, req.Password); err != nil {
		RespondAPIError(c, 401, "password error")
		return
	}

	if err := h.userDAO.UpdatePassword(username, req.NewPassword); err != nil {
		RespondAPIError(c, 500, err.Error())
		return
	}

	RespondSuccessMsg(c, "update success")
}

// GetConfig handles GET /api/config
func (h *APIHandler) GetConfig(c *gin.Context) {
	h.mu.Lock()
	scheme := h.scheme
	h.mu.Unlock()

	RespondSuccess(c, gin.H{
		"engine":  h.settings.Current(),
		"scheme":  scheme,
		"version": config.Version,
	})
}

// SaveConfig handles POST /api/config. The body is a raw map so partial
// updates work: absent keys keep their current value. Engine changes
// apply immediately; a scheme change persists, answers restart:true and
// then triggers a listener restart.
func (h *APIHandler) SaveConfig(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		RespondAPIError(c, 400, "Invalid request")
		return
	}

	if engineRaw, ok := raw["engine"].(map[string]interface{}); ok {
		engine := config.ParseEngineConfig(engineRaw, h.settings.Current()).Normalized()
		if err := h.store.SetJSON(storage.BucketConfig, storage.KeyEngineSettings, engine); err != nil {
			RespondAPIError(c, 500, err.Error())
			return
		}
		h.settings.Update(engine)
		// Cached pipelines carry the old chunk options.
		h.pipelines.Clear()
	}

	needRestart := false
	if schemeRaw, ok := raw["scheme"].(map[string]interface{}); ok {
		h.mu.Lock()
		scheme := config.ParseSchemeConfig(schemeRaw, h.scheme)
		if scheme != h.scheme {
			if err := h.store.SetJSON(storage.BucketConfig, storage.KeySchemeSettings, scheme); err != nil {
				h.mu.Unlock()
				RespondAPIError(c, 500, err.Error())
				return
			}
			h.scheme = scheme
			needRestart = true
		}
		h.mu.Unlock()
	}

	RespondSuccess(c, gin.H{"restart": needRestart})

	if needRestart {
		log.Info().Msg("Scheme configuration changed, restarting listeners")
		restart.Trigger()
	}
}
