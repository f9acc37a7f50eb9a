package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"metasecure-core/internal/handler/response"
	"metasecure-core/internal/session"
	"metasecure-core/pkg/config"
	"metasecure-core/pkg/errno"
)

// SessionHandler exposes the wallet session over HTTP.
type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Connect godoc
// @Summary Connect the wallet session
// @Description Prompts the wallet for account access and adopts the first authorized account
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session/connect [post]
func (h *SessionHandler) Connect(c *gin.Context) {
	if err := h.manager.Connect(c.Request.Context()); err != nil {
		if errors.Is(err, errno.ErrProviderUnavailable) && isMobile(c.GetHeader("User-Agent")) {
			// No injected wallet on a mobile browser: hand back a deep
			// link that reopens the dApp inside a wallet app.
			response.ErrorWithData(c, err, gin.H{
				"deep_link": config.Global.Wallet.DeepLinkBase + c.Request.Host,
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, h.sessionView())
}

// Get godoc
// @Summary Current session state
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	response.Success(c, h.sessionView())
}

// Disconnect godoc
// @Summary Disconnect the wallet session
// @Description Local reset only; wallet-side permissions are untouched
// @Tags session
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/session [delete]
func (h *SessionHandler) Disconnect(c *gin.Context) {
	h.manager.Disconnect()
	response.Success(c, h.sessionView())
}

func (h *SessionHandler) sessionView() gin.H {
	return gin.H{
		"state":   h.manager.State(),
		"account": h.manager.Account(),
		"network": h.manager.Network(),
	}
}

var mobileMarkers = []string{"android", "iphone", "ipad", "mobile"}

func isMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}
