package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChatHandler proxies the eco-assistant prompt to a third-party
// text-generation API. The contract is deliberately thin: free-text message
// in, free-text reply out, and every upstream problem collapses into one
// generic error so no provider detail leaks to the client.
type ChatHandler struct {
	APIURL string
	APIKey string
	Client *http.Client
}

func NewChatHandler(apiURL, apiKey string) *ChatHandler {
	return &ChatHandler{
		APIURL: apiURL,
		APIKey: apiKey,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Ask handles POST /api/chat.
func (h *ChatHandler) Ask(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		respondError(c, http.StatusBadRequest, "Message is required")
		return
	}

	if h.APIURL == "" {
		logrus.Warn("chat request received but CHAT_API_URL is not configured")
		respondError(c, http.StatusBadGateway, "Chat assistant is unavailable")
		return
	}

	payload, _ := json.Marshal(gin.H{"message": strings.TrimSpace(body.Message)})
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.APIURL, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("build chat request failed")
		respondError(c, http.StatusBadGateway, "Chat assistant is unavailable")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		logrus.WithError(err).Error("chat upstream request failed")
		respondError(c, http.StatusBadGateway, "Chat assistant is unavailable")
		return
	}
	defer resp.Body.Close()

	var upstream struct {
		Reply string `json:"reply"`
	}
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&upstream) != nil || upstream.Reply == "" {
		logrus.WithField("status", resp.StatusCode).Error("chat upstream returned an unusable response")
		respondError(c, http.StatusBadGateway, "Chat assistant is unavailable")
		return
	}

	respondData(c, http.StatusOK, gin.H{"reply": upstream.Reply})
}
