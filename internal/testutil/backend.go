package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lumen/internal/models"
)

// Credentials accepted by the fake backend.
const (
	TestEmail    = "asha@example.com"
	TestPassword = "correct-horse"
)

// FakeBackend is an in-memory stand-in for the Lumen REST API.
type FakeBackend struct {
	Server *httptest.Server
	Token  string

	mu           sync.Mutex
	profile      models.Profile
	userType     models.UserType
	transactions []models.Transaction
	notes        map[int64]string
	uploads      []string
	chatLog      map[int64][]models.ChatMessage
	nextChat     int64
	nextTx       int64
	statusFor    map[string]int
	calls        map[string]int
}

// NewFakeBackend starts a fake backend seeded with one consumer and a few
// transactions. It is shut down when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &FakeBackend{
		Token: SignedToken(t, "1", time.Hour),
		profile: models.Profile{
			ID:       1,
			Email:    TestEmail,
			Name:     "Asha Rao",
			Currency: "INR",
			IsActive: true,
		},
		userType:  models.UserTypeConsumer,
		notes:     make(map[int64]string),
		chatLog:   make(map[int64][]models.ChatMessage),
		statusFor: make(map[string]int),
		calls:     make(map[string]int),
		nextTx:    100,
	}
	b.transactions = SeedTransactions()

	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend root.
func (b *FakeBackend) URL() string { return b.Server.URL }

// FailWith makes every request to path answer with status.
func (b *FakeBackend) FailWith(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusFor[path] = status
}

// Calls returns how often path was requested.
func (b *FakeBackend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// Transactions returns a copy of the stored transactions.
func (b *FakeBackend) Transactions() []models.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Transaction(nil), b.transactions...)
}

// Uploads returns the names of uploaded files.
func (b *FakeBackend) Uploads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.uploads...)
}

// SeedTransactions returns six transactions over six days; the two most
// recent dates are 2025-11-06 (id 6) and 2025-11-05 (id 5). Ids 2 and 4 are
// flagged and unreviewed.
func SeedTransactions() []models.Transaction {
	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	score := 0.9
	txs := make([]models.Transaction, 0, 6)
	for i := 1; i <= 6; i++ {
		tx := models.Transaction{
			ID:             int64(i),
			Amount:         decimal.NewFromInt(int64(i * 100)),
			Currency:       "INR",
			Merchant:       fmt.Sprintf("Merchant %d", i),
			Category:       "Groceries",
			Date:           models.Time{Time: base.AddDate(0, 0, i-1)},
			PaymentChannel: "upi",
			SourceType:     "Upload",
		}
		if i == 2 || i == 4 {
			tx.Flagged = true
			tx.AnomalyScore = &score
			tx.AnomalyReason = "Amount is unusually high for this merchant"
		}
		txs = append(txs, tx)
	}
	// Out of date order on purpose.
	txs[0], txs[5] = txs[5], txs[0]
	return txs
}

func (b *FakeBackend) router() *gin.Engine {
	r := gin.New()
	r.Use(b.track)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0.0", "environment": "test", "timestamp": "2025-11-14T10:00:00"})
	})

	api := r.Group("/api/v1")
	api.POST("/auth/login", b.login)
	api.POST("/auth/register", b.register)
	api.POST("/users/upload-avatar", b.uploadAvatar)

	authed := api.Group("", b.requireToken)
	authed.POST("/auth/logout", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"}) })
	authed.GET("/users/me", b.me)
	authed.PATCH("/users/me", b.updateMe)
	authed.PATCH("/users/me/consent", b.updateConsent)
	authed.GET("/transactions/", b.listTransactions)
	authed.GET("/transactions/stats", b.stats)
	authed.GET("/transactions/:id", b.getTransaction)
	authed.POST("/transactions/:id/confirm", b.confirm)
	authed.GET("/anomalies/flagged", b.flagged)
	authed.GET("/anomalies/:id/explain", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Amount is 3x your usual spend at this merchant"})
	})
	authed.POST("/chat/session", b.createChat)
	authed.POST("/chat/message", b.sendChat)
	authed.GET("/chat/session/:id/history", b.chatHistory)
	authed.POST("/ingest/upload", b.upload)
	authed.GET("/ingest/gmail/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"connected": false, "consent_enabled": false, "message": "Gmail not connected"})
	})
	authed.POST("/ingest/gmail/connect", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Visit the URL to authorize", "oauth_url": "https://accounts.google.com/o/oauth2/auth?client_id=test"})
	})
	authed.POST("/ingest/gmail/sync", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "fetched": 2, "saved": 1, "message": "Synced 1 transaction"})
	})
	authed.POST("/ingest/manual/consumer", b.manualConsumer)
	authed.POST("/ingest/manual/business", b.manualBusiness)
	return r
}

func (b *FakeBackend) track(c *gin.Context) {
	b.mu.Lock()
	b.calls[c.Request.URL.Path]++
	status, fail := b.statusFor[c.Request.URL.Path]
	b.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(status, gin.H{"detail": http.StatusText(status)})
		return
	}
	c.Next()
}

func (b *FakeBackend) requireToken(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+b.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.Next()
}

func (b *FakeBackend) login(c *gin.Context) {
	var req models.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}
	b.mu.Lock()
	email := b.profile.Email
	b.mu.Unlock()
	if req.Email != email || req.Password != TestPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": b.Token, "token_type": "bearer", "user_id": 1, "user_type": req.UserType})
}

func (b *FakeBackend) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Email == b.profile.Email {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}
	b.profile = models.Profile{ID: 2, Email: req.Email, Name: req.Name, Phone: req.Phone, AvatarURL: req.AvatarURL, BusinessName: req.BusinessName, IsActive: true}
	b.userType = req.UserType
	c.JSON(http.StatusCreated, gin.H{"access_token": b.Token, "token_type": "bearer", "user_id": 2, "user_type": req.UserType})
}

func (b *FakeBackend) uploadAvatar(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": "/static/avatars/" + file.Filename})
}

func (b *FakeBackend) me(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.profile)
}

func (b *FakeBackend) updateMe(c *gin.Context) {
	var req models.ProfileUpdate
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Name != nil {
		b.profile.Name = *req.Name
	}
	if req.Phone != nil {
		b.profile.Phone = *req.Phone
	}
	if req.Location != nil {
		b.profile.Location = *req.Location
	}
	if req.AvatarURL != nil {
		b.profile.AvatarURL = *req.AvatarURL
	}
	c.JSON(http.StatusOK, b.profile)
}

func (b *FakeBackend) updateConsent(c *gin.Context) {
	var req models.ConsentUpdate
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Gmail != nil {
		b.profile.ConsentGmailIngest = *req.Gmail
	}
	if req.SMS != nil {
		b.profile.ConsentSMSIngest = *req.SMS
	}
	if req.UPI != nil {
		b.profile.ConsentUPIIngest = *req.UPI
	}
	if req.Whatsapp != nil {
		b.profile.ConsentWhatsappIngest = *req.Whatsapp
	}
	c.JSON(http.StatusOK, b.profile)
}

func (b *FakeBackend) listTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	flaggedOnly := c.Query("flagged_only") == "true"

	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Transaction
	for _, tx := range b.transactions {
		if !flaggedOnly || tx.Flagged {
			out = append(out, tx)
		}
	}
	total := len(out)
	out = window(out, offset, limit)
	c.JSON(http.StatusOK, models.TransactionPage{Transactions: out, Total: total, Limit: limit, Offset: offset})
}

func (b *FakeBackend) stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	b.mu.Lock()
	defer b.mu.Unlock()
	s := models.Stats{PeriodDays: days, PaymentChannels: map[string]int{}}
	total := decimal.Zero
	for _, tx := range b.transactions {
		s.TotalTransactions++
		total = total.Add(tx.Amount)
		s.PaymentChannels[tx.PaymentChannel]++
		if tx.Flagged {
			s.FlaggedCount++
		}
		if tx.Confirmed != nil {
			s.ConfirmedCount++
		} else {
			s.UnconfirmedCount++
		}
	}
	s.TotalAmount = total
	if s.TotalTransactions > 0 {
		s.AverageAmount = total.Div(decimal.NewFromInt(int64(s.TotalTransactions))).Round(2)
	}
	s.Categories = []models.CategoryTotal{{Category: "Groceries", Count: s.TotalTransactions, Total: total, Percentage: 100}}
	c.JSON(http.StatusOK, s)
}

func (b *FakeBackend) getTransaction(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.transactions {
		if tx.ID == id {
			c.JSON(http.StatusOK, tx)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Transaction not found"})
}

func (b *FakeBackend) confirm(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var req models.Confirmation
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.transactions {
		if b.transactions[i].ID != id {
			continue
		}
		confirmed := req.Confirmed
		b.transactions[i].Confirmed = &confirmed
		b.notes[id] = req.Notes
		msg := "Transaction confirmed as legitimate"
		if !confirmed {
			msg = "Transaction marked as fraudulent"
		}
		c.JSON(http.StatusOK, models.ConfirmResult{Success: true, TransactionID: id, Confirmed: confirmed, Flagged: b.transactions[i].Flagged, Message: msg})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Transaction not found"})
}

func (b *FakeBackend) flagged(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unconfirmedOnly := c.DefaultQuery("unconfirmed_only", "true") == "true"

	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Transaction
	pending := 0
	for _, tx := range b.transactions {
		if !tx.Flagged || (unconfirmedOnly && tx.Confirmed != nil) {
			continue
		}
		if tx.Confirmed == nil {
			pending++
		}
		out = append(out, tx)
	}
	total := len(out)
	out = window(out, offset, limit)
	c.JSON(http.StatusOK, models.FlaggedPage{Transactions: out, Total: total, PendingReview: pending})
}

func (b *FakeBackend) createChat(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextChat++
	c.JSON(http.StatusOK, gin.H{"session_id": b.nextChat, "started_at": "2025-11-14T10:00:00"})
}

func (b *FakeBackend) sendChat(c *gin.Context) {
	var req models.ChatRequest
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	sid := b.nextChat
	if req.SessionID != nil {
		sid = *req.SessionID
	}
	if sid == 0 {
		b.nextChat++
		sid = b.nextChat
	}
	answer := "You spent ₹2100 across 6 transactions."
	now := models.Time{Time: time.Date(2025, 11, 14, 10, 0, 0, 0, time.UTC)}
	msgs := b.chatLog[sid]
	msgs = append(msgs,
		models.ChatMessage{ID: int64(len(msgs) + 1), Role: "user", Content: req.Message, Timestamp: now},
		models.ChatMessage{ID: int64(len(msgs) + 2), Role: "assistant", Content: answer, Timestamp: now, Intent: "aggregate_query"},
	)
	b.chatLog[sid] = msgs
	c.JSON(http.StatusOK, models.ChatReply{
		SessionID:     sid,
		Response:      answer,
		Intent:        "aggregate_query",
		Confidence:    0.85,
		Provenance:    &models.Provenance{TransactionIDs: []int64{1, 2, 3}},
		RetrievedDocs: 3,
	})
}

func (b *FakeBackend) chatHistory(c *gin.Context) {
	sid, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	msgs, ok := b.chatLog[sid]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Chat session not found"})
		return
	}
	c.JSON(http.StatusOK, models.ChatHistory{SessionID: sid, Messages: msgs})
}

func (b *FakeBackend) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}
	if c.PostForm("source_type") != models.SourceTypeUpload {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid source type"})
		return
	}
	if strings.HasSuffix(file.Filename, ".exe") {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported file type"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, file.Filename)
	b.nextTx++
	txID := b.nextTx
	c.JSON(http.StatusOK, gin.H{
		"status": "success", "source_id": len(b.uploads), "transaction_id": txID,
		"ocr_confidence": 0.92, "message": "File processed successfully",
	})
}

func (b *FakeBackend) manualConsumer(c *gin.Context) {
	var req models.ManualConsumerEntry
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	b.saveManual(c, req.Amount, req.PaidTo, req.Category, req.Date, req.PaymentMethod)
}

func (b *FakeBackend) manualBusiness(c *gin.Context) {
	var req models.ManualBusinessEntry
	if err := decodeJSON(c, &req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	b.saveManual(c, req.Amount, req.PartyName, req.Category, req.Date, req.PaymentMethod)
}

func (b *FakeBackend) saveManual(c *gin.Context, amount decimal.Decimal, party, category string, date models.Time, channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextTx++
	tx := models.Transaction{
		ID:             b.nextTx,
		Amount:         amount,
		Currency:       "INR",
		Merchant:       party,
		Category:       category,
		Date:           date,
		PaymentChannel: channel,
		SourceType:     "Manual",
	}
	b.transactions = append(b.transactions, tx)
	c.JSON(http.StatusOK, models.ManualEntryResult{Success: true, Transaction: tx, Message: "Transaction saved"})
}

// decodeJSON reads the body without running binding validation; the
// backend's rules are not the client's.
func decodeJSON(c *gin.Context, v any) error {
	return json.NewDecoder(c.Request.Body).Decode(v)
}

func window(txs []models.Transaction, offset, limit int) []models.Transaction {
	if offset >= len(txs) {
		return []models.Transaction{}
	}
	txs = txs[offset:]
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}
