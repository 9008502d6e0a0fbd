// Package handler содержит HTTP-обработчики API сервиса краудфандинга.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abdev500/lendahand/internal/lifecycle"
	"github.com/abdev500/lendahand/internal/middleware"
	"github.com/abdev500/lendahand/internal/model"
	"github.com/abdev500/lendahand/internal/repository"
	"github.com/abdev500/lendahand/internal/service"
	"github.com/abdev500/lendahand/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, email, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error

	GetStripeStatus(ctx context.Context, userID int64) (model.StripeAccount, bool, error)
	StartStripeOnboarding(ctx context.Context, userID int64) (string, error)

	CreateCampaign(ctx context.Context, viewer model.Viewer, title, description string, targetAmount int64, submit bool) (*service.CampaignView, error)
	GetCampaign(ctx context.Context, viewer model.Viewer, id string) (*service.CampaignView, error)
	ListPublicCampaigns(ctx context.Context, viewer model.Viewer) ([]service.CampaignView, error)
	ListOwnCampaigns(ctx context.Context, viewer model.Viewer) ([]service.CampaignView, error)
	ListModerationQueue(ctx context.Context, viewer model.Viewer) ([]service.CampaignView, error)
	UpdateCampaign(ctx context.Context, viewer model.Viewer, id, title, description string, targetAmount int64) (*service.CampaignView, error)
	ApplyAction(ctx context.Context, viewer model.Viewer, id string, action lifecycle.Action, notes string) (*service.CampaignView, error)
	GetModerationHistory(ctx context.Context, viewer model.Viewer, id string) ([]model.ModerationRecord, error)

	CreateDonationCheckout(ctx context.Context, campaignID string, amountCents int64) (sessionID, url string, err error)
	ConfirmDonation(ctx context.Context, campaignID, sessionID string) error
	ListDonations(ctx context.Context, viewer model.Viewer, campaignID string) ([]model.Donation, error)

	CreateNews(ctx context.Context, viewer model.Viewer, title, body string, published bool) (*model.NewsPost, error)
	GetNews(ctx context.Context, viewer model.Viewer, id int64) (*model.NewsPost, error)
	ListNews(ctx context.Context, viewer model.Viewer) ([]model.NewsPost, error)
	UpdateNews(ctx context.Context, viewer model.Viewer, id int64, title, body string, published bool) (*model.NewsPost, error)
	DeleteNews(ctx context.Context, viewer model.Viewer, id int64) error
}

// Handler реализует HTTP-обработчики API сервиса краудфандинга.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func viewerFrom(r *http.Request) model.Viewer {
	viewer, _ := middleware.GetViewerFromContext(r.Context())
	return viewer
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError переводит ошибки нижних слоёв в HTTP-статусы. Ошибки
// провайдера отдаются с извлечённым сообщением, прочие неожиданные
// ошибки логируются и скрываются за 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	case errors.Is(err, repository.ErrUserExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email is already registered"})
	case errors.Is(err, service.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "you do not have permission to do that"})
	case errors.Is(err, repository.ErrCampaignNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrNewsNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, repository.ErrStatusChanged):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "action is not available in the current status"})
	case errors.Is(err, lifecycle.ErrStripeNotReady):
		writeJSON(w, http.StatusPreconditionFailed, errorResponse{Error: "owner's payment account is not ready"})
	case errors.Is(err, service.ErrDonationsClosed):
		writeJSON(w, http.StatusPreconditionFailed, errorResponse{Error: "campaign is not accepting donations"})
	case errors.Is(err, lifecycle.ErrNotesRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "moderation notes are required"})
	case errors.Is(err, repository.ErrResetInvalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reset link is invalid or expired"})
	case errors.Is(err, service.ErrPaymentNotCompleted):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "payment has not been completed"})
	case errors.Is(err, service.ErrStripeUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "payments are temporarily unavailable"})
	default:
		if msg, ok := service.ProviderErrorMessage(err); ok {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: msg})
			return
		}
		h.logger.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

type userResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	IsModerator bool   `json:"is_moderator"`
	IsStaff     bool   `json:"is_staff"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		IsModerator: u.IsModerator,
		IsStaff:     u.IsStaff,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if !validation.IsValidEmail(req.Email) || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	u, err := h.service.RegisterUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, err := h.authMiddleware.IssueToken(u.ID, u.IsModerator, u.IsStaff)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(u)})
}

// Login выполняет аутентификацию пользователя и выпуск токена сессии.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	u, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, err := h.authMiddleware.IssueToken(u.ID, u.IsModerator, u.IsStaff)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(u)})
}

// Logout завершает сессию. Токены не хранятся на сервере, поэтому
// операция сводится к подтверждению клиенту.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает профиль текущего пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	u, err := h.service.GetUser(r.Context(), viewer.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset создаёт токен сброса пароля. Ответ не раскрывает,
// зарегистрирован ли адрес.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is required"})
		return
	}

	token, err := h.service.RequestPasswordReset(r.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		h.writeError(w, err)
		return
	}

	if token != "" {
		// Почтовый шлюз не подключён: токен доступен оператору в логах.
		h.logger.Info("password reset token issued", zap.String("email", req.Email), zap.String("token", token))
	}

	w.WriteHeader(http.StatusNoContent)
}

type passwordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmPasswordReset устанавливает новый пароль по токену сброса.
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token and password are required"})
		return
	}

	if err := h.service.ConfirmPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type stripeStatusResponse struct {
	HasAccount       bool     `json:"has_account"`
	ChargesEnabled   bool     `json:"charges_enabled"`
	PayoutsEnabled   bool     `json:"payouts_enabled"`
	DetailsSubmitted bool     `json:"details_submitted"`
	RequirementsDue  []string `json:"requirements_due"`
	Ready            bool     `json:"ready"`
}

// StripeStatus возвращает состояние платёжного аккаунта текущего пользователя.
func (h *Handler) StripeStatus(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	acc, ready, err := h.service.GetStripeStatus(r.Context(), viewer.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	requirements := acc.RequirementsDue
	if requirements == nil {
		requirements = []string{}
	}

	writeJSON(w, http.StatusOK, stripeStatusResponse{
		HasAccount:       acc.HasAccount,
		ChargesEnabled:   acc.ChargesEnabled,
		PayoutsEnabled:   acc.PayoutsEnabled,
		DetailsSubmitted: acc.DetailsSubmitted,
		RequirementsDue:  requirements,
		Ready:            ready,
	})
}

// StripeOnboard начинает онбординг платёжного аккаунта и возвращает
// ссылку провайдера для перенаправления.
func (h *Handler) StripeOnboard(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	url, err := h.service.StartStripeOnboarding(r.Context(), viewer.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type campaignResponse struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	TargetAmount    float64               `json:"target_amount"`
	CurrentAmount   float64               `json:"current_amount"`
	Status          string                `json:"status"`
	StatusLabel     string                `json:"status_label"`
	StatusColor     string                `json:"status_color"`
	StripeReady     bool                  `json:"stripe_ready"`
	ModerationNotes string                `json:"moderation_notes,omitempty"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
	Permissions     lifecycle.Permissions `json:"permissions"`
}

func toCampaignResponse(v *service.CampaignView, viewer model.Viewer) campaignResponse {
	c := v.Campaign

	resp := campaignResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		TargetAmount:  float64(c.TargetAmount) / 100,
		CurrentAmount: float64(c.CurrentAmount) / 100,
		Status:        string(c.Status),
		StatusLabel:   lifecycle.StatusLabel(c.Status),
		StatusColor:   lifecycle.StatusColor(c.Status),
		StripeReady:   v.StripeReady,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.Format(time.RFC3339),
		Permissions:   v.Permissions,
	}

	// Комментарий модератора виден владельцу и модераторам.
	if viewer.CanModerate() || (viewer.UserID != 0 && viewer.UserID == c.CreatedBy) {
		resp.ModerationNotes = c.ModerationNotes
	}

	return resp
}

func toCampaignResponses(views []service.CampaignView, viewer model.Viewer) []campaignResponse {
	res := make([]campaignResponse, 0, len(views))
	for i := range views {
		res = append(res, toCampaignResponse(&views[i], viewer))
	}
	return res
}

type campaignRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetAmount string `json:"target_amount"`
	Submit       bool   `json:"submit"`
}

func (h *Handler) decodeCampaignRequest(w http.ResponseWriter, r *http.Request) (*campaignRequest, int64, bool) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return nil, 0, false
	}

	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return nil, 0, false
	}

	target, err := validation.ParseAmount(req.TargetAmount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target amount must be a positive number"})
		return nil, 0, false
	}

	return &req, target, true
}

// CreateCampaign создаёт кампанию текущего пользователя.
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	req, target, ok := h.decodeCampaignRequest(w, r)
	if !ok {
		return
	}

	view, err := h.service.CreateCampaign(r.Context(), viewerFrom(r), req.Title, req.Description, target, req.Submit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCampaignResponse(view, viewerFrom(r)))
}

// UpdateCampaign изменяет содержимое кампании.
func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	req, target, ok := h.decodeCampaignRequest(w, r)
	if !ok {
		return
	}

	view, err := h.service.UpdateCampaign(r.Context(), viewerFrom(r), chi.URLParam(r, "campaignID"), req.Title, req.Description, target)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignResponse(view, viewerFrom(r)))
}

// GetCampaign возвращает кампанию с правами текущего наблюдателя.
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	view, err := h.service.GetCampaign(r.Context(), viewer, chi.URLParam(r, "campaignID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignResponse(view, viewer))
}

// ListCampaigns возвращает публичный каталог одобренных кампаний.
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	views, err := h.service.ListPublicCampaigns(r.Context(), viewer)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignResponses(views, viewer))
}

// ListOwnCampaigns возвращает кампании текущего пользователя.
func (h *Handler) ListOwnCampaigns(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	views, err := h.service.ListOwnCampaigns(r.Context(), viewer)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignResponses(views, viewer))
}

// ModerationQueue возвращает кампании, ожидающие решения модератора.
func (h *Handler) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	viewer := viewerFrom(r)

	views, err := h.service.ListModerationQueue(r.Context(), viewer)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignResponses(views, viewer))
}

type actionRequest struct {
	Notes string `json:"notes"`
}

// campaignAction строит обработчик действия жизненного цикла кампании.
func (h *Handler) campaignAction(action lifecycle.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
				return
			}
		}

		viewer := viewerFrom(r)

		view, err := h.service.ApplyAction(r.Context(), viewer, chi.URLParam(r, "campaignID"), action, req.Notes)
		if err != nil {
			h.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCampaignResponse(view, viewer))
	}
}

type moderationRecordResponse struct {
	Action      string `json:"action"`
	ModeratorID *int64 `json:"moderator_id"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`
}

// ModerationHistory возвращает историю модерации кампании.
func (h *Handler) ModerationHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.GetModerationHistory(r.Context(), viewerFrom(r), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]moderationRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, moderationRecordResponse{
			Action:      rec.Action,
			ModeratorID: rec.ModeratorID,
			Notes:       rec.Notes,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type checkoutRequest struct {
	Amount string `json:"amount"`
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CreateDonationCheckout создаёт платёжную сессию для пожертвования.
// Сумма проверяется до обращения к провайдеру.
func (h *Handler) CreateDonationCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	amount, err := validation.ParseAmount(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "donation amount must be a positive number"})
		return
	}

	sessionID, url, err := h.service.CreateDonationCheckout(r.Context(), chi.URLParam(r, "campaignID"), amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{SessionID: sessionID, URL: url})
}

type confirmRequest struct {
	SessionID string `json:"session_id"`
}

// checkoutSessionPlaceholder — незаполненный шаблон провайдера в URL
// возврата; такой идентификатор не подтверждается.
const checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// ConfirmDonation подтверждает пожертвование после возврата с оплаты.
// Повторное подтверждение той же сессии отвечает успехом без задвоения.
func (h *Handler) ConfirmDonation(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.SessionID == "" || req.SessionID == checkoutSessionPlaceholder {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id is required"})
		return
	}

	if err := h.service.ConfirmDonation(r.Context(), chi.URLParam(r, "campaignID"), req.SessionID); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

type donationResponse struct {
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// ListDonations возвращает пожертвования кампании. Пожертвования анонимны.
func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.service.ListDonations(r.Context(), viewerFrom(r), chi.URLParam(r, "campaignID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]donationResponse, 0, len(donations))
	for _, d := range donations {
		resp = append(resp, donationResponse{
			Amount:    float64(d.Amount) / 100,
			CreatedAt: d.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type newsRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

type newsResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toNewsResponse(n *model.NewsPost) newsResponse {
	return newsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Published: n.Published,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}

func newsIDFrom(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "newsID"), 10, 64)
	return id, err == nil && id > 0
}

// CreateNews создаёт новость платформы.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	n, err := h.service.CreateNews(r.Context(), viewerFrom(r), req.Title, req.Body, req.Published)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNewsResponse(n))
}

// GetNews возвращает новость по идентификатору.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := newsIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	n, err := h.service.GetNews(r.Context(), viewerFrom(r), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNewsResponse(n))
}

// ListNews возвращает список новостей.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.service.ListNews(r.Context(), viewerFrom(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]newsResponse, 0, len(news))
	for i := range news {
		resp = append(resp, toNewsResponse(&news[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateNews изменяет новость.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := newsIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	var req newsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	n, err := h.service.UpdateNews(r.Context(), viewerFrom(r), id, req.Title, req.Body, req.Published)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNewsResponse(n))
}

// DeleteNews удаляет новость.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := newsIDFrom(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	if err := h.service.DeleteNews(r.Context(), viewerFrom(r), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
