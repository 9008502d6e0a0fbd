// Package service реализует бизнес-логику сервиса краудфандинга.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abdev500/lendahand/internal/lifecycle"
	"github.com/abdev500/lendahand/internal/model"
	"github.com/abdev500/lendahand/internal/repository"
	"github.com/abdev500/lendahand/internal/stripe"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPermissionDenied возвращается, когда у наблюдателя нет прав на операцию.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDonationsClosed возвращается при попытке пожертвовать в кампанию,
	// которая не одобрена или не готова принимать платежи.
	ErrDonationsClosed = errors.New("campaign is not accepting donations")
	// ErrPaymentNotCompleted возвращается при подтверждении неоплаченной сессии.
	ErrPaymentNotCompleted = errors.New("payment not completed")
	// ErrStripeUnavailable возвращается, когда платёжный провайдер не настроен.
	ErrStripeUnavailable = errors.New("payment provider is not configured")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, email string, passwordHash []byte) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash []byte) error

	GetStripeAccount(ctx context.Context, userID int64) (model.StripeAccount, error)
	UpsertStripeAccount(ctx context.Context, a model.StripeAccount) error
	GetAccountsForRefresh(ctx context.Context, limit int) ([]model.StripeAccount, error)

	CreateCampaign(ctx context.Context, c *model.Campaign) error
	GetCampaign(ctx context.Context, id string) (*model.Campaign, error)
	ListCampaignsByStatus(ctx context.Context, statuses []model.CampaignStatus) ([]model.Campaign, error)
	ListCampaignsByOwner(ctx context.Context, userID int64) ([]model.Campaign, error)
	UpdateCampaignContent(ctx context.Context, id string, from model.CampaignStatus, title, description string, targetAmount int64, resetStatus bool) (*model.Campaign, error)
	TransitionCampaign(ctx context.Context, id string, from, to model.CampaignStatus, setNotes bool, notes string, action string, moderatorID *int64) error
	ListModerationRecords(ctx context.Context, campaignID string) ([]model.ModerationRecord, error)

	CreateCheckoutSession(ctx context.Context, s model.CheckoutSession) error
	GetCheckoutSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
	ConfirmDonation(ctx context.Context, sessionID string) (bool, error)
	ListDonationsByCampaign(ctx context.Context, campaignID string) ([]model.Donation, error)

	CreatePasswordReset(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	ConsumePasswordReset(ctx context.Context, token string) (int64, error)

	CreateNews(ctx context.Context, n *model.NewsPost) error
	GetNews(ctx context.Context, id int64) (*model.NewsPost, error)
	ListNews(ctx context.Context, publishedOnly bool) ([]model.NewsPost, error)
	UpdateNews(ctx context.Context, id int64, title, body string, published bool) error
	DeleteNews(ctx context.Context, id int64) error
}

// CampaignView объединяет кампанию с вычисленными правами наблюдателя и
// готовностью платёжного аккаунта владельца. Обработчики отдают права
// клиенту как есть и не выводят их из статуса заново.
type CampaignView struct {
	Campaign    model.Campaign
	StripeReady bool
	Permissions lifecycle.Permissions
}

// Service содержит бизнес-логику сервиса краудфандинга.
type Service struct {
	repo              Repository
	stripeClient      *stripe.Client
	checkoutReturnURL string
}

// NewService создаёт новый сервис с указанным репозиторием и клиентом
// платёжного провайдера.
func NewService(repo Repository, stripeClient *stripe.Client, checkoutReturnURL string) *Service {
	return &Service{
		repo:              repo,
		stripeClient:      stripeClient,
		checkoutReturnURL: checkoutReturnURL,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser регистрирует нового пользователя.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*model.User, error) {
	hashed := hashPassword(email, password)
	id, err := s.repo.CreateUser(ctx, email, hashed)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

// AuthenticateUser проверяет логин и пароль пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	hashed := hashPassword(email, password)
	if hex.EncodeToString(hashed) != hex.EncodeToString(u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func hashPassword(email, password string) []byte {
	sum := sha256.Sum256([]byte(email + ":" + password))
	return sum[:]
}

const passwordResetTTL = 24 * time.Hour

// RequestPasswordReset создаёт одноразовый токен сброса пароля.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.repo.CreatePasswordReset(ctx, token, u.ID, time.Now().Add(passwordResetTTL)); err != nil {
		return "", err
	}

	return token, nil
}

// ConfirmPasswordReset устанавливает новый пароль по токену сброса.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.repo.ConsumePasswordReset(ctx, token)
	if err != nil {
		return err
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, hashPassword(u.Email, newPassword))
}

// GetStripeStatus возвращает состояние платёжного аккаунта пользователя.
// Если аккаунт существует, снимок обновляется у провайдера; при недоступности
// провайдера возвращается последнее сохранённое состояние.
func (s *Service) GetStripeStatus(ctx context.Context, userID int64) (model.StripeAccount, bool, error) {
	acc, err := s.repo.GetStripeAccount(ctx, userID)
	if err != nil {
		return model.StripeAccount{}, false, err
	}

	if acc.HasAccount && s.stripeClient != nil {
		if refreshed, refreshErr := s.refreshAccount(ctx, acc); refreshErr == nil {
			acc = refreshed
		}
	}

	return acc, lifecycle.AccountReady(acc), nil
}

// StartStripeOnboarding создаёт платёжный аккаунт при необходимости и
// возвращает ссылку онбординга у провайдера.
func (s *Service) StartStripeOnboarding(ctx context.Context, userID int64) (string, error) {
	if s.stripeClient == nil {
		return "", ErrStripeUnavailable
	}

	acc, err := s.repo.GetStripeAccount(ctx, userID)
	if err != nil {
		return "", err
	}

	if !acc.HasAccount {
		u, err := s.repo.GetUserByID(ctx, userID)
		if err != nil {
			return "", err
		}

		accountID, err := s.stripeClient.CreateAccount(ctx, u.Email)
		if err != nil {
			return "", err
		}

		acc = model.StripeAccount{
			UserID:     userID,
			AccountID:  accountID,
			HasAccount: true,
		}
		if err := s.repo.UpsertStripeAccount(ctx, acc); err != nil {
			return "", err
		}
	}

	return s.stripeClient.CreateOnboardingLink(ctx, acc.AccountID, s.checkoutReturnURL)
}

func (s *Service) refreshAccount(ctx context.Context, acc model.StripeAccount) (model.StripeAccount, error) {
	status, err := s.stripeClient.GetAccountStatus(ctx, acc.AccountID)
	if err != nil {
		return acc, err
	}

	acc.ChargesEnabled = status.ChargesEnabled
	acc.PayoutsEnabled = status.PayoutsEnabled
	acc.DetailsSubmitted = status.DetailsSubmitted
	acc.RequirementsDue = status.RequirementsDue

	if err := s.repo.UpsertStripeAccount(ctx, acc); err != nil {
		return acc, err
	}

	return acc, nil
}

// StartAccountUpdates запускает фоновый процесс обновления состояния
// платёжных аккаунтов у провайдера.
func (s *Service) StartAccountUpdates(ctx context.Context) {
	if s.stripeClient == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refreshAccountsBatch(ctx)
			}
		}
	}()
}

func (s *Service) refreshAccountsBatch(ctx context.Context) {
	accounts, err := s.repo.GetAccountsForRefresh(ctx, 100)
	if err != nil {
		return
	}

	for _, acc := range accounts {
		_, _ = s.refreshAccount(ctx, acc)
	}
}

func (s *Service) actorFor(viewer model.Viewer, c *model.Campaign) lifecycle.Actor {
	return lifecycle.Actor{
		Owner:     viewer.UserID != 0 && viewer.UserID == c.CreatedBy,
		Moderator: viewer.CanModerate(),
	}
}

func (s *Service) view(ctx context.Context, c *model.Campaign, viewer model.Viewer) (*CampaignView, error) {
	acc, err := s.repo.GetStripeAccount(ctx, c.CreatedBy)
	if err != nil {
		return nil, err
	}

	ready := lifecycle.AccountReady(acc)
	return &CampaignView{
		Campaign:    *c,
		StripeReady: ready,
		Permissions: lifecycle.Resolve(c.Status, ready, s.actorFor(viewer, c)),
	}, nil
}

// CreateCampaign создаёт кампанию. При submit кампания сразу отправляется
// на модерацию, иначе остаётся черновиком.
func (s *Service) CreateCampaign(ctx context.Context, viewer model.Viewer, title, description string, targetAmount int64, submit bool) (*CampaignView, error) {
	status := model.StatusDraft
	if submit {
		status = model.StatusPending
	}

	c := &model.Campaign{
		ID:           uuid.NewString(),
		CreatedBy:    viewer.UserID,
		Title:        title,
		Description:  description,
		TargetAmount: targetAmount,
		Status:       status,
	}

	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}

	created, err := s.repo.GetCampaign(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return s.view(ctx, created, viewer)
}

// GetCampaign возвращает кампанию с правами наблюдателя. Неодобренные
// кампании видны только владельцу и модераторам; для остальных кампания
// не существует.
func (s *Service) GetCampaign(ctx context.Context, viewer model.Viewer, id string) (*CampaignView, error) {
	c, err := s.loadCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	actor := s.actorFor(viewer, c)
	if c.Status != model.StatusApproved && !actor.Owner && !actor.Moderator {
		return nil, repository.ErrCampaignNotFound
	}

	return s.view(ctx, c, viewer)
}

func (s *Service) loadCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrCampaignNotFound
	}
	return s.repo.GetCampaign(ctx, id)
}

// ListPublicCampaigns возвращает одобренные кампании для публичного каталога.
func (s *Service) ListPublicCampaigns(ctx context.Context, viewer model.Viewer) ([]CampaignView, error) {
	campaigns, err := s.repo.ListCampaignsByStatus(ctx, []model.CampaignStatus{model.StatusApproved})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, campaigns, viewer)
}

// ListOwnCampaigns возвращает кампании наблюдателя для личного кабинета.
func (s *Service) ListOwnCampaigns(ctx context.Context, viewer model.Viewer) ([]CampaignView, error) {
	campaigns, err := s.repo.ListCampaignsByOwner(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, campaigns, viewer)
}

// ListModerationQueue возвращает кампании, ожидающие решения модератора.
func (s *Service) ListModerationQueue(ctx context.Context, viewer model.Viewer) ([]CampaignView, error) {
	if !viewer.CanModerate() {
		return nil, ErrPermissionDenied
	}

	campaigns, err := s.repo.ListCampaignsByStatus(ctx, []model.CampaignStatus{model.StatusPending, model.StatusSuspended})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, campaigns, viewer)
}

func (s *Service) views(ctx context.Context, campaigns []model.Campaign, viewer model.Viewer) ([]CampaignView, error) {
	res := make([]CampaignView, 0, len(campaigns))
	for i := range campaigns {
		v, err := s.view(ctx, &campaigns[i], viewer)
		if err != nil {
			return nil, err
		}
		res = append(res, *v)
	}
	return res, nil
}

// UpdateCampaign изменяет содержимое кампании владельца. Изменение
// одобренной или отклонённой кампании возвращает её на модерацию и
// стирает комментарий модератора.
func (s *Service) UpdateCampaign(ctx context.Context, viewer model.Viewer, id, title, description string, targetAmount int64) (*CampaignView, error) {
	c, err := s.loadCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	actor := s.actorFor(viewer, c)
	perms := lifecycle.Resolve(c.Status, false, actor)
	if !perms.CanEdit {
		if actor.Owner || actor.Moderator {
			return nil, ErrPermissionDenied
		}
		return nil, repository.ErrCampaignNotFound
	}

	updated, err := s.repo.UpdateCampaignContent(ctx, c.ID, c.Status, title, description, targetAmount, lifecycle.EditResetsStatus(c.Status))
	if err != nil {
		return nil, err
	}

	return s.view(ctx, updated, viewer)
}

// ApplyAction применяет действие жизненного цикла к кампании от имени
// наблюдателя: submit, approve, reject, suspend, resume или cancel.
func (s *Service) ApplyAction(ctx context.Context, viewer model.Viewer, id string, action lifecycle.Action, notes string) (*CampaignView, error) {
	c, err := s.loadCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	actor := s.actorFor(viewer, c)
	if !actor.Owner && !actor.Moderator && c.Status != model.StatusApproved {
		return nil, repository.ErrCampaignNotFound
	}

	acc, err := s.repo.GetStripeAccount(ctx, c.CreatedBy)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Apply(c.Status, action, actor, lifecycle.AccountReady(acc), notes)
	if err != nil {
		return nil, err
	}

	// Комментарий модератора фиксируется на approve/reject и стирается
	// при повторной отправке на модерацию.
	setNotes := action == lifecycle.ActionApprove || action == lifecycle.ActionReject || action == lifecycle.ActionSubmit
	if action == lifecycle.ActionSubmit {
		notes = ""
	}

	var moderatorID *int64
	if viewer.CanModerate() && !actor.Owner {
		moderatorID = &viewer.UserID
	}

	if err := s.repo.TransitionCampaign(ctx, c.ID, c.Status, next, setNotes, notes, string(action), moderatorID); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetCampaign(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return s.view(ctx, updated, viewer)
}

// GetModerationHistory возвращает историю модерации кампании. История
// доступна владельцу и модераторам.
func (s *Service) GetModerationHistory(ctx context.Context, viewer model.Viewer, id string) ([]model.ModerationRecord, error) {
	c, err := s.loadCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	actor := s.actorFor(viewer, c)
	if !actor.Owner && !actor.Moderator {
		return nil, ErrPermissionDenied
	}

	return s.repo.ListModerationRecords(ctx, c.ID)
}

// CreateDonationCheckout создаёт платёжную сессию для пожертвования.
// Кампания должна быть одобрена, а аккаунт владельца готов к приёму платежей.
func (s *Service) CreateDonationCheckout(ctx context.Context, campaignID string, amountCents int64) (sessionID, url string, err error) {
	if s.stripeClient == nil {
		return "", "", ErrStripeUnavailable
	}

	c, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return "", "", err
	}

	acc, err := s.repo.GetStripeAccount(ctx, c.CreatedBy)
	if err != nil {
		return "", "", err
	}

	if !lifecycle.DonationsOpen(c.Status, lifecycle.AccountReady(acc)) {
		return "", "", ErrDonationsClosed
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, c.ID, amountCents, s.checkoutReturnURL)
	if err != nil {
		return "", "", err
	}

	err = s.repo.CreateCheckoutSession(ctx, model.CheckoutSession{
		SessionID:  session.ID,
		CampaignID: c.ID,
		Amount:     amountCents,
	})
	if err != nil {
		return "", "", err
	}

	return session.ID, session.URL, nil
}

// ConfirmDonation подтверждает пожертвование по платёжной сессии после
// возврата с оплаты. Повторное подтверждение той же сессии равносильно
// успеху: пожертвование не задваивается и ошибкой не считается.
func (s *Service) ConfirmDonation(ctx context.Context, campaignID, sessionID string) error {
	session, err := s.repo.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.CampaignID != campaignID {
		return repository.ErrSessionNotFound
	}

	if session.Confirmed {
		return nil
	}

	if s.stripeClient == nil {
		return ErrStripeUnavailable
	}

	remote, err := s.stripeClient.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !remote.Paid() {
		return ErrPaymentNotCompleted
	}

	_, err = s.repo.ConfirmDonation(ctx, sessionID)
	return err
}

// ListDonations возвращает пожертвования кампании. Список подчиняется
// той же видимости, что и сама кампания.
func (s *Service) ListDonations(ctx context.Context, viewer model.Viewer, campaignID string) ([]model.Donation, error) {
	c, err := s.loadCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	actor := s.actorFor(viewer, c)
	if c.Status != model.StatusApproved && !actor.Owner && !actor.Moderator {
		return nil, repository.ErrCampaignNotFound
	}

	return s.repo.ListDonationsByCampaign(ctx, c.ID)
}

// CreateNews создаёт новость. Операция доступна только сотрудникам.
func (s *Service) CreateNews(ctx context.Context, viewer model.Viewer, title, body string, published bool) (*model.NewsPost, error) {
	if !viewer.Staff {
		return nil, ErrPermissionDenied
	}

	authorID := viewer.UserID
	n := &model.NewsPost{
		Title:     title,
		Body:      body,
		Published: published,
		AuthorID:  &authorID,
	}

	if err := s.repo.CreateNews(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// GetNews возвращает новость. Неопубликованные новости видны только сотрудникам.
func (s *Service) GetNews(ctx context.Context, viewer model.Viewer, id int64) (*model.NewsPost, error) {
	n, err := s.repo.GetNews(ctx, id)
	if err != nil {
		return nil, err
	}

	if !n.Published && !viewer.Staff {
		return nil, repository.ErrNewsNotFound
	}

	return n, nil
}

// ListNews возвращает новости. Сотрудники видят и неопубликованные.
func (s *Service) ListNews(ctx context.Context, viewer model.Viewer) ([]model.NewsPost, error) {
	return s.repo.ListNews(ctx, !viewer.Staff)
}

// UpdateNews изменяет новость. Операция доступна только сотрудникам.
func (s *Service) UpdateNews(ctx context.Context, viewer model.Viewer, id int64, title, body string, published bool) (*model.NewsPost, error) {
	if !viewer.Staff {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.UpdateNews(ctx, id, title, body, published); err != nil {
		return nil, err
	}
	return s.repo.GetNews(ctx, id)
}

// DeleteNews удаляет новость. Операция доступна только сотрудникам.
func (s *Service) DeleteNews(ctx context.Context, viewer model.Viewer, id int64) error {
	if !viewer.Staff {
		return ErrPermissionDenied
	}
	return s.repo.DeleteNews(ctx, id)
}

// ProviderErrorMessage извлекает сообщение провайдера из цепочки ошибок,
// чтобы обработчики показывали его пользователю дословно.
func ProviderErrorMessage(err error) (string, bool) {
	var apiErr *stripe.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	return "", false
}
