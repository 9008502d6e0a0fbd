// Package model содержит доменные сущности сервиса краудфандинга.
package model

import "time"

// User представляет зарегистрированного пользователя платформы.
type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	IsModerator  bool
	IsStaff      bool
	CreatedAt    time.Time
}

// Viewer описывает аутентифицированного наблюдателя запроса.
// Заполняется middleware авторизации из claims токена один раз на запрос.
type Viewer struct {
	UserID    int64
	Moderator bool
	Staff     bool
}

// CanModerate сообщает, обладает ли наблюдатель правами модератора.
// Флаг staff включает в себя возможности модератора.
func (v Viewer) CanModerate() bool {
	return v.Moderator || v.Staff
}

// CampaignStatus описывает статус модерации кампании.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusPending   CampaignStatus = "pending"
	StatusApproved  CampaignStatus = "approved"
	StatusRejected  CampaignStatus = "rejected"
	StatusSuspended CampaignStatus = "suspended"
	StatusCancelled CampaignStatus = "cancelled"
)

// Campaign описывает кампанию по сбору пожертвований.
// Денежные суммы хранятся в центах.
type Campaign struct {
	ID              string
	CreatedBy       int64
	Title           string
	Description     string
	TargetAmount    int64
	CurrentAmount   int64
	Status          CampaignStatus
	ModerationNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ModerationRecord описывает одну запись истории модерации кампании.
// ModeratorID равен nil для действий владельца и для удалённых модераторов.
type ModerationRecord struct {
	ID          int64
	CampaignID  string
	Action      string
	ModeratorID *int64
	Notes       string
	CreatedAt   time.Time
}

// StripeAccount — снимок состояния платёжного аккаунта пользователя.
// RequirementsDue приходит от провайдера как есть и не интерпретируется.
type StripeAccount struct {
	UserID           int64
	AccountID        string
	HasAccount       bool
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	RequirementsDue  []string
	UpdatedAt        time.Time
}

// Donation описывает подтверждённое пожертвование. Пожертвования анонимны
// и после создания не изменяются.
type Donation struct {
	ID         int64
	CampaignID string
	Amount     int64
	CreatedAt  time.Time
}

// CheckoutSession описывает платёжную сессию, созданную у провайдера.
type CheckoutSession struct {
	SessionID  string
	CampaignID string
	Amount     int64
	Confirmed  bool
	CreatedAt  time.Time
}

// NewsPost описывает новость платформы.
type NewsPost struct {
	ID        int64
	Title     string
	Body      string
	Published bool
	AuthorID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
