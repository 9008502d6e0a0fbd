// Package lifecycle реализует жизненный цикл кампании: таблицу переходов
// между статусами, платёжный гейт и вычисление прав доступа.
//
// Все проверки прав во всех слоях сервиса обязаны проходить через Resolve
// и Apply; дублирование проверок статуса по месту использования запрещено.
package lifecycle

import (
	"errors"
	"strings"

	"github.com/abdev500/lendahand/internal/model"
)

// Action — действие над кампанией из таблицы переходов.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionSuspend Action = "suspend"
	ActionResume  Action = "resume"
	ActionCancel  Action = "cancel"
)

// ErrInvalidTransition возвращается при попытке перехода, не разрешённого
// таблицей для текущего статуса и роли инициатора.
var (
	ErrInvalidTransition = errors.New("transition not allowed")
	// ErrStripeNotReady возвращается, когда переход заблокирован платёжным гейтом.
	ErrStripeNotReady = errors.New("stripe account not ready")
	// ErrNotesRequired возвращается при отклонении кампании без комментария.
	ErrNotesRequired = errors.New("moderation notes required")
)

// Actor описывает роли инициатора перехода относительно кампании.
type Actor struct {
	Owner     bool
	Moderator bool
}

type transition struct {
	to            model.CampaignStatus
	owner         bool
	moderator     bool
	requiresReady bool
	requiresNotes bool
}

// Таблица переходов. Отсутствие записи означает запрет перехода.
// Отмена недоступна из approved: активную кампанию владелец сначала
// приостанавливает.
var transitions = map[model.CampaignStatus]map[Action]transition{
	model.StatusDraft: {
		ActionSubmit: {to: model.StatusPending, owner: true},
		ActionCancel: {to: model.StatusCancelled, owner: true},
	},
	model.StatusPending: {
		ActionApprove: {to: model.StatusApproved, moderator: true, requiresReady: true},
		ActionReject:  {to: model.StatusRejected, moderator: true, requiresNotes: true},
		ActionCancel:  {to: model.StatusCancelled, owner: true},
	},
	model.StatusApproved: {
		ActionSuspend: {to: model.StatusSuspended, owner: true, moderator: true},
	},
	model.StatusSuspended: {
		ActionResume: {to: model.StatusApproved, moderator: true, requiresReady: true},
	},
	model.StatusRejected: {
		ActionSubmit: {to: model.StatusPending, owner: true},
		ActionCancel: {to: model.StatusCancelled, owner: true},
	},
	model.StatusCancelled: {
		ActionSubmit: {to: model.StatusPending, owner: true},
	},
}

// Apply проверяет допустимость действия и возвращает новый статус кампании.
// stripeReady относится к аккаунту владельца кампании, notes — к действию
// (обязательны только для reject).
func Apply(status model.CampaignStatus, action Action, actor Actor, stripeReady bool, notes string) (model.CampaignStatus, error) {
	tr, ok := transitions[status][action]
	if !ok {
		return status, ErrInvalidTransition
	}

	allowed := (tr.owner && actor.Owner) || (tr.moderator && actor.Moderator)
	if !allowed {
		return status, ErrInvalidTransition
	}

	if tr.requiresReady && !stripeReady {
		return status, ErrStripeNotReady
	}

	if tr.requiresNotes && strings.TrimSpace(notes) == "" {
		return status, ErrNotesRequired
	}

	return tr.to, nil
}

// AccountReady вычисляет платёжный гейт: аккаунт готов принимать
// пожертвования, только если провайдер включил приём платежей и выплаты
// и все данные поданы.
func AccountReady(a model.StripeAccount) bool {
	return a.HasAccount && a.ChargesEnabled && a.PayoutsEnabled && a.DetailsSubmitted
}

// Permissions — набор разрешённых действий и видимость кампании для
// конкретного наблюдателя.
type Permissions struct {
	CanEdit           bool `json:"can_edit"`
	CanSubmit         bool `json:"can_submit"`
	CanSuspend        bool `json:"can_suspend"`
	CanCancel         bool `json:"can_cancel"`
	CanApprove        bool `json:"can_approve"`
	CanReject         bool `json:"can_reject"`
	CanResume         bool `json:"can_resume"`
	IsPubliclyVisible bool `json:"is_publicly_visible"`
}

// Resolve вычисляет права наблюдателя для кампании в заданном статусе.
// Публичная видимость не зависит от наблюдателя. Для наблюдателя без ролей
// все флаги действий ложны.
func Resolve(status model.CampaignStatus, stripeReady bool, actor Actor) Permissions {
	p := Permissions{
		IsPubliclyVisible: status == model.StatusApproved,
	}

	allowed := func(action Action) bool {
		_, err := Apply(status, action, actor, stripeReady, "x")
		return err == nil
	}

	p.CanSubmit = allowed(ActionSubmit)
	p.CanSuspend = allowed(ActionSuspend)
	p.CanCancel = allowed(ActionCancel)
	p.CanApprove = allowed(ActionApprove)
	p.CanReject = allowed(ActionReject)
	p.CanResume = allowed(ActionResume)

	// Редактировать может только владелец и только пока кампания не отменена.
	p.CanEdit = actor.Owner && status != model.StatusCancelled

	return p
}

// EditResetsStatus сообщает, должно ли изменение содержимого кампании
// вернуть её на повторную модерацию со сбросом комментария модератора.
func EditResetsStatus(status model.CampaignStatus) bool {
	return status == model.StatusApproved || status == model.StatusRejected
}

// DonationsOpen сообщает, принимает ли кампания пожертвования.
func DonationsOpen(status model.CampaignStatus, stripeReady bool) bool {
	return status == model.StatusApproved && stripeReady
}

// ValidStatus проверяет, что строка является известным статусом кампании.
func ValidStatus(s model.CampaignStatus) bool {
	switch s {
	case model.StatusDraft, model.StatusPending, model.StatusApproved,
		model.StatusRejected, model.StatusSuspended, model.StatusCancelled:
		return true
	}
	return false
}

type statusMeta struct {
	Label string
	Color string
}

// Единая таблица отображения статусов, чтобы подписи и цвета не
// расходились между страницами.
var statusMetaByStatus = map[model.CampaignStatus]statusMeta{
	model.StatusDraft:     {Label: "Draft", Color: "gray"},
	model.StatusPending:   {Label: "Pending review", Color: "yellow"},
	model.StatusApproved:  {Label: "Active", Color: "green"},
	model.StatusRejected:  {Label: "Rejected", Color: "red"},
	model.StatusSuspended: {Label: "Suspended", Color: "orange"},
	model.StatusCancelled: {Label: "Cancelled", Color: "gray"},
}

// StatusLabel возвращает человекочитаемую подпись статуса.
func StatusLabel(s model.CampaignStatus) string {
	return statusMetaByStatus[s].Label
}

// StatusColor возвращает цветовой код статуса для интерфейса.
func StatusColor(s model.CampaignStatus) string {
	return statusMetaByStatus[s].Color
}
