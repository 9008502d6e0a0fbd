package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abdev500/lendahand/internal/lifecycle"
	"github.com/abdev500/lendahand/internal/model"
	"github.com/abdev500/lendahand/internal/repository"
	"github.com/abdev500/lendahand/internal/stripe"
)

type resetEntry struct {
	userID    int64
	expiresAt time.Time
	used      bool
}

// stubRepo реализует Repository в памяти для тестов сервиса.
type stubRepo struct {
	users     map[int64]*model.User
	emails    map[string]int64
	accounts  map[int64]model.StripeAccount
	campaigns map[string]*model.Campaign
	sessions  map[string]*model.CheckoutSession
	donations []model.Donation
	records   []model.ModerationRecord
	resets    map[string]*resetEntry
	news      map[int64]*model.NewsPost
	nextID    int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:     make(map[int64]*model.User),
		emails:    make(map[string]int64),
		accounts:  make(map[int64]model.StripeAccount),
		campaigns: make(map[string]*model.Campaign),
		sessions:  make(map[string]*model.CheckoutSession),
		resets:    make(map[string]*resetEntry),
		news:      make(map[int64]*model.NewsPost),
	}
}

func (r *stubRepo) Close() error { return nil }

func (r *stubRepo) CreateUser(_ context.Context, email string, passwordHash []byte) (int64, error) {
	if _, ok := r.emails[email]; ok {
		return 0, repository.ErrUserExists
	}
	r.nextID++
	r.users[r.nextID] = &model.User{ID: r.nextID, Email: email, PasswordHash: passwordHash}
	r.emails[email] = r.nextID
	return r.nextID, nil
}

func (r *stubRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	id, ok := r.emails[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := *r.users[id]
	return &u, nil
}

func (r *stubRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubRepo) UpdatePassword(_ context.Context, userID int64, passwordHash []byte) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubRepo) GetStripeAccount(_ context.Context, userID int64) (model.StripeAccount, error) {
	acc, ok := r.accounts[userID]
	if !ok {
		return model.StripeAccount{UserID: userID}, nil
	}
	return acc, nil
}

func (r *stubRepo) UpsertStripeAccount(_ context.Context, a model.StripeAccount) error {
	r.accounts[a.UserID] = a
	return nil
}

func (r *stubRepo) GetAccountsForRefresh(_ context.Context, limit int) ([]model.StripeAccount, error) {
	res := make([]model.StripeAccount, 0, len(r.accounts))
	for _, acc := range r.accounts {
		if acc.HasAccount && len(res) < limit {
			res = append(res, acc)
		}
	}
	return res, nil
}

func (r *stubRepo) CreateCampaign(_ context.Context, c *model.Campaign) error {
	cp := *c
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *stubRepo) GetCampaign(_ context.Context, id string) (*model.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, repository.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubRepo) ListCampaignsByStatus(_ context.Context, statuses []model.CampaignStatus) ([]model.Campaign, error) {
	var res []model.Campaign
	for _, c := range r.campaigns {
		for _, st := range statuses {
			if c.Status == st {
				res = append(res, *c)
			}
		}
	}
	return res, nil
}

func (r *stubRepo) ListCampaignsByOwner(_ context.Context, userID int64) ([]model.Campaign, error) {
	var res []model.Campaign
	for _, c := range r.campaigns {
		if c.CreatedBy == userID {
			res = append(res, *c)
		}
	}
	return res, nil
}

func (r *stubRepo) UpdateCampaignContent(_ context.Context, id string, from model.CampaignStatus, title, description string, targetAmount int64, resetStatus bool) (*model.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, repository.ErrCampaignNotFound
	}
	if c.Status != from {
		return nil, repository.ErrStatusChanged
	}
	c.Title = title
	c.Description = description
	c.TargetAmount = targetAmount
	if resetStatus {
		c.Status = model.StatusPending
		c.ModerationNotes = ""
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *stubRepo) TransitionCampaign(_ context.Context, id string, from, to model.CampaignStatus, setNotes bool, notes string, action string, moderatorID *int64) error {
	c, ok := r.campaigns[id]
	if !ok {
		return repository.ErrCampaignNotFound
	}
	if c.Status != from {
		return repository.ErrStatusChanged
	}
	c.Status = to
	if setNotes {
		c.ModerationNotes = notes
	}
	c.UpdatedAt = time.Now()
	r.records = append(r.records, model.ModerationRecord{
		CampaignID:  id,
		Action:      action,
		ModeratorID: moderatorID,
		Notes:       notes,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (r *stubRepo) ListModerationRecords(_ context.Context, campaignID string) ([]model.ModerationRecord, error) {
	var res []model.ModerationRecord
	for _, rec := range r.records {
		if rec.CampaignID == campaignID {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (r *stubRepo) CreateCheckoutSession(_ context.Context, s model.CheckoutSession) error {
	s.CreatedAt = time.Now()
	r.sessions[s.SessionID] = &s
	return nil
}

func (r *stubRepo) GetCheckoutSession(_ context.Context, sessionID string) (*model.CheckoutSession, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubRepo) ConfirmDonation(_ context.Context, sessionID string) (bool, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return false, repository.ErrSessionNotFound
	}
	if s.Confirmed {
		return true, nil
	}
	s.Confirmed = true
	r.donations = append(r.donations, model.Donation{
		CampaignID: s.CampaignID,
		Amount:     s.Amount,
		CreatedAt:  time.Now(),
	})
	if c, ok := r.campaigns[s.CampaignID]; ok {
		c.CurrentAmount += s.Amount
	}
	return false, nil
}

func (r *stubRepo) ListDonationsByCampaign(_ context.Context, campaignID string) ([]model.Donation, error) {
	var res []model.Donation
	for _, d := range r.donations {
		if d.CampaignID == campaignID {
			res = append(res, d)
		}
	}
	return res, nil
}

func (r *stubRepo) CreatePasswordReset(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	r.resets[token] = &resetEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *stubRepo) ConsumePasswordReset(_ context.Context, token string) (int64, error) {
	e, ok := r.resets[token]
	if !ok || e.used || time.Now().After(e.expiresAt) {
		return 0, repository.ErrResetInvalid
	}
	e.used = true
	return e.userID, nil
}

func (r *stubRepo) CreateNews(_ context.Context, n *model.NewsPost) error {
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	r.news[n.ID] = &cp
	return nil
}

func (r *stubRepo) GetNews(_ context.Context, id int64) (*model.NewsPost, error) {
	n, ok := r.news[id]
	if !ok {
		return nil, repository.ErrNewsNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *stubRepo) ListNews(_ context.Context, publishedOnly bool) ([]model.NewsPost, error) {
	var res []model.NewsPost
	for _, n := range r.news {
		if publishedOnly && !n.Published {
			continue
		}
		res = append(res, *n)
	}
	return res, nil
}

func (r *stubRepo) UpdateNews(_ context.Context, id int64, title, body string, published bool) error {
	n, ok := r.news[id]
	if !ok {
		return repository.ErrNewsNotFound
	}
	n.Title = title
	n.Body = body
	n.Published = published
	n.UpdatedAt = time.Now()
	return nil
}

func (r *stubRepo) DeleteNews(_ context.Context, id int64) error {
	if _, ok := r.news[id]; !ok {
		return repository.ErrNewsNotFound
	}
	delete(r.news, id)
	return nil
}

func readyAccount(userID int64) model.StripeAccount {
	return model.StripeAccount{
		UserID:           userID,
		AccountID:        "acct_test",
		HasAccount:       true,
		ChargesEnabled:   true,
		PayoutsEnabled:   true,
		DetailsSubmitted: true,
	}
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	if _, err := svc.RegisterUser(context.Background(), "user@example.com", "password"); err != nil {
		t.Fatalf("first register error: %v", err)
	}

	_, err := svc.RegisterUser(context.Background(), "user@example.com", "other")
	if err != repository.ErrUserExists {
		t.Fatalf("error = %v, want %v", err, repository.ErrUserExists)
	}
}

func TestAuthenticateUser(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	if _, err := svc.RegisterUser(context.Background(), "user@example.com", "password"); err != nil {
		t.Fatalf("register error: %v", err)
	}

	u, err := svc.AuthenticateUser(context.Background(), "user@example.com", "password")
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Fatalf("email = %q", u.Email)
	}

	if _, err := svc.AuthenticateUser(context.Background(), "user@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := svc.AuthenticateUser(context.Background(), "missing@example.com", "password"); err != ErrInvalidCredentials {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestPasswordReset(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	if _, err := svc.RegisterUser(context.Background(), "user@example.com", "old-password"); err != nil {
		t.Fatalf("register error: %v", err)
	}

	token, err := svc.RequestPasswordReset(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("request reset error: %v", err)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), token, "new-password"); err != nil {
		t.Fatalf("confirm reset error: %v", err)
	}

	if _, err := svc.AuthenticateUser(context.Background(), "user@example.com", "new-password"); err != nil {
		t.Fatalf("authenticate with new password error: %v", err)
	}

	// Токен одноразовый.
	if err := svc.ConfirmPasswordReset(context.Background(), token, "another"); err != repository.ErrResetInvalid {
		t.Fatalf("error = %v, want %v", err, repository.ErrResetInvalid)
	}
}

func TestCampaignLifecycle_SubmitAndApprove(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	owner := model.Viewer{UserID: 1}
	moderator := model.Viewer{UserID: 2, Moderator: true}

	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "Clean water", 100000, false)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if view.Campaign.Status != model.StatusDraft {
		t.Fatalf("status = %s, want draft", view.Campaign.Status)
	}

	id := view.Campaign.ID

	view, err = svc.ApplyAction(context.Background(), owner, id, lifecycle.ActionSubmit, "")
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if view.Campaign.Status != model.StatusPending {
		t.Fatalf("status = %s, want pending", view.Campaign.Status)
	}

	// Аккаунт владельца не готов: approve блокируется.
	if _, err := svc.ApplyAction(context.Background(), moderator, id, lifecycle.ActionApprove, "looks good"); err != lifecycle.ErrStripeNotReady {
		t.Fatalf("error = %v, want %v", err, lifecycle.ErrStripeNotReady)
	}

	if err := repo.UpsertStripeAccount(context.Background(), readyAccount(1)); err != nil {
		t.Fatalf("upsert account error: %v", err)
	}

	view, err = svc.ApplyAction(context.Background(), moderator, id, lifecycle.ActionApprove, "looks good")
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if view.Campaign.Status != model.StatusApproved {
		t.Fatalf("status = %s, want approved", view.Campaign.Status)
	}
	if view.Campaign.ModerationNotes != "looks good" {
		t.Fatalf("notes = %q", view.Campaign.ModerationNotes)
	}

	records, err := svc.GetModerationHistory(context.Background(), owner, id)
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	last := records[len(records)-1]
	if last.ModeratorID == nil || *last.ModeratorID != 2 {
		t.Fatalf("moderator id = %v, want 2", last.ModeratorID)
	}
}

func TestApplyAction_RejectRequiresNotes(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	owner := model.Viewer{UserID: 1}
	moderator := model.Viewer{UserID: 2, Moderator: true}

	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "", 5000, true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.ApplyAction(context.Background(), moderator, view.Campaign.ID, lifecycle.ActionReject, ""); err != lifecycle.ErrNotesRequired {
		t.Fatalf("error = %v, want %v", err, lifecycle.ErrNotesRequired)
	}

	updated, err := svc.ApplyAction(context.Background(), moderator, view.Campaign.ID, lifecycle.ActionReject, "needs details")
	if err != nil {
		t.Fatalf("reject error: %v", err)
	}
	if updated.Campaign.Status != model.StatusRejected {
		t.Fatalf("status = %s, want rejected", updated.Campaign.Status)
	}
}

func TestApplyAction_OwnerCannotApprove(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	owner := model.Viewer{UserID: 1}

	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "", 5000, true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := repo.UpsertStripeAccount(context.Background(), readyAccount(1)); err != nil {
		t.Fatalf("upsert account error: %v", err)
	}

	if _, err := svc.ApplyAction(context.Background(), owner, view.Campaign.ID, lifecycle.ActionApprove, "ok"); err != lifecycle.ErrInvalidTransition {
		t.Fatalf("error = %v, want %v", err, lifecycle.ErrInvalidTransition)
	}
}

func TestUpdateCampaign_ApprovedResetsToPending(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	owner := model.Viewer{UserID: 1}
	moderator := model.Viewer{UserID: 2, Moderator: true}

	if err := repo.UpsertStripeAccount(context.Background(), readyAccount(1)); err != nil {
		t.Fatalf("upsert account error: %v", err)
	}

	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "", 5000, true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := svc.ApplyAction(context.Background(), moderator, view.Campaign.ID, lifecycle.ActionApprove, "approved"); err != nil {
		t.Fatalf("approve error: %v", err)
	}

	updated, err := svc.UpdateCampaign(context.Background(), owner, view.Campaign.ID, "New title", "New text", 7000)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Campaign.Status != model.StatusPending {
		t.Fatalf("status = %s, want pending", updated.Campaign.Status)
	}
	if updated.Campaign.ModerationNotes != "" {
		t.Fatalf("notes = %q, want empty", updated.Campaign.ModerationNotes)
	}
	if updated.Campaign.Title != "New title" || updated.Campaign.TargetAmount != 7000 {
		t.Fatalf("content not updated: %+v", updated.Campaign)
	}
}

func TestGetCampaign_HiddenFromOutsiders(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	owner := model.Viewer{UserID: 1}
	stranger := model.Viewer{UserID: 3}

	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "", 5000, true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := svc.GetCampaign(context.Background(), stranger, view.Campaign.ID); err != repository.ErrCampaignNotFound {
		t.Fatalf("stranger error = %v, want %v", err, repository.ErrCampaignNotFound)
	}
	if _, err := svc.GetCampaign(context.Background(), model.Viewer{}, view.Campaign.ID); err != repository.ErrCampaignNotFound {
		t.Fatalf("anonymous error = %v, want %v", err, repository.ErrCampaignNotFound)
	}

	if _, err := svc.GetCampaign(context.Background(), owner, view.Campaign.ID); err != nil {
		t.Fatalf("owner error: %v", err)
	}
	if _, err := svc.GetCampaign(context.Background(), model.Viewer{UserID: 2, Moderator: true}, view.Campaign.ID); err != nil {
		t.Fatalf("moderator error: %v", err)
	}
}

func TestGetCampaign_MalformedID(t *testing.T) {
	svc := NewService(newStubRepo(), nil, "")

	if _, err := svc.GetCampaign(context.Background(), model.Viewer{}, "not-a-uuid"); err != repository.ErrCampaignNotFound {
		t.Fatalf("error = %v, want %v", err, repository.ErrCampaignNotFound)
	}
}

func TestListModerationQueue_PermissionDenied(t *testing.T) {
	svc := NewService(newStubRepo(), nil, "")

	if _, err := svc.ListModerationQueue(context.Background(), model.Viewer{UserID: 1}); err != ErrPermissionDenied {
		t.Fatalf("error = %v, want %v", err, ErrPermissionDenied)
	}
}

func TestCreateDonationCheckout_ClosedCampaign(t *testing.T) {
	repo := newStubRepo()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("provider must not be called for a closed campaign")
	}))
	defer ts.Close()

	svc := NewService(repo, stripe.NewClient(ts.URL, "sk_test"), "http://front/donation/result")

	owner := model.Viewer{UserID: 1}
	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "", 5000, false)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, _, err := svc.CreateDonationCheckout(context.Background(), view.Campaign.ID, 1000); err != ErrDonationsClosed {
		t.Fatalf("error = %v, want %v", err, ErrDonationsClosed)
	}
}

func approvedCampaign(t *testing.T, repo *stubRepo, svc *Service) string {
	t.Helper()

	owner := model.Viewer{UserID: 1}
	moderator := model.Viewer{UserID: 2, Moderator: true}

	if err := repo.UpsertStripeAccount(context.Background(), readyAccount(1)); err != nil {
		t.Fatalf("upsert account error: %v", err)
	}

	view, err := svc.CreateCampaign(context.Background(), owner, "Well", "", 100000, true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := svc.ApplyAction(context.Background(), moderator, view.Campaign.ID, lifecycle.ActionApprove, "ok"); err != nil {
		t.Fatalf("approve error: %v", err)
	}
	return view.Campaign.ID
}

func TestConfirmDonation_Idempotent(t *testing.T) {
	repo := newStubRepo()

	sessionID := "cs_" + uuid.NewString()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost:
			w.Write([]byte(`{"id":"` + sessionID + `","url":"https://pay.example/s","payment_status":"unpaid"}`))
		default:
			w.Write([]byte(`{"id":"` + sessionID + `","payment_status":"paid","amount_total":2500}`))
		}
	}))
	defer ts.Close()

	svc := NewService(repo, stripe.NewClient(ts.URL, "sk_test"), "http://front/donation/result")
	campaignID := approvedCampaign(t, repo, svc)

	gotSession, url, err := svc.CreateDonationCheckout(context.Background(), campaignID, 2500)
	if err != nil {
		t.Fatalf("checkout error: %v", err)
	}
	if gotSession != sessionID || url == "" {
		t.Fatalf("session = %q url = %q", gotSession, url)
	}

	if err := svc.ConfirmDonation(context.Background(), campaignID, sessionID); err != nil {
		t.Fatalf("first confirm error: %v", err)
	}
	if err := svc.ConfirmDonation(context.Background(), campaignID, sessionID); err != nil {
		t.Fatalf("second confirm error: %v", err)
	}

	c, err := repo.GetCampaign(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("get campaign error: %v", err)
	}
	if c.CurrentAmount != 2500 {
		t.Fatalf("current amount = %d, want 2500", c.CurrentAmount)
	}

	donations, err := repo.ListDonationsByCampaign(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("list donations error: %v", err)
	}
	if len(donations) != 1 {
		t.Fatalf("donations = %d, want 1", len(donations))
	}
}

func TestConfirmDonation_Unpaid(t *testing.T) {
	repo := newStubRepo()

	sessionID := "cs_" + uuid.NewString()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":"` + sessionID + `","url":"https://pay.example/s","payment_status":"unpaid"}`))
			return
		}
		w.Write([]byte(`{"id":"` + sessionID + `","payment_status":"unpaid"}`))
	}))
	defer ts.Close()

	svc := NewService(repo, stripe.NewClient(ts.URL, "sk_test"), "http://front/donation/result")
	campaignID := approvedCampaign(t, repo, svc)

	if _, _, err := svc.CreateDonationCheckout(context.Background(), campaignID, 2500); err != nil {
		t.Fatalf("checkout error: %v", err)
	}

	if err := svc.ConfirmDonation(context.Background(), campaignID, sessionID); err != ErrPaymentNotCompleted {
		t.Fatalf("error = %v, want %v", err, ErrPaymentNotCompleted)
	}
}

func TestConfirmDonation_WrongCampaign(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	if err := repo.CreateCheckoutSession(context.Background(), model.CheckoutSession{
		SessionID:  "cs_1",
		CampaignID: uuid.NewString(),
		Amount:     1000,
	}); err != nil {
		t.Fatalf("create session error: %v", err)
	}

	if err := svc.ConfirmDonation(context.Background(), uuid.NewString(), "cs_1"); err != repository.ErrSessionNotFound {
		t.Fatalf("error = %v, want %v", err, repository.ErrSessionNotFound)
	}
}

func TestNews_StaffOnly(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, "")

	staff := model.Viewer{UserID: 1, Staff: true}
	reader := model.Viewer{UserID: 2}

	if _, err := svc.CreateNews(context.Background(), reader, "Launch", "", true); err != ErrPermissionDenied {
		t.Fatalf("error = %v, want %v", err, ErrPermissionDenied)
	}

	published, err := svc.CreateNews(context.Background(), staff, "Launch", "We are live", true)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	draft, err := svc.CreateNews(context.Background(), staff, "Draft", "Not yet", false)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	list, err := svc.ListNews(context.Background(), reader)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 || list[0].ID != published.ID {
		t.Fatalf("reader list = %+v, want only published", list)
	}

	if _, err := svc.GetNews(context.Background(), reader, draft.ID); err != repository.ErrNewsNotFound {
		t.Fatalf("error = %v, want %v", err, repository.ErrNewsNotFound)
	}

	staffList, err := svc.ListNews(context.Background(), staff)
	if err != nil {
		t.Fatalf("staff list error: %v", err)
	}
	if len(staffList) != 2 {
		t.Fatalf("staff list = %d, want 2", len(staffList))
	}
}
