// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/abdev500/lendahand/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUserExists возвращается при попытке регистрации с уже занятым адресом.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrCampaignNotFound возвращается, если кампания не найдена.
	ErrCampaignNotFound = errors.New("campaign not found")
	// ErrStatusChanged возвращается, если статус кампании изменился между
	// чтением и применением перехода.
	ErrStatusChanged = errors.New("campaign status changed concurrently")
	// ErrSessionNotFound возвращается, если платёжная сессия не найдена.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrResetInvalid возвращается для неизвестного, использованного или
	// истёкшего токена сброса пароля.
	ErrResetInvalid = errors.New("password reset token invalid")
	// ErrNewsNotFound возвращается, если новость не найдена.
	ErrNewsNotFound = errors.New("news post not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		// Ретраим только конфликты сериализации, дедлоки и сетевые сбои.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected {
				if i < len(delays) {
					time.Sleep(delays[i])
					continue
				}
			}
		}

		if isConnectionError(err) {
			if i < len(delays) {
				time.Sleep(delays[i])
				continue
			}
		}

		break
	}
	return err
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateUser создаёт нового пользователя.
func (r *PostgresRepository) CreateUser(ctx context.Context, email string, passwordHash []byte) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByEmail возвращает пользователя по адресу электронной почты.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_moderator, is_staff, created_at
		 FROM users WHERE email = $1`,
		email,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsModerator, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, is_moderator, is_staff, created_at
		 FROM users WHERE id = $1`,
		id,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsModerator, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// UpdatePassword заменяет хеш пароля пользователя.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash []byte) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetStripeAccount возвращает снимок платёжного аккаунта пользователя.
// При отсутствии записи возвращается пустой снимок без ошибки.
func (r *PostgresRepository) GetStripeAccount(ctx context.Context, userID int64) (model.StripeAccount, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT user_id, stripe_account_id, has_account, charges_enabled,
		        payouts_enabled, details_submitted, requirements_due, updated_at
		 FROM stripe_accounts WHERE user_id = $1`,
		userID,
	)

	var a model.StripeAccount
	err := row.Scan(&a.UserID, &a.AccountID, &a.HasAccount, &a.ChargesEnabled,
		&a.PayoutsEnabled, &a.DetailsSubmitted, &a.RequirementsDue, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StripeAccount{UserID: userID}, nil
		}
		return model.StripeAccount{}, fmt.Errorf("get stripe account: %w", err)
	}

	return a, nil
}

// UpsertStripeAccount сохраняет снимок платёжного аккаунта пользователя.
func (r *PostgresRepository) UpsertStripeAccount(ctx context.Context, a model.StripeAccount) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO stripe_accounts
		     (user_id, stripe_account_id, has_account, charges_enabled,
		      payouts_enabled, details_submitted, requirements_due, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		     stripe_account_id = EXCLUDED.stripe_account_id,
		     has_account       = EXCLUDED.has_account,
		     charges_enabled   = EXCLUDED.charges_enabled,
		     payouts_enabled   = EXCLUDED.payouts_enabled,
		     details_submitted = EXCLUDED.details_submitted,
		     requirements_due  = EXCLUDED.requirements_due,
		     updated_at        = NOW()`,
		a.UserID, a.AccountID, a.HasAccount, a.ChargesEnabled,
		a.PayoutsEnabled, a.DetailsSubmitted, a.RequirementsDue,
	)
	if err != nil {
		return fmt.Errorf("upsert stripe account: %w", err)
	}
	return nil
}

// GetAccountsForRefresh возвращает аккаунты, состояние которых нужно
// обновить у провайдера: аккаунт создан, но ещё не полностью готов.
func (r *PostgresRepository) GetAccountsForRefresh(ctx context.Context, limit int) ([]model.StripeAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, stripe_account_id, has_account, charges_enabled,
		        payouts_enabled, details_submitted, requirements_due, updated_at
		 FROM stripe_accounts
		 WHERE has_account
		   AND NOT (charges_enabled AND payouts_enabled AND details_submitted)
		 ORDER BY updated_at
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select accounts for refresh: %w", err)
	}
	defer rows.Close()

	var res []model.StripeAccount
	for rows.Next() {
		var a model.StripeAccount
		if err := rows.Scan(&a.UserID, &a.AccountID, &a.HasAccount, &a.ChargesEnabled,
			&a.PayoutsEnabled, &a.DetailsSubmitted, &a.RequirementsDue, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		res = append(res, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

const campaignColumns = `id, created_by, title, description, target_amount,
	current_amount, status, moderation_notes, created_at, updated_at`

func scanCampaign(row pgx.Row) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.CreatedBy, &c.Title, &c.Description, &c.TargetAmount,
		&c.CurrentAmount, &c.Status, &c.ModerationNotes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCampaign сохраняет новую кампанию.
func (r *PostgresRepository) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO campaigns (id, created_by, title, description, target_amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.CreatedBy, c.Title, c.Description, c.TargetAmount, string(c.Status),
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetCampaign возвращает кампанию по идентификатору.
func (r *PostgresRepository) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

// ListCampaignsByStatus возвращает кампании с одним из указанных статусов.
func (r *PostgresRepository) ListCampaignsByStatus(ctx context.Context, statuses []model.CampaignStatus) ([]model.Campaign, error) {
	strs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		strs = append(strs, string(s))
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+`
		 FROM campaigns
		 WHERE status = ANY($1)
		 ORDER BY created_at DESC`,
		strs,
	)
	if err != nil {
		return nil, fmt.Errorf("select campaigns: %w", err)
	}
	defer rows.Close()

	return collectCampaigns(rows)
}

// ListCampaignsByOwner возвращает кампании пользователя.
func (r *PostgresRepository) ListCampaignsByOwner(ctx context.Context, userID int64) ([]model.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+`
		 FROM campaigns
		 WHERE created_by = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select campaigns: %w", err)
	}
	defer rows.Close()

	return collectCampaigns(rows)
}

func collectCampaigns(rows pgx.Rows) ([]model.Campaign, error) {
	var res []model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		res = append(res, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateCampaignContent изменяет содержимое кампании. При resetStatus
// кампания возвращается на модерацию со сбросом комментария модератора —
// обе записи выполняются в одной транзакции с блокировкой строки.
// Статус на момент применения должен совпадать с from.
func (r *PostgresRepository) UpdateCampaignContent(ctx context.Context, id string, from model.CampaignStatus, title, description string, targetAmount int64, resetStatus bool) (*model.Campaign, error) {
	var updated *model.Campaign

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var current string
		err = tx.QueryRow(ctx, `SELECT status FROM campaigns WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCampaignNotFound
			}
			return fmt.Errorf("lock campaign: %w", err)
		}

		if model.CampaignStatus(current) != from {
			return ErrStatusChanged
		}

		query := `UPDATE campaigns
		          SET title = $2, description = $3, target_amount = $4, updated_at = NOW()
		          WHERE id = $1
		          RETURNING ` + campaignColumns
		if resetStatus {
			query = `UPDATE campaigns
			         SET title = $2, description = $3, target_amount = $4,
			             status = 'pending', moderation_notes = '', updated_at = NOW()
			         WHERE id = $1
			         RETURNING ` + campaignColumns
		}

		updated, err = scanCampaign(tx.QueryRow(ctx, query, id, title, description, targetAmount))
		if err != nil {
			return fmt.Errorf("update campaign: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// TransitionCampaign применяет переход статуса кампании и дописывает
// запись в историю модерации. Переход выполняется в транзакции с
// блокировкой строки; если статус уже не from, возвращается ErrStatusChanged.
// При setNotes комментарий модератора перезаписывается значением notes.
func (r *PostgresRepository) TransitionCampaign(ctx context.Context, id string, from, to model.CampaignStatus, setNotes bool, notes string, action string, moderatorID *int64) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var current string
		err = tx.QueryRow(ctx, `SELECT status FROM campaigns WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCampaignNotFound
			}
			return fmt.Errorf("lock campaign: %w", err)
		}

		if model.CampaignStatus(current) != from {
			return ErrStatusChanged
		}

		if setNotes {
			_, err = tx.Exec(ctx,
				`UPDATE campaigns SET status = $2, moderation_notes = $3, updated_at = NOW() WHERE id = $1`,
				id, string(to), notes,
			)
		} else {
			_, err = tx.Exec(ctx,
				`UPDATE campaigns SET status = $2, updated_at = NOW() WHERE id = $1`,
				id, string(to),
			)
		}
		if err != nil {
			return fmt.Errorf("update campaign status: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO moderation_records (campaign_id, action, moderator_id, notes)
			 VALUES ($1, $2, $3, $4)`,
			id, action, moderatorID, notes,
		)
		if err != nil {
			return fmt.Errorf("insert moderation record: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// ListModerationRecords возвращает историю модерации кампании от новых к старым.
func (r *PostgresRepository) ListModerationRecords(ctx context.Context, campaignID string) ([]model.ModerationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, campaign_id, action, moderator_id, notes, created_at
		 FROM moderation_records
		 WHERE campaign_id = $1
		 ORDER BY created_at DESC, id DESC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("select moderation records: %w", err)
	}
	defer rows.Close()

	var res []model.ModerationRecord
	for rows.Next() {
		var rec model.ModerationRecord
		if err := rows.Scan(&rec.ID, &rec.CampaignID, &rec.Action, &rec.ModeratorID, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan moderation record: %w", err)
		}
		res = append(res, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateCheckoutSession сохраняет платёжную сессию, созданную у провайдера.
func (r *PostgresRepository) CreateCheckoutSession(ctx context.Context, s model.CheckoutSession) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO checkout_sessions (session_id, campaign_id, amount) VALUES ($1, $2, $3)`,
		s.SessionID, s.CampaignID, s.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert checkout session: %w", err)
	}
	return nil
}

// GetCheckoutSession возвращает платёжную сессию по идентификатору.
func (r *PostgresRepository) GetCheckoutSession(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT session_id, campaign_id, amount, confirmed, created_at
		 FROM checkout_sessions WHERE session_id = $1`,
		sessionID,
	)

	var s model.CheckoutSession
	err := row.Scan(&s.SessionID, &s.CampaignID, &s.Amount, &s.Confirmed, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get checkout session: %w", err)
	}

	return &s, nil
}

// ConfirmDonation подтверждает пожертвование по платёжной сессии:
// создаёт запись пожертвования и увеличивает собранную сумму кампании.
// Повторное подтверждение той же сессии не создаёт второго пожертвования;
// возвращаемый признак сообщает, что сессия уже была подтверждена.
func (r *PostgresRepository) ConfirmDonation(ctx context.Context, sessionID string) (bool, error) {
	var already bool

	err := r.withRetry(ctx, func() error {
		already = false

		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		var (
			campaignID string
			amount     int64
			confirmed  bool
		)
		err = tx.QueryRow(ctx,
			`SELECT campaign_id, amount, confirmed
			 FROM checkout_sessions WHERE session_id = $1 FOR UPDATE`,
			sessionID,
		).Scan(&campaignID, &amount, &confirmed)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("lock checkout session: %w", err)
		}

		if confirmed {
			already = true
			return nil
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO donations (campaign_id, amount, session_id) VALUES ($1, $2, $3)`,
			campaignID, amount, sessionID,
		)
		if err != nil {
			// Вебхук провайдера мог подтвердить сессию раньше клиента.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				already = true
				return nil
			}
			return fmt.Errorf("insert donation: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE campaigns SET current_amount = current_amount + $2, updated_at = NOW() WHERE id = $1`,
			campaignID, amount,
		)
		if err != nil {
			return fmt.Errorf("update campaign amount: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE checkout_sessions SET confirmed = TRUE WHERE session_id = $1`,
			sessionID,
		)
		if err != nil {
			return fmt.Errorf("mark session confirmed: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})

	return already, err
}

// ListDonationsByCampaign возвращает пожертвования кампании от новых к старым.
func (r *PostgresRepository) ListDonationsByCampaign(ctx context.Context, campaignID string) ([]model.Donation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, campaign_id, amount, created_at
		 FROM donations
		 WHERE campaign_id = $1
		 ORDER BY created_at DESC, id DESC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("select donations: %w", err)
	}
	defer rows.Close()

	var res []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.Amount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		res = append(res, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreatePasswordReset сохраняет одноразовый токен сброса пароля.
func (r *PostgresRepository) CreatePasswordReset(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

// ConsumePasswordReset помечает токен сброса использованным и возвращает
// идентификатор пользователя. Использованный или истёкший токен недействителен.
func (r *PostgresRepository) ConsumePasswordReset(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx,
		`UPDATE password_resets
		 SET used = TRUE
		 WHERE token = $1 AND NOT used AND expires_at > NOW()
		 RETURNING user_id`,
		token,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrResetInvalid
		}
		return 0, fmt.Errorf("consume password reset: %w", err)
	}
	return userID, nil
}

// CreateNews сохраняет новость и заполняет её идентификатор.
func (r *PostgresRepository) CreateNews(ctx context.Context, n *model.NewsPost) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO news (title, body, published, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		n.Title, n.Body, n.Published, n.AuthorID,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// GetNews возвращает новость по идентификатору.
func (r *PostgresRepository) GetNews(ctx context.Context, id int64) (*model.NewsPost, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, body, published, author_id, created_at, updated_at
		 FROM news WHERE id = $1`,
		id,
	)

	var n model.NewsPost
	err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Published, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("get news: %w", err)
	}

	return &n, nil
}

// ListNews возвращает новости от новых к старым. При publishedOnly
// скрытые новости не включаются.
func (r *PostgresRepository) ListNews(ctx context.Context, publishedOnly bool) ([]model.NewsPost, error) {
	query := `SELECT id, title, body, published, author_id, created_at, updated_at
	          FROM news ORDER BY created_at DESC, id DESC`
	if publishedOnly {
		query = `SELECT id, title, body, published, author_id, created_at, updated_at
		         FROM news WHERE published ORDER BY created_at DESC, id DESC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select news: %w", err)
	}
	defer rows.Close()

	var res []model.NewsPost
	for rows.Next() {
		var n model.NewsPost
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Published, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		res = append(res, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateNews изменяет новость.
func (r *PostgresRepository) UpdateNews(ctx context.Context, id int64, title, body string, published bool) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE news SET title = $2, body = $3, published = $4, updated_at = NOW() WHERE id = $1`,
		id, title, body, published,
	)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNewsNotFound
	}
	return nil
}

// DeleteNews удаляет новость.
func (r *PostgresRepository) DeleteNews(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM news WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNewsNotFound
	}
	return nil
}
