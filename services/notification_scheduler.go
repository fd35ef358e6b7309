package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wajba-server/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationScheduler schedules and delivers cart reminder pushes
type NotificationScheduler struct {
	notificationService *NotificationService
}

func NewNotificationScheduler() *NotificationScheduler {
	return &NotificationScheduler{
		notificationService: NewNotificationService(),
	}
}

// ScheduleCartReminders replaces the user's pending cart reminders with
// fresh ones keyed to the newest item in any of their active carts.
func (ns *NotificationScheduler) ScheduleCartReminders(userID uuid.UUID) error {
	query := `
		SELECT ci.item_name, COALESCE(ci.item_image, ''), ci.unit_price, ci.menu_item_id
		FROM cart_items ci
		JOIN cart_sessions cs ON ci.cart_session_id = cs.id
		WHERE cs.user_id = $1
		  AND cs.status = 'active'
		  AND cs.expires_at > now()
		ORDER BY ci.added_at DESC
		LIMIT 1`

	var itemName, itemImage string
	var itemPrice float64
	var menuItemID uuid.UUID
	err := database.Database.QueryRow(query, userID).Scan(&itemName, &itemImage, &itemPrice, &menuItemID)
	if err == sql.ErrNoRows {
		// Cart is empty, nothing left to remind about
		return ns.CancelCartReminders(userID)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch newest cart item: %w", err)
	}

	if err := ns.CancelCartReminders(userID); err != nil {
		log.Warn().Err(err).Msg("failed to cancel existing cart reminders")
	}

	now := time.Now()
	for _, reminder := range []struct {
		kind  string
		after time.Duration
	}{
		{"6h", 6 * time.Hour},
		{"24h", 24 * time.Hour},
	} {
		if err := ns.createScheduledNotification(userID, reminder.kind, menuItemID,
			itemName, itemImage, itemPrice, now.Add(reminder.after)); err != nil {
			log.Warn().Err(err).Str("reminder", reminder.kind).Msg("failed to schedule cart reminder")
		}
	}
	return nil
}

// CancelCartReminders cancels all pending cart reminders for a user
func (ns *NotificationScheduler) CancelCartReminders(userID uuid.UUID) error {
	_, err := database.Database.Exec(`
		UPDATE scheduled_notifications
		SET cancelled = TRUE, updated_at = now()
		WHERE user_id = $1
		  AND type = 'cart-reminder'
		  AND sent = FALSE
		  AND cancelled = FALSE`,
		userID,
	)
	return err
}

func (ns *NotificationScheduler) createScheduledNotification(
	userID uuid.UUID,
	reminderType string,
	menuItemID uuid.UUID,
	itemName, itemImage string,
	itemPrice float64,
	scheduledFor time.Time,
) error {
	_, err := database.Database.Exec(`
		INSERT INTO scheduled_notifications
			(user_id, type, reminder_type, menu_item_id, item_name, item_image, item_price, scheduled_for)
		VALUES ($1, 'cart-reminder', $2, $3, $4, $5, $6, $7)`,
		userID, reminderType, menuItemID, itemName, itemImage, itemPrice, scheduledFor,
	)
	return err
}

// ProcessScheduledNotifications delivers due reminders. Reminders whose
// cart has emptied in the meantime are cancelled instead of sent.
func (ns *NotificationScheduler) ProcessScheduledNotifications() error {
	rows, err := database.Database.Query(`
		SELECT id, user_id, reminder_type, item_name
		FROM scheduled_notifications
		WHERE scheduled_for <= now()
		  AND sent = FALSE
		  AND cancelled = FALSE
		ORDER BY scheduled_for ASC
		LIMIT 100`)
	if err != nil {
		return fmt.Errorf("failed to fetch scheduled notifications: %w", err)
	}
	defer rows.Close()

	type due struct {
		ID           uuid.UUID
		UserID       uuid.UUID
		ReminderType string
		ItemName     string
	}
	var notifications []due
	for rows.Next() {
		var n due
		if err := rows.Scan(&n.ID, &n.UserID, &n.ReminderType, &n.ItemName); err != nil {
			continue
		}
		notifications = append(notifications, n)
	}

	for _, n := range notifications {
		if !ns.cartHasItems(n.UserID) {
			ns.markCancelled(n.ID)
			continue
		}

		var pushToken sql.NullString
		err := database.Database.QueryRow(
			`SELECT push_token FROM users WHERE id = $1`, n.UserID,
		).Scan(&pushToken)
		if err != nil || !pushToken.Valid || pushToken.String == "" {
			ns.markCancelled(n.ID)
			continue
		}

		title := "Votre panier vous attend"
		body := fmt.Sprintf("%s est toujours dans votre panier. Finalisez votre commande !", n.ItemName)
		if err := ns.notificationService.SendPushNotification(pushToken.String, title, body,
			map[string]interface{}{"type": "cart-reminder", "reminder": n.ReminderType}); err != nil {
			log.Warn().Err(err).Str("user_id", n.UserID.String()).Msg("cart reminder push failed")
			continue
		}

		if _, err := database.Database.Exec(`
			UPDATE scheduled_notifications SET sent = TRUE, updated_at = now()
			WHERE id = $1`, n.ID); err != nil {
			log.Warn().Err(err).Msg("failed to mark notification sent")
		}
	}
	return nil
}

// Run processes due notifications until the context is cancelled
func (ns *NotificationScheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ns.ProcessScheduledNotifications(); err != nil {
				log.Warn().Err(err).Msg("processing scheduled notifications failed")
			}
		}
	}
}

func (ns *NotificationScheduler) cartHasItems(userID uuid.UUID) bool {
	var count int
	err := database.Database.QueryRow(`
		SELECT COUNT(*)
		FROM cart_items ci
		JOIN cart_sessions cs ON ci.cart_session_id = cs.id
		WHERE cs.user_id = $1 AND cs.status = 'active' AND cs.expires_at > now()`,
		userID,
	).Scan(&count)
	return err == nil && count > 0
}

func (ns *NotificationScheduler) markCancelled(id uuid.UUID) {
	if _, err := database.Database.Exec(`
		UPDATE scheduled_notifications SET cancelled = TRUE, updated_at = now()
		WHERE id = $1`, id); err != nil {
		log.Warn().Err(err).Msg("failed to cancel notification")
	}
}
