package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"kudosnotify/internal/types"
)

// KudosRepository provides data access for the kudos table joined with the
// sender and receiver profiles needed to address the notification email.
type KudosRepository struct {
	db DBTX
}

// NewKudosRepository creates a new KudosRepository backed by the given
// database connection (pool or transaction).
func NewKudosRepository(db DBTX) *KudosRepository {
	return &KudosRepository{db: db}
}

// kudosColumns defines the column set for kudos queries: the kudos row
// plus the joined sender and receiver profiles, in scan order.
const kudosColumns = `k.id, k.message, k.sender_id, k.receiver_id, k.created_at,
	sp.user_id, sp.email, sp.first_name, sp.last_name,
	rp.user_id, rp.email, rp.first_name, rp.last_name`

// GetByID retrieves a kudos row with its sender and receiver profiles in a
// single round trip. Returns not_found_kudos if no row matches.
func (r *KudosRepository) GetByID(ctx context.Context, id string) (*types.Kudos, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+kudosColumns+`
		 FROM kudos k
		 JOIN profiles sp ON sp.user_id = k.sender_id
		 JOIN profiles rp ON rp.user_id = k.receiver_id
		 WHERE k.id = $1`,
		id,
	)

	var k types.Kudos
	var (
		message       *string
		senderEmail   *string
		senderFirst   *string
		senderLast    *string
		receiverEmail *string
		receiverFirst *string
		receiverLast  *string
	)
	err := row.Scan(
		&k.ID,
		&message,
		&k.SenderID,
		&k.ReceiverID,
		&k.CreatedAt,
		&k.Sender.UserID,
		&senderEmail,
		&senderFirst,
		&senderLast,
		&k.Receiver.UserID,
		&receiverEmail,
		&receiverFirst,
		&receiverLast,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundKudos, "kudos not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve kudos", err)
	}

	k.Message = derefString(message)
	k.Sender.Email = derefString(senderEmail)
	k.Receiver.Email = derefString(receiverEmail)
	k.Sender.FirstName = derefString(senderFirst)
	k.Sender.LastName = derefString(senderLast)
	k.Receiver.FirstName = derefString(receiverFirst)
	k.Receiver.LastName = derefString(receiverLast)
	return &k, nil
}
