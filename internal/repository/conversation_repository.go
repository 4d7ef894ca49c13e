package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-portal/internal/domain"
)

// ConversationRepository lists portal conversations for region filtering.
// Conversation content lives elsewhere; only the region/ownership view is
// read here.
type ConversationRepository interface {
	List(ctx context.Context) ([]domain.Conversation, error)
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository returns a Postgres-backed implementation.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) List(ctx context.Context) ([]domain.Conversation, error) {
	const query = `
        SELECT id, COALESCE(region, ''), customer_email
        FROM conversations ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]domain.Conversation, 0)
	for rows.Next() {
		var (
			conversation domain.Conversation
			region       string
		)
		if err := rows.Scan(&conversation.ID, &region, &conversation.CustomerEmail); err != nil {
			return nil, err
		}
		conversation.Region = domain.Region(region)
		conversations = append(conversations, conversation)
	}
	return conversations, rows.Err()
}
