package repository

import (
	"database/sql"
	"strings"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/google/uuid"
)

// joinedCategory holds the nullable columns of a LEFT JOIN on categories.
type joinedCategory struct {
	ID       uuid.NullUUID
	Name     sql.NullString
	ParentID uuid.NullUUID
}

func (c *joinedCategory) dest() []any {
	return []any{&c.ID, &c.Name, &c.ParentID}
}

func (c *joinedCategory) category() *models.Category {
	if !c.ID.Valid {
		return nil
	}

	return &models.Category{
		ID:       c.ID.UUID,
		Name:     c.Name.String,
		ParentID: uuidPtr(c.ParentID),
	}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}

	id := n.UUID

	return &id
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with wildcards in s escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
