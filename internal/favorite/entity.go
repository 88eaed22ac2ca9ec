// AngelaMos | 2026
// entity.go

package favorite

import "time"

type Favorite struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	CreatedAt time.Time `db:"created_at"`
}
