package puzzle

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StateRow is the relational form of a State.
type StateRow struct {
	Graph   string         `gorm:"type:text;primaryKey" json:"graph"`
	ID      string         `gorm:"type:text;primaryKey" json:"id"`
	Seq     uint32         `gorm:"not null;index" json:"seq"`
	PosList datatypes.JSON `gorm:"type:json;not null" json:"pos_list"`
	RunID   uuid.UUID      `gorm:"type:text;not null;index" json:"run_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (StateRow) TableName() string { return "state" }

// MoveRow is the relational form of a MoveEdge.
type MoveRow struct {
	Graph  string    `gorm:"type:text;primaryKey" json:"graph"`
	FromID string    `gorm:"type:text;primaryKey" json:"from_id"`
	ToID   string    `gorm:"type:text;primaryKey;index" json:"to_id"`
	RunID  uuid.UUID `gorm:"type:text;not null;index" json:"run_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (MoveRow) TableName() string { return "moves" }

// PosList renders the tiles of c as a JSON array, e.g. [1,2,3,0].
func PosList(c Configuration) datatypes.JSON {
	b := make([]byte, 0, 2+2*c.Len())
	b = append(b, '[')
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(c.At(i)), 10)
	}
	b = append(b, ']')
	return datatypes.JSON(b)
}
