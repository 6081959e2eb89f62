package model

import (
	"time"

	"github.com/google/uuid"
)

// Portfolio is the aggregate root: the portfolio row plus the attachment and
// skill rows it exclusively owns. Child records carry the owning portfolio's
// ID rather than a back pointer.
type Portfolio struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	// Display name of the owner, joined from users on read. Never written
	// through this aggregate.
	UserName string `json:"user_name"`

	Title       string `json:"title"`
	Description string `json:"description"`
	GitLink     string `json:"git_link"`
	Content     string `json:"content"`

	ViewCount int64 `json:"view_count"`
	LikeCount int64 `json:"like_count"` // signed, external callers may push it negative

	Representative *RepresentativeAttachment `json:"representative_attachment,omitempty"`
	Images         []ImageAttachment         `json:"image_attachments"`
	Skills         []SkillLink               `json:"skills"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SkillLink associates the portfolio with one canonical skill.
type SkillLink struct {
	SkillID uuid.UUID `json:"skill_id"`
	Name    string    `json:"name"`
}

// HasSkill reports whether the portfolio already links the given skill.
func (p *Portfolio) HasSkill(skillID uuid.UUID) bool {
	for _, s := range p.Skills {
		if s.SkillID == skillID {
			return true
		}
	}
	return false
}

// Page is a bounded, sorted slice of a larger result set plus its total
// element count.
type Page struct {
	Items []*Portfolio `json:"items"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
	Total int          `json:"total"`
}
