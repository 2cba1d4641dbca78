// Package access holds the pure authorization predicates for notices and
// attachments. No I/O, no state: callers resolve the actor and the records
// first, then consult the policy.
package access

import (
	"github.com/campusboard/noticeboard/internal/domain"
)

// CanReadNotice reports whether the actor may see the notice. Admins see
// everything, the poster sees their own notices regardless of audience, and
// otherwise the notice's audience must be "all" or match the actor's role.
func CanReadNotice(actor domain.Actor, notice *domain.Notice) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if actor.ID == notice.PostedBy {
		return true
	}
	switch notice.VisibleTo {
	case domain.AudienceAll:
		return true
	case domain.AudienceStudents:
		return actor.Role == domain.RoleStudent
	case domain.AudienceFaculty:
		return actor.Role == domain.RoleFaculty
	case domain.AudienceAdmin:
		return false
	default:
		return false
	}
}

// CanReadAttachmentViaNotice gates a file reached through a notice. There is
// no per-file override: visibility is always the owning notice's visibility.
func CanReadAttachmentViaNotice(actor domain.Actor, notice *domain.Notice) bool {
	return CanReadNotice(actor, notice)
}

// CanReadAttachmentStandalone gates a file reached directly by id, outside
// any notice.
func CanReadAttachmentStandalone(actor domain.Actor, att *domain.Attachment) bool {
	if att.IsPublic {
		return true
	}
	if actor.ID == att.OwnerID {
		return true
	}
	return actor.Role == domain.RoleAdmin
}

// CanMutateNotice reports whether the actor may update or delete the notice.
func CanMutateNotice(actor domain.Actor, notice *domain.Notice) bool {
	return actor.Role == domain.RoleAdmin || actor.ID == notice.PostedBy
}
