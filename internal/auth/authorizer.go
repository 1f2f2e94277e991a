package auth

import "net/http"

// Rule is the access class of a route.
type Rule int

const (
	Public Rule = iota
	Authenticated
	AdminOnly
	// OwnerOrAdmin lets admins see every record and everyone else only
	// their own.
	OwnerOrAdmin
)

func (r Rule) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin_only"
	case OwnerOrAdmin:
		return "owner_or_admin"
	default:
		return "unknown"
	}
}

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

type Decision struct {
	Allowed bool
	Reason  Reason
	// OwnerID limits an OwnerOrAdmin read to records owned by this user.
	// Empty means unrestricted.
	OwnerID string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Status is the HTTP status a denied decision is reported with.
func (d Decision) Status() int {
	switch {
	case d.Allowed:
		return http.StatusOK
	case d.Reason == ReasonUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}

// Outcome is a short label for metrics and logs.
func (d Decision) Outcome() string {
	if d.Allowed {
		return "allow"
	}
	return string(d.Reason)
}

// Authorize decides whether id may access a route guarded by rule. A nil id
// is an anonymous caller.
func Authorize(id *Identity, rule Rule) Decision {
	switch rule {
	case Public:
		return allow()
	case Authenticated:
		if id == nil {
			return deny(ReasonUnauthenticated)
		}
		return allow()
	case AdminOnly:
		// Anonymous callers are forbidden here, not unauthenticated.
		if id == nil || !id.IsAdmin {
			return deny(ReasonForbidden)
		}
		return allow()
	case OwnerOrAdmin:
		if id == nil {
			return deny(ReasonUnauthenticated)
		}
		if id.IsAdmin {
			return allow()
		}
		return Decision{Allowed: true, OwnerID: id.UserID}
	default:
		return deny(ReasonForbidden)
	}
}
