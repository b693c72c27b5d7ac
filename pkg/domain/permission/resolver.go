package permission

// Privileged role literals. The comparison is a case-sensitive exact match:
// "Admin" or "ADMIN" is not privileged.
const (
	roleAdmin      = "admin"
	roleSuperAdmin = "super_admin"
)

// Resolver decides whether a user may perform an action. It is a pure value
// built from the session's user role and grant set; it performs no I/O, and
// the caller is responsible for the freshness of the grants.
type Resolver struct {
	authenticated bool
	role          string
	grants        Grants
}

// NewResolver builds a resolver for an authenticated user.
func NewResolver(role string, grants Grants) Resolver {
	return Resolver{authenticated: true, role: role, grants: grants}
}

// Anonymous returns the resolver for "no session": every check denies.
func Anonymous() Resolver {
	return Resolver{}
}

// IsAdmin reports whether the role bypasses grant lookups entirely.
func (r Resolver) IsAdmin() bool {
	return r.authenticated && (r.role == roleAdmin || r.role == roleSuperAdmin)
}

// CanAccess reports whether the (module, action) pair is permitted.
// Admin roles allow unconditionally; otherwise the grant must be present and
// strictly true. There is no inheritance between actions.
func (r Resolver) CanAccess(m Module, a Action) bool {
	if !r.authenticated {
		return false
	}
	if r.IsAdmin() {
		return true
	}
	return r.grants.Allowed(Key{Module: m, Action: a})
}

// CanView reports view access to a module.
func (r Resolver) CanView(m Module) bool { return r.CanAccess(m, ActionVer) }

// CanCreate reports create access to a module.
func (r Resolver) CanCreate(m Module) bool { return r.CanAccess(m, ActionCrear) }

// CanEdit reports edit access to a module.
func (r Resolver) CanEdit(m Module) bool { return r.CanAccess(m, ActionEditar) }

// CanDelete reports delete access to a module.
func (r Resolver) CanDelete(m Module) bool { return r.CanAccess(m, ActionEliminar) }

// CanDownload reports download access for a file kind. The kind may be
// singular or plural; unknown kinds deny.
func (r Resolver) CanDownload(kind string) bool {
	return r.canFile(FileOpDescargar, kind)
}

// CanUpload reports upload access for a file kind.
func (r Resolver) CanUpload(kind string) bool {
	return r.canFile(FileOpSubir, kind)
}

func (r Resolver) canFile(op FileOp, kind string) bool {
	if !r.authenticated {
		return false
	}
	if r.IsAdmin() {
		return true
	}
	cat, ok := NormalizeCategory(kind)
	if !ok {
		return false
	}
	return r.grants.FileAllowed(FileKey{Op: op, Category: cat})
}

// CanManageUsers reports access to user administration.
func (r Resolver) CanManageUsers() bool {
	if !r.authenticated {
		return false
	}
	if r.IsAdmin() {
		return true
	}
	return r.grants.ExtraAllowed(KeyManageUsers)
}

// EffectiveGrants returns the permission map a client should see: the full
// map for admin roles, the stored grants otherwise.
func (r Resolver) EffectiveGrants() Grants {
	if r.IsAdmin() {
		return FullGrants()
	}
	return r.grants
}
