package permission

import "encoding/json"

// Grants is a sparse permission map for one user. Missing keys deny.
//
// The wire and storage form is a flat JSON object of string keys to booleans.
// Decoding is lenient by contract: unknown keys and non-boolean-true values
// ("true", 1, null) are dropped, so they resolve to a deny instead of an
// error.
type Grants struct {
	modules map[Key]bool
	files   map[FileKey]bool
	extra   map[string]bool // standalone keys such as gestionar_usuarios
}

// NewGrants creates an empty grant set.
func NewGrants() Grants {
	return Grants{
		modules: make(map[Key]bool),
		files:   make(map[FileKey]bool),
		extra:   make(map[string]bool),
	}
}

// Set records a module grant.
func (g Grants) Set(k Key, allowed bool) {
	g.modules[k] = allowed
}

// SetFile records a file grant.
func (g Grants) SetFile(k FileKey, allowed bool) {
	g.files[k] = allowed
}

// SetRaw records a grant by its wire key. Unknown keys that are neither
// module, file, nor standalone keys are ignored.
func (g Grants) SetRaw(key string, allowed bool) {
	if k, ok := ParseKey(key); ok {
		g.modules[k] = allowed
		return
	}
	if fk, ok := ParseFileKey(key); ok {
		g.files[fk] = allowed
		return
	}
	if key == KeyManageUsers {
		g.extra[key] = allowed
	}
}

// Allowed reports whether the module grant is present and strictly true.
func (g Grants) Allowed(k Key) bool {
	return g.modules[k]
}

// FileAllowed reports whether the file grant is present and strictly true.
func (g Grants) FileAllowed(k FileKey) bool {
	return g.files[k]
}

// ExtraAllowed reports a standalone grant.
func (g Grants) ExtraAllowed(key string) bool {
	return g.extra[key]
}

// Len returns the number of stored grants.
func (g Grants) Len() int {
	return len(g.modules) + len(g.files) + len(g.extra)
}

// Wire returns the flat string-keyed map form.
func (g Grants) Wire() map[string]bool {
	out := make(map[string]bool, g.Len())
	for k, v := range g.modules {
		out[k.String()] = v
	}
	for k, v := range g.files {
		out[k.String()] = v
	}
	for k, v := range g.extra {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the flat wire form.
func (g Grants) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Wire())
}

// UnmarshalJSON decodes the flat wire form. Only values that are the JSON
// boolean true or false are kept; anything else denies by absence.
func (g *Grants) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = NewGrants()
	for key, v := range raw {
		b, ok := v.(bool)
		if !ok {
			continue
		}
		g.SetRaw(key, b)
	}
	return nil
}

// FromWire builds grants from a flat map.
func FromWire(raw map[string]bool) Grants {
	g := NewGrants()
	for key, v := range raw {
		g.SetRaw(key, v)
	}
	return g
}

// FullGrants returns every known key set to true. Used to render the
// effective permission map of admin roles, which never consult grants.
func FullGrants() Grants {
	g := NewGrants()
	for _, m := range Modules {
		for _, a := range Actions {
			g.Set(Key{Module: m, Action: a}, true)
		}
	}
	for _, c := range FileCategories {
		g.SetFile(FileKey{Op: FileOpDescargar, Category: c}, true)
		g.SetFile(FileKey{Op: FileOpSubir, Category: c}, true)
	}
	g.extra[KeyManageUsers] = true
	return g
}

// DefaultsForEditor returns the stock editor grant set: full view/create/edit,
// no delete, every file operation except downloading cost documents.
func DefaultsForEditor() Grants {
	g := NewGrants()
	for _, m := range Modules {
		g.Set(Key{Module: m, Action: ActionVer}, true)
		g.Set(Key{Module: m, Action: ActionCrear}, true)
		g.Set(Key{Module: m, Action: ActionEditar}, true)
		g.Set(Key{Module: m, Action: ActionEliminar}, false)
	}
	for _, c := range FileCategories {
		g.SetFile(FileKey{Op: FileOpDescargar, Category: c}, c != CategoryCostos)
		g.SetFile(FileKey{Op: FileOpSubir, Category: c}, true)
	}
	g.extra[KeyManageUsers] = false
	return g
}

// DefaultsForViewer returns the stock viewer grant set: view only, and image
// download as the single file permission.
func DefaultsForViewer() Grants {
	g := NewGrants()
	for _, m := range Modules {
		g.Set(Key{Module: m, Action: ActionVer}, true)
		g.Set(Key{Module: m, Action: ActionCrear}, false)
		g.Set(Key{Module: m, Action: ActionEditar}, false)
		g.Set(Key{Module: m, Action: ActionEliminar}, false)
	}
	for _, c := range FileCategories {
		g.SetFile(FileKey{Op: FileOpDescargar, Category: c}, c == CategoryImagenes)
		g.SetFile(FileKey{Op: FileOpSubir, Category: c}, false)
	}
	g.extra[KeyManageUsers] = false
	return g
}
