// Package permission models the per-module, per-action permission scheme.
//
// Permissions are stored and transmitted as flat string keys
// ("telas_editar", "descargar_patrones") but handled internally as typed
// (module, action) and (operation, category) pairs so that a typo in a key
// cannot silently become a deny.
package permission

import "strings"

// Module identifies a CRUD entity category used as the unit of permission
// granularity.
type Module string

const (
	ModuleMarcas   Module = "marcas"
	ModuleTipos    Module = "tipos"
	ModuleEntalles Module = "entalles"
	ModuleTelas    Module = "telas"
	ModuleMuestras Module = "muestras"
	ModuleBases    Module = "bases"
	ModuleTizados  Module = "tizados"
	ModuleFichas   Module = "fichas"
)

// Modules lists every known module.
var Modules = []Module{
	ModuleMarcas, ModuleTipos, ModuleEntalles, ModuleTelas,
	ModuleMuestras, ModuleBases, ModuleTizados, ModuleFichas,
}

// IsValid checks if the module is a known one.
func (m Module) IsValid() bool {
	switch m {
	case ModuleMarcas, ModuleTipos, ModuleEntalles, ModuleTelas,
		ModuleMuestras, ModuleBases, ModuleTizados, ModuleFichas:
		return true
	}
	return false
}

// String returns the string representation of the module.
func (m Module) String() string {
	return string(m)
}

// Action identifies a CRUD action within a module.
type Action string

const (
	ActionVer      Action = "ver"
	ActionCrear    Action = "crear"
	ActionEditar   Action = "editar"
	ActionEliminar Action = "eliminar"
)

// Actions lists every known action.
var Actions = []Action{ActionVer, ActionCrear, ActionEditar, ActionEliminar}

// IsValid checks if the action is a known one.
func (a Action) IsValid() bool {
	switch a {
	case ActionVer, ActionCrear, ActionEditar, ActionEliminar:
		return true
	}
	return false
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// Key is a typed (module, action) permission key.
type Key struct {
	Module Module
	Action Action
}

// String returns the wire encoding, "<module>_<action>".
func (k Key) String() string {
	return string(k.Module) + "_" + string(k.Action)
}

// IsValid checks both components.
func (k Key) IsValid() bool {
	return k.Module.IsValid() && k.Action.IsValid()
}

// ParseKey parses a wire key of the form "<module>_<action>".
// Returns ok=false for anything that is not a known module/action pair.
func ParseKey(s string) (Key, bool) {
	i := strings.LastIndex(s, "_")
	if i <= 0 || i == len(s)-1 {
		return Key{}, false
	}
	k := Key{Module: Module(s[:i]), Action: Action(s[i+1:])}
	if !k.IsValid() {
		return Key{}, false
	}
	return k, true
}

// FileOp is the operation side of a file permission.
type FileOp string

const (
	FileOpDescargar FileOp = "descargar"
	FileOpSubir     FileOp = "subir"
)

// FileCategory identifies a category of stored files. Categories live in a
// namespace separate from modules: "descargar_tizados" and "tizados_ver" are
// unrelated grants.
type FileCategory string

const (
	CategoryPatrones FileCategory = "patrones"
	CategoryTizados  FileCategory = "tizados"
	CategoryFichas   FileCategory = "fichas"
	CategoryImagenes FileCategory = "imagenes"
	CategoryCostos   FileCategory = "costos"
)

// FileCategories lists every known file category.
var FileCategories = []FileCategory{
	CategoryPatrones, CategoryTizados, CategoryFichas,
	CategoryImagenes, CategoryCostos,
}

// IsValid checks if the category is a known one.
func (c FileCategory) IsValid() bool {
	switch c {
	case CategoryPatrones, CategoryTizados, CategoryFichas, CategoryImagenes, CategoryCostos:
		return true
	}
	return false
}

// NormalizeCategory maps singular and plural user-facing kinds to the
// canonical plural category. Unknown kinds return ok=false, which callers
// treat as a deny, never an error.
func NormalizeCategory(kind string) (FileCategory, bool) {
	switch kind {
	case "patron", "patrones":
		return CategoryPatrones, true
	case "tizado", "tizados":
		return CategoryTizados, true
	case "ficha", "fichas":
		return CategoryFichas, true
	case "imagen", "imagenes":
		return CategoryImagenes, true
	case "costo", "costos":
		return CategoryCostos, true
	}
	return "", false
}

// FileKey is a typed (operation, category) file permission key.
type FileKey struct {
	Op       FileOp
	Category FileCategory
}

// String returns the wire encoding, "descargar_<categoria>" or
// "subir_<categoria>".
func (k FileKey) String() string {
	return string(k.Op) + "_" + string(k.Category)
}

// ParseFileKey parses a wire file-permission key.
func ParseFileKey(s string) (FileKey, bool) {
	for _, op := range []FileOp{FileOpDescargar, FileOpSubir} {
		prefix := string(op) + "_"
		if strings.HasPrefix(s, prefix) {
			c := FileCategory(strings.TrimPrefix(s, prefix))
			if c.IsValid() {
				return FileKey{Op: op, Category: c}, true
			}
		}
	}
	return FileKey{}, false
}

// KeyManageUsers is the standalone grant for user administration. It is never
// granted to non-admin roles; admin roles bypass the lookup anyway.
const KeyManageUsers = "gestionar_usuarios"
