package permission

import (
	"encoding/json"
	"testing"
)

func TestAdminRolesBypassGrants(t *testing.T) {
	denied := NewGrants()
	denied.Set(Key{Module: ModuleBases, Action: ActionEliminar}, false)

	for _, role := range []string{"admin", "super_admin"} {
		for _, grants := range []Grants{NewGrants(), denied} {
			r := NewResolver(role, grants)
			for _, m := range Modules {
				for _, a := range Actions {
					if !r.CanAccess(m, a) {
						t.Errorf("role %s: expected allow for %s_%s", role, m, a)
					}
				}
			}
			if !r.CanDownload("patron") || !r.CanUpload("costos") {
				t.Errorf("role %s: expected file access", role)
			}
		}
	}
}

func TestPrivilegedRoleMatchIsExact(t *testing.T) {
	for _, role := range []string{"Admin", "ADMIN", "Super_Admin", "administrator", ""} {
		r := NewResolver(role, NewGrants())
		if r.CanAccess(ModuleTelas, ActionVer) {
			t.Errorf("role %q must not be privileged", role)
		}
	}
}

func TestNoSessionDeniesEverything(t *testing.T) {
	r := Anonymous()
	if r.CanAccess(ModuleMarcas, ActionVer) {
		t.Error("anonymous CanAccess must deny")
	}
	if r.CanDownload("imagenes") {
		t.Error("anonymous CanDownload must deny")
	}
	if r.CanUpload("patron") {
		t.Error("anonymous CanUpload must deny")
	}
	if r.CanManageUsers() {
		t.Error("anonymous CanManageUsers must deny")
	}
}

func TestExactTrueSemantics(t *testing.T) {
	// Wire values that are not the JSON boolean true must resolve to deny.
	raw := []byte(`{
		"bases_eliminar": true,
		"bases_editar": false,
		"bases_ver": "true",
		"telas_ver": 1,
		"telas_editar": null
	}`)

	var g Grants
	if err := json.Unmarshal(raw, &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	r := NewResolver("editor", g)
	if !r.CanDelete(ModuleBases) {
		t.Error("bases_eliminar=true must allow")
	}
	if r.CanEdit(ModuleBases) {
		t.Error("bases_editar=false must deny")
	}
	if r.CanCreate(ModuleBases) {
		t.Error("absent bases_crear must deny")
	}
	if r.CanView(ModuleBases) {
		t.Error(`bases_ver="true" (string) must deny`)
	}
	if r.CanView(ModuleTelas) {
		t.Error("telas_ver=1 must deny")
	}
	if r.CanEdit(ModuleTelas) {
		t.Error("telas_editar=null must deny")
	}
}

func TestNoActionInheritance(t *testing.T) {
	g := NewGrants()
	g.Set(Key{Module: ModuleTelas, Action: ActionVer}, true)

	r := NewResolver("viewer", g)
	if !r.CanView(ModuleTelas) {
		t.Error("telas_ver must allow")
	}
	for _, a := range []Action{ActionCrear, ActionEditar, ActionEliminar} {
		if r.CanAccess(ModuleTelas, a) {
			t.Errorf("telas_%s must deny: ver implies nothing", a)
		}
	}
}

func TestFileKindNormalization(t *testing.T) {
	g := NewGrants()
	g.SetFile(FileKey{Op: FileOpDescargar, Category: CategoryPatrones}, true)
	r := NewResolver("editor", g)

	if !r.CanDownload("patron") {
		t.Error(`CanDownload("patron") must resolve to descargar_patrones`)
	}
	if !r.CanDownload("patrones") {
		t.Error(`CanDownload("patrones") must resolve to descargar_patrones`)
	}
	if r.CanDownload("patron") != r.CanDownload("patrones") {
		t.Error("singular and plural kinds must agree")
	}
	if r.CanUpload("patron") {
		t.Error("download grant implies nothing about upload")
	}
	if r.CanDownload("planos") {
		t.Error("unknown kind must deny, not panic")
	}
}

func TestFileNamespaceIsSeparateFromModules(t *testing.T) {
	g := NewGrants()
	g.Set(Key{Module: ModuleTizados, Action: ActionVer}, true)
	g.Set(Key{Module: ModuleTizados, Action: ActionEditar}, true)

	r := NewResolver("editor", g)
	if r.CanDownload("tizados") {
		t.Error("tizados_ver must not grant descargar_tizados")
	}
	if r.CanUpload("tizado") {
		t.Error("tizados_editar must not grant subir_tizados")
	}
}

func TestParseKeyRejectsUnknown(t *testing.T) {
	cases := []string{"", "_", "telas_", "_ver", "telas", "planchas_ver", "telas_borrar", "descargar_patrones"}
	for _, c := range cases {
		if _, ok := ParseKey(c); ok {
			t.Errorf("ParseKey(%q) must fail", c)
		}
	}
	k, ok := ParseKey("muestras_eliminar")
	if !ok || k.Module != ModuleMuestras || k.Action != ActionEliminar {
		t.Errorf("ParseKey(muestras_eliminar) = %v, %v", k, ok)
	}
}

func TestGrantsWireRoundTrip(t *testing.T) {
	g := DefaultsForEditor()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Grants
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != g.Len() {
		t.Errorf("round trip lost grants: %d != %d", back.Len(), g.Len())
	}
	if !back.FileAllowed(FileKey{Op: FileOpSubir, Category: CategoryCostos}) {
		t.Error("editor defaults must allow subir_costos")
	}
	if back.FileAllowed(FileKey{Op: FileOpDescargar, Category: CategoryCostos}) {
		t.Error("editor defaults must deny descargar_costos")
	}
}

func TestScenarioEditorSparseMap(t *testing.T) {
	// role=editor, map = {bases_eliminar: true, bases_editar: false}
	g := FromWire(map[string]bool{
		"bases_eliminar": true,
		"bases_editar":   false,
	})
	r := NewResolver("editor", g)

	if !r.CanDelete(ModuleBases) {
		t.Error("canDelete(bases) expected true")
	}
	if r.CanEdit(ModuleBases) {
		t.Error("canEdit(bases) expected false")
	}
	if r.CanCreate(ModuleBases) {
		t.Error("canCreate(bases) expected false (key absent)")
	}
}
