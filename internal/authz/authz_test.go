package authz

import "testing"

func TestEval_LinkedNoRoleRequired(t *testing.T) {
	bindings := []Binding{
		{MerchantID: "m1", Roles: RoleView},
		{MerchantID: "m2", Roles: RoleAdmin},
	}
	if err := Eval(bindings, "m2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEval_NotLinked(t *testing.T) {
	bindings := []Binding{{MerchantID: "m1", Roles: RoleAdmin}}
	if err := Eval(bindings, "m2"); err == nil {
		t.Fatalf("expected denial for unlinked merchant")
	}
}

func TestEval_RoleMismatch(t *testing.T) {
	bindings := []Binding{{MerchantID: "m1", Roles: RoleView}}
	if err := Eval(bindings, "m1", RoleAdmin); err == nil {
		t.Fatalf("expected denial for wrong role")
	}
}

func TestEval_RoleInAcceptableSet(t *testing.T) {
	bindings := []Binding{{MerchantID: "m1", Roles: RoleView}}
	if err := Eval(bindings, "m1", RoleAdmin, RoleView); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEval_FirstMatchWins(t *testing.T) {
	// Duplicate bindings are not deduplicated upstream; the first decides.
	bindings := []Binding{
		{MerchantID: "m1", Roles: RoleView},
		{MerchantID: "m1", Roles: RoleAdmin},
	}
	if err := Eval(bindings, "m1", RoleAdmin); err == nil {
		t.Fatalf("expected first binding to decide")
	}
}

func TestEval_EmptyBindings(t *testing.T) {
	if err := Eval(nil, "m1"); err == nil {
		t.Fatalf("expected denial with no bindings")
	}
}
