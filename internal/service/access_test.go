package service

import (
	"testing"

	"github.com/JSSP85/SolarApp-sub002/internal/model"
)

func TestCanAccess_AnalyticsIsAdminOnly(t *testing.T) {
	if !CanAccess(model.RoleAdmin, FeatureAnalytics) {
		t.Error("admin should access analytics")
	}
	if CanAccess(model.RoleManager, FeatureAnalytics) {
		t.Error("manager must not access analytics")
	}
	if CanAccess(model.RoleInspector, FeatureAnalytics) {
		t.Error("inspector must not access analytics")
	}
}

func TestCanAccess_Table(t *testing.T) {
	cases := []struct {
		role    string
		feature string
		want    bool
	}{
		{model.RoleInspector, FeatureCreate, true},
		{model.RoleInspector, FeatureTracking, true},
		{model.RoleInspector, FeatureHistory, true},
		{model.RoleInspector, FeatureDatabase, false},
		{model.RoleInspector, FeatureDashboard, false},
		{model.RoleInspector, FeatureExport, false},
		{model.RoleManager, FeatureDatabase, true},
		{model.RoleManager, FeatureDashboard, true},
		{model.RoleManager, FeatureExport, true},
		{model.RoleAdmin, FeatureDatabase, true},
	}
	for _, c := range cases {
		if got := CanAccess(c.role, c.feature); got != c.want {
			t.Errorf("CanAccess(%s, %s) = %v, want %v", c.role, c.feature, got, c.want)
		}
	}
}

func TestCanAccess_UnknownRoleOrFeature(t *testing.T) {
	if CanAccess("guest", FeatureTracking) {
		t.Error("unknown role must be denied")
	}
	if CanAccess(model.RoleAdmin, "unknown-feature") {
		t.Error("unknown feature must be denied")
	}
}

func TestRolesFor(t *testing.T) {
	roles := RolesFor(FeatureAnalytics)
	if len(roles) != 1 || roles[0] != model.RoleAdmin {
		t.Errorf("expected analytics limited to admin, got %v", roles)
	}
	if len(RolesFor("unknown-feature")) != 0 {
		t.Error("unknown feature must map to no roles")
	}
}
