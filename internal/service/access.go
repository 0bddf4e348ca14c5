package service

import "github.com/JSSP85/SolarApp-sub002/internal/model"

// Feature names gated by role. The table is static; roles outside it are
// denied everything.
const (
	FeatureCreate    = "create"
	FeatureTracking  = "tracking"
	FeatureHistory   = "history"
	FeatureDatabase  = "database" // bulk edits, field edits, deletion
	FeatureDashboard = "dashboard"
	FeatureAnalytics = "analytics"
	FeatureExport    = "export"
)

// featureRoles maps each feature to the roles allowed to use it.
var featureRoles = map[string][]string{
	FeatureCreate:    {model.RoleAdmin, model.RoleManager, model.RoleInspector},
	FeatureTracking:  {model.RoleAdmin, model.RoleManager, model.RoleInspector},
	FeatureHistory:   {model.RoleAdmin, model.RoleManager, model.RoleInspector},
	FeatureDatabase:  {model.RoleAdmin, model.RoleManager},
	FeatureDashboard: {model.RoleAdmin, model.RoleManager},
	FeatureAnalytics: {model.RoleAdmin},
	FeatureExport:    {model.RoleAdmin, model.RoleManager},
}

// CanAccess reports whether role may use feature. Unknown roles and
// unknown features are both denied.
func CanAccess(role, feature string) bool {
	for _, r := range featureRoles[feature] {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor returns the roles allowed to use feature, for router wiring.
func RolesFor(feature string) []string {
	return featureRoles[feature]
}
