package settings

import "github.com/adminconsole/admin-console/internal/db/models"

// Domain names.
const (
	DomainTheme         = "theme"
	DomainDisplay       = "display"
	DomainSecurity      = "security"
	DomainSystem        = "system"
	DomainNotifications = "notifications"
	DomainAPI           = "api"
)

// Group names.
const (
	GroupTheme   = "theme"
	GroupDisplay = "display"
	GroupSystem  = "system"
)

const colorRule = "required,max=64"

// ThemeSchema declares the look of the console.
func ThemeSchema() *Schema {
	return NewSchema(DomainTheme,
		Field{Key: "primaryColor", Kind: KindColor, Default: Color("#6366f1"), Rule: colorRule},
		Field{Key: "secondaryColor", Kind: KindColor, Default: Color("#8b5cf6"), Rule: colorRule},
		Field{Key: "accentColor", Kind: KindColor, Default: Color("#06b6d4"), Rule: colorRule},
		Field{Key: "backgroundColor", Kind: KindColor, Default: Color("#0f172a"), Rule: colorRule},
		Field{Key: "textColor", Kind: KindColor, Default: Color("#f8fafc"), Rule: colorRule},
		Field{Key: "fontFamily", Kind: KindString, Default: String("Inter"), Rule: "required,max=100"},
		Field{Key: "fontSize", Kind: KindNumber, Default: Number(16), Rule: "min=12,max=24"},
		Field{Key: "borderRadius", Kind: KindNumber, Default: Number(8), Rule: "min=0,max=24"},
		Field{Key: "spacing", Kind: KindNumber, Default: Number(16), Rule: "min=8,max=32"},
		Field{Key: "isDarkMode", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "animations", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "sidebarMode", Kind: KindString, Default: String("auto"), Rule: "oneof=auto light dark"},
		Field{Key: "sidebarState", Kind: KindString, Default: String("full"), Rule: "oneof=compact hybrid full"},
	)
}

// DisplaySchema declares the layout of the console.
func DisplaySchema() *Schema {
	return NewSchema(DomainDisplay,
		Field{Key: "defaultScreenSize", Kind: KindString, Default: String("desktop"), Rule: "oneof=mobile tablet desktop"},
		Field{Key: "mobileBreakpoint", Kind: KindNumber, Default: Number(768), Rule: "min=320,max=1200"},
		Field{Key: "tabletBreakpoint", Kind: KindNumber, Default: Number(1024), Rule: "min=600,max=1400"},
		Field{Key: "desktopBreakpoint", Kind: KindNumber, Default: Number(1280), Rule: "min=1000,max=1920"},
		Field{Key: "sidebarWidth", Kind: KindNumber, Default: Number(280), Rule: "min=200,max=400"},
		Field{Key: "headerHeight", Kind: KindNumber, Default: Number(64), Rule: "min=40,max=120"},
		Field{Key: "contentMaxWidth", Kind: KindNumber, Default: Number(1200), Rule: "min=800,max=1600"},
		Field{Key: "gridColumns", Kind: KindNumber, Default: Number(12), Rule: "min=1,max=24"},
		Field{Key: "responsiveImages", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "stickyHeader", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "compactMode", Kind: KindBoolean, Default: Bool(false)},
	).WithInfer(InferStructured)
}

// SecuritySchema declares authentication and audit policies.
func SecuritySchema() *Schema {
	return NewSchema(DomainSecurity,
		Field{Key: "enableTwoFactor", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "sessionTimeout", Kind: KindNumber, Default: Number(30), Rule: "min=1,max=1440"},
		Field{Key: "passwordPolicy", Kind: KindString, Default: String("strict"), Rule: "oneof=basic moderate strict"},
		Field{Key: "enableAuditLog", Kind: KindBoolean, Default: Bool(true)},
	)
}

// SystemSchema declares runtime switches.
func SystemSchema() *Schema {
	return NewSchema(DomainSystem,
		Field{Key: "maintenanceMode", Kind: KindBoolean, Default: Bool(false)},
		Field{Key: "debugMode", Kind: KindBoolean, Default: Bool(false)},
		Field{Key: "cacheEnabled", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "backupFrequency", Kind: KindString, Default: String("daily"), Rule: "oneof=hourly daily weekly"},
	)
}

// NotificationsSchema declares who is told about what.
func NotificationsSchema() *Schema {
	return NewSchema(DomainNotifications,
		Field{Key: "emailNotifications", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "systemAlerts", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "errorReporting", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "reportingEmail", Kind: KindString, Default: String("admin@example.com"), Rule: "omitempty,email"},
	)
}

// APISchema declares limits of the public api.
func APISchema() *Schema {
	return NewSchema(DomainAPI,
		Field{Key: "rateLimitEnabled", Kind: KindBoolean, Default: Bool(true)},
		Field{Key: "maxRequestsPerMinute", Kind: KindNumber, Default: Number(1000), Rule: "min=1,max=100000"},
		Field{Key: "apiVersioning", Kind: KindString, Default: String("v1"), Rule: "oneof=v1 v2 beta"},
		Field{Key: "corsEnabled", Kind: KindBoolean, Default: Bool(true)},
	)
}

// DefaultGroups returns the theme, display and system groups.
func DefaultGroups() []Group {
	return []Group{
		{
			Name:        GroupTheme,
			Domains:     []string{DomainTheme},
			Strategy:    Incremental,
			Action:      models.ActionThemeUpdated,
			Title:       "Theme settings updated",
			Description: "Updated theme settings including colors, typography, and layout preferences",
		},
		{
			Name:        GroupDisplay,
			Domains:     []string{DomainDisplay},
			Strategy:    ReplaceAll,
			Action:      models.ActionDisplayUpdated,
			Title:       "Display settings updated",
			Description: "Updated display settings including breakpoints, layout dimensions, and display options",
		},
		{
			Name:        GroupSystem,
			Domains:     []string{DomainSecurity, DomainSystem, DomainNotifications, DomainAPI},
			Strategy:    ReplaceAll,
			Action:      models.ActionSystemUpdated,
			Title:       "System settings updated",
			Description: "Updated security, system, notification, and API settings",
		},
	}
}

// DefaultRegistry returns the registry of the console domains and groups.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		[]*Schema{ThemeSchema(), DisplaySchema(), SecuritySchema(), SystemSchema(), NotificationsSchema(), APISchema()},
		DefaultGroups(),
	)
	if err != nil {
		// static declarations, a failure is a programming error
		panic(err)
	}

	return r
}
