package settings

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Theme is the typed view of the theme domain.
type Theme struct {
	PrimaryColor    string  `mapstructure:"primaryColor"`
	SecondaryColor  string  `mapstructure:"secondaryColor"`
	AccentColor     string  `mapstructure:"accentColor"`
	BackgroundColor string  `mapstructure:"backgroundColor"`
	TextColor       string  `mapstructure:"textColor"`
	FontFamily      string  `mapstructure:"fontFamily"`
	FontSize        float64 `mapstructure:"fontSize"`
	BorderRadius    float64 `mapstructure:"borderRadius"`
	Spacing         float64 `mapstructure:"spacing"`
	IsDarkMode      bool    `mapstructure:"isDarkMode"`
	Animations      bool    `mapstructure:"animations"`
	SidebarMode     string  `mapstructure:"sidebarMode"`
	SidebarState    string  `mapstructure:"sidebarState"`
}

// Security is the typed view of the security domain.
type Security struct {
	EnableTwoFactor bool   `mapstructure:"enableTwoFactor"`
	SessionTimeout  int    `mapstructure:"sessionTimeout"` // minutes
	PasswordPolicy  string `mapstructure:"passwordPolicy"`
	EnableAuditLog  bool   `mapstructure:"enableAuditLog"`
}

// System is the typed view of the system domain.
type System struct {
	MaintenanceMode bool   `mapstructure:"maintenanceMode"`
	DebugMode       bool   `mapstructure:"debugMode"`
	CacheEnabled    bool   `mapstructure:"cacheEnabled"`
	BackupFrequency string `mapstructure:"backupFrequency"`
}

// API is the typed view of the api domain.
type API struct {
	RateLimitEnabled     bool   `mapstructure:"rateLimitEnabled"`
	MaxRequestsPerMinute int    `mapstructure:"maxRequestsPerMinute"`
	APIVersioning        string `mapstructure:"apiVersioning"`
	CORSEnabled          bool   `mapstructure:"corsEnabled"`
}

// Bind decodes values into the struct pointed to by out.
// Numbers are converted to int fields and raw string fallbacks are parsed where possible.
func Bind(values Values, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("create settings decoder: %w", err)
	}

	if err = dec.Decode(values.Plain()); err != nil {
		return fmt.Errorf("bind settings: %w", err)
	}

	return nil
}
