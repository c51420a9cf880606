package daemon

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/db/controller/setting"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/settings"
)

// seed stores the default of every declared key that has no record yet.
// It returns the number of created records.
func seed(db *gorm.DB, registry *settings.Registry) (int, error) {
	created := 0

	for _, domain := range registry.Domains() {
		schema, err := registry.Lookup(domain)
		if err != nil {
			return created, err
		}

		stored, err := setting.List(db, domain)
		if err != nil {
			return created, fmt.Errorf("list %s: %w", domain, err)
		}

		have := make(map[string]bool, len(stored))
		for _, rec := range stored {
			have[rec.Key] = true
		}

		for _, f := range schema.Fields {
			if have[f.Key] {
				continue
			}

			_, err = setting.Create(db, models.Setting{
				Category: domain,
				Key:      f.Key,
				Value:    f.Default.Encode(),
				Label:    settings.Label(f.Key),
				DataType: schema.DataType(f.Key, f.Default),
			})
			if err != nil {
				return created, fmt.Errorf("seed %s.%s: %w", domain, f.Key, err)
			}

			created++
		}
	}

	return created, nil
}

// applyStrategies overrides the default save strategy of the configured groups.
func applyStrategies(registry *settings.Registry, cfg config.Settings) error {
	for group, name := range cfg.Strategies {
		strategy, err := settings.ParseStrategy(name)
		if err != nil {
			return fmt.Errorf("group %s: %w", group, err)
		}

		if err = registry.SetStrategy(group, strategy); err != nil {
			return err
		}
	}

	return nil
}
