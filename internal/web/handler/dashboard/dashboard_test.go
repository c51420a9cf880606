package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/config"
	"github.com/adminconsole/admin-console/internal/db/models"
	"github.com/adminconsole/admin-console/internal/web/handler"
)

func TestGet(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Setting{}, &models.ActivityLog{}))

	require.NoError(t, db.Create(&models.User{Active: true, Email: "ada@example.com", Role: models.RoleAdmin}).Error)
	require.NoError(t, db.Create(&models.Setting{Category: "theme", Key: "fontSize", Value: "14", DataType: models.DataTypeNumber}).Error)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 7 {
		require.NoError(t, db.Create(&models.ActivityLog{
			EventID:    fmt.Sprintf("e%d", i),
			ActionType: models.ActionSettingChanged,
			Title:      fmt.Sprintf("entry %d", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	app := fiber.New()
	s := &Service{}
	s.Init(app.Group(handler.APIPath), &config.Config{Title: "Console"}, db, &handler.Deps{Started: time.Now().Add(-time.Minute)})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data Data
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))

	assert.Equal(t, "Console", data.Title)
	assert.EqualValues(t, 1, data.TotalUsers)
	assert.EqualValues(t, 1, data.StoredSettings)
	assert.GreaterOrEqual(t, data.UptimeSeconds, int64(59))
	require.Len(t, data.Recent, RecentActivity)
	assert.Equal(t, "entry 6", data.Recent[0].Title)
}
