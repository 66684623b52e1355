package locations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

func setupLocationsTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	locations := `
CREATE TABLE IF NOT EXISTS locations (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT,
  city TEXT,
  country TEXT,
  phone TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	companyLocations := `
CREATE TABLE IF NOT EXISTS company_locations (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT,
  city TEXT,
  country TEXT,
  phone TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	vehicles := `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  location_id TEXT,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  plate TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'available',
  daily_rate NUMERIC NOT NULL DEFAULT 0,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT,
  pickup_location_id TEXT,
  return_location_id TEXT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, stmt := range []string{locations, companyLocations, vehicles, bookings} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return db.NewFromGorm(conn)
}

func TestCreateDualSharesOneID(t *testing.T) {
	client := setupLocationsTestDB(t)
	repo := NewRepository(client)
	companyID := uuid.New()

	created, err := repo.CreateDual(context.Background(), CreateLocationDTO{
		CompanyID: companyID,
		Name:      "Airport Desk",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	var mirror models.CompanyLocation
	require.NoError(t, client.DB().Where("id = ?", created.ID).First(&mirror).Error)
	assert.Equal(t, created.ID, mirror.ID)
	assert.Equal(t, companyID, mirror.CompanyID)
	assert.Equal(t, "Airport Desk", mirror.Name)
}

func TestUpdateDualKeepsMirrorInSync(t *testing.T) {
	client := setupLocationsTestDB(t)
	repo := NewRepository(client)

	created, err := repo.CreateDual(context.Background(), CreateLocationDTO{
		CompanyID: uuid.New(),
		Name:      "Downtown",
	})
	require.NoError(t, err)

	city := "Lisbon"
	created.Name = "Downtown Branch"
	created.City = &city
	require.NoError(t, repo.UpdateDual(context.Background(), created))

	var mirror models.CompanyLocation
	require.NoError(t, client.DB().Where("id = ?", created.ID).First(&mirror).Error)
	assert.Equal(t, "Downtown Branch", mirror.Name)
	require.NotNil(t, mirror.City)
	assert.Equal(t, "Lisbon", *mirror.City)
}

func TestDeleteDualDetachesVehicles(t *testing.T) {
	client := setupLocationsTestDB(t)
	repo := NewRepository(client)
	companyID := uuid.New()

	created, err := repo.CreateDual(context.Background(), CreateLocationDTO{
		CompanyID: companyID,
		Name:      "Harbor",
	})
	require.NoError(t, err)

	parked := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		vehicle := models.Vehicle{
			ID:         uuid.New(),
			CompanyID:  companyID,
			LocationID: &created.ID,
			Make:       "Toyota",
			Model:      "Yaris",
			Year:       2021,
			Plate:      uuid.NewString()[:8],
		}
		require.NoError(t, client.DB().Create(&vehicle).Error)
		parked = append(parked, vehicle.ID)
	}

	require.NoError(t, repo.DeleteDual(context.Background(), created.ID))

	var locCount, mirrorCount int64
	require.NoError(t, client.DB().Model(&models.Location{}).Where("id = ?", created.ID).Count(&locCount).Error)
	require.NoError(t, client.DB().Model(&models.CompanyLocation{}).Where("id = ?", created.ID).Count(&mirrorCount).Error)
	assert.Zero(t, locCount)
	assert.Zero(t, mirrorCount)

	for _, id := range parked {
		var vehicle models.Vehicle
		require.NoError(t, client.DB().Where("id = ?", id).First(&vehicle).Error)
		assert.Nil(t, vehicle.LocationID, "vehicle must survive with a null location")
	}
}

func TestDeleteDualDetachesBookings(t *testing.T) {
	client := setupLocationsTestDB(t)
	repo := NewRepository(client)
	companyID := uuid.New()

	created, err := repo.CreateDual(context.Background(), CreateLocationDTO{
		CompanyID: companyID,
		Name:      "Station",
	})
	require.NoError(t, err)

	booking := models.Booking{
		ID:               uuid.New(),
		CompanyID:        companyID,
		VehicleID:        uuid.New(),
		CustomerName:     "Ada Reyes",
		CustomerEmail:    "ada@example.com",
		PickupLocationID: &created.ID,
		ReturnLocationID: &created.ID,
		StartDate:        time.Now(),
		EndDate:          time.Now().Add(48 * time.Hour),
		Status:           enums.BookingStatusReturned,
	}
	require.NoError(t, client.DB().Create(&booking).Error)

	require.NoError(t, repo.DeleteDual(context.Background(), created.ID))

	var reloaded models.Booking
	require.NoError(t, client.DB().Where("id = ?", booking.ID).First(&reloaded).Error)
	assert.Nil(t, reloaded.PickupLocationID, "booking must survive with a null pickup location")
	assert.Nil(t, reloaded.ReturnLocationID, "booking must survive with a null return location")
}
