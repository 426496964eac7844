package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhammadRafly8/parkir-ukk/internal/auth"
	"github.com/MuhammadRafly8/parkir-ukk/internal/db"
	"github.com/MuhammadRafly8/parkir-ukk/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newTestStore opens a private in-memory SQLite database with the full schema.
func newTestStore(t *testing.T) (*gormStore, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	s := NewGormStore(gormDB).(*gormStore)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s, gormDB
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies sqlmock.Argument interface.
func (a Any) Match(v driver.Value) bool {
	return true
}

func ptr[T any](v T) *T { return &v }

func TestGormStore_UpdateAreaCapacityIsConditional(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "areas" WHERE "areas"."id" = $1`)).
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "occupied"}).AddRow(4, "Area A", 10, 6))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "areas" SET "capacity"=$1,"updated_at"=$2 WHERE id = $3 AND occupied <= $4`)).
		WithArgs(5, Any{}, 4, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.UpdateArea(context.Background(), 4, AreaUpdate{Capacity: ptr(5)})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Areas(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateArea(ctx, "Area B", 30)
	require.NoError(t, err)
	a, err := s.CreateArea(ctx, " Area A ", 2)
	require.NoError(t, err)
	assert.Equal(t, "Area A", a.Name)

	_, err = s.CreateArea(ctx, "Area A", 5)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.CreateArea(ctx, "Area C", 0)
	assert.ErrorIs(t, err, ErrInvalid)

	areas, err := s.ListAreas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Area A", areas[0].Name)

	require.NoError(t, gormDB.Model(&model.Area{}).Where("id = ?", a.ID).Update("occupied", 2).Error)

	_, err = s.UpdateArea(ctx, a.ID, AreaUpdate{Capacity: ptr(1)})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := s.UpdateArea(ctx, a.ID, AreaUpdate{Name: ptr("Area A1"), Capacity: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Area A1", updated.Name)
	assert.Equal(t, 4, updated.Capacity)
	assert.Equal(t, 2, updated.Available())

	_, err = s.UpdateArea(ctx, a.ID, AreaUpdate{Name: ptr("Area B")})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.UpdateArea(ctx, 999, AreaUpdate{Name: ptr("X")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteArea(ctx, a.ID), ErrConflict, "occupied area")
	require.NoError(t, s.DeleteArea(ctx, b.ID))
	assert.ErrorIs(t, s.DeleteArea(ctx, b.ID), ErrNotFound)
}

func TestGormStore_DeleteAreaWithHistory(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	area, err := s.CreateArea(ctx, "Area A", 5)
	require.NoError(t, err)
	require.NoError(t, gormDB.Create(&model.ParkingSession{
		TicketCode: "t-1", VehicleID: 1, AreaID: area.ID, TariffID: 1,
		HourlyRate: decimal.NewFromInt(2000), Status: model.SessionClosed, EntryOperatorID: 1,
	}).Error)

	assert.ErrorIs(t, s.DeleteArea(ctx, area.ID), ErrConflict)
}

func TestGormStore_OccupancySnapshot(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateArea(ctx, "Area A", 5)
	require.NoError(t, err)
	b, err := s.CreateArea(ctx, "Area B", 5)
	require.NoError(t, err)

	require.NoError(t, gormDB.Model(&model.Area{}).Where("id = ?", a.ID).Update("occupied", 2).Error)
	for i, status := range []model.SessionStatus{model.SessionOpen, model.SessionOpen, model.SessionClosed} {
		require.NoError(t, gormDB.Create(&model.ParkingSession{
			TicketCode: fmt.Sprintf("t-%d", i), VehicleID: int64(i + 1), AreaID: a.ID, TariffID: 1,
			HourlyRate: decimal.NewFromInt(2000), Status: status, EntryOperatorID: 1,
		}).Error)
	}
	require.NoError(t, gormDB.Model(&model.Area{}).Where("id = ?", b.ID).Update("occupied", 1).Error)

	snapshot, err := s.OccupancySnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, int64(2), snapshot[0].OpenSessions)
	assert.True(t, snapshot[0].Consistent())
	assert.Equal(t, int64(0), snapshot[1].OpenSessions)
	assert.False(t, snapshot[1].Consistent())
}

func TestGormStore_OccupancySnapshotIsSingleStatement(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT areas\.\*, \(SELECT COUNT\(\*\) FROM parking_sessions WHERE .+\) AS open_sessions FROM "areas" ORDER BY areas\.id`).
		WithArgs("OPEN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "occupied", "open_sessions"}).
			AddRow(1, "Area A", 10, 3, 3).
			AddRow(2, "Area B", 5, 2, 1))

	snapshot, err := s.OccupancySnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "Area A", snapshot[0].Area.Name)
	assert.True(t, snapshot[0].Consistent())
	assert.Equal(t, int64(1), snapshot[1].OpenSessions)
	assert.False(t, snapshot[1].Consistent())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Slots(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateArea(ctx, "Area A", 5)
	require.NoError(t, err)
	b, err := s.CreateArea(ctx, "Area B", 5)
	require.NoError(t, err)

	a2 := &model.Slot{AreaID: a.ID, Number: " A-02 "}
	require.NoError(t, s.CreateSlot(ctx, a2))
	assert.Equal(t, "A-02", a2.Number)
	assert.Equal(t, model.SlotAvailable, a2.Status)
	require.NoError(t, s.CreateSlot(ctx, &model.Slot{AreaID: a.ID, Number: "A-01", Status: model.SlotBroken}))
	require.NoError(t, s.CreateSlot(ctx, &model.Slot{AreaID: b.ID, Number: "A-01"}), "numbers are unique per area")

	assert.ErrorIs(t, s.CreateSlot(ctx, &model.Slot{AreaID: a.ID, Number: "A-02"}), ErrConflict)
	assert.ErrorIs(t, s.CreateSlot(ctx, &model.Slot{AreaID: a.ID, Number: " "}), ErrInvalid)
	assert.ErrorIs(t, s.CreateSlot(ctx, &model.Slot{AreaID: a.ID, Number: "A-03", Status: "PARKED"}), ErrInvalid)
	assert.ErrorIs(t, s.CreateSlot(ctx, &model.Slot{AreaID: 999, Number: "Z-01"}), ErrNotFound)

	slots, err := s.ListSlots(ctx, SlotFilter{AreaID: a.ID})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "A-01", slots[0].Number)
	require.NotNil(t, slots[0].Area)
	assert.Equal(t, "Area A", slots[0].Area.Name)

	broken, err := s.ListSlots(ctx, SlotFilter{Status: model.SlotBroken})
	require.NoError(t, err)
	require.Len(t, broken, 1)
	_, err = s.ListSlots(ctx, SlotFilter{Status: "PARKED"})
	assert.ErrorIs(t, err, ErrInvalid)

	session := model.ParkingSession{
		TicketCode: "t-1", VehicleID: 1, AreaID: a.ID, TariffID: 1,
		HourlyRate: decimal.NewFromInt(2000), Status: model.SessionOpen, EntryOperatorID: 1,
	}
	require.NoError(t, gormDB.Create(&session).Error)

	occupied := model.SlotOccupied
	updated, err := s.UpdateSlot(ctx, a2.ID, SlotUpdate{Status: &occupied, Reserved: ptr(true), SessionID: ptr(session.ID)})
	require.NoError(t, err)
	assert.Equal(t, model.SlotOccupied, updated.Status)
	assert.True(t, updated.Reserved)
	require.NotNil(t, updated.SessionID)
	assert.Equal(t, session.ID, *updated.SessionID)

	updated, err = s.UpdateSlot(ctx, a2.ID, SlotUpdate{SessionID: ptr(int64(0))})
	require.NoError(t, err)
	assert.Nil(t, updated.SessionID)
	assert.True(t, updated.Reserved)

	_, err = s.UpdateSlot(ctx, a2.ID, SlotUpdate{SessionID: ptr(int64(999))})
	assert.ErrorIs(t, err, ErrNotFound)
	bad := model.SlotStatus("PARKED")
	_, err = s.UpdateSlot(ctx, a2.ID, SlotUpdate{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.UpdateSlot(ctx, 999, SlotUpdate{Reserved: ptr(false)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteSlot(ctx, a2.ID))
	assert.ErrorIs(t, s.DeleteSlot(ctx, a2.ID), ErrNotFound)

	require.NoError(t, s.DeleteArea(ctx, b.ID))
	remaining, err := s.ListSlots(ctx, SlotFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1, "slots of a deleted area go with it")
	assert.Equal(t, a.ID, remaining[0].AreaID)
}

func TestGormStore_Tariffs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	motor, err := s.CreateTariff(ctx, model.CategoryMotor, decimal.NewFromInt(2000))
	require.NoError(t, err)
	_, err = s.CreateTariff(ctx, model.CategoryMotor, decimal.NewFromInt(3000))
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.CreateTariff(ctx, "TRUK", decimal.NewFromInt(3000))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.CreateTariff(ctx, model.CategoryMobil, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalid)

	updated, err := s.UpdateTariff(ctx, motor.ID, decimal.RequireFromString("2500.50"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2500.50").Equal(updated.HourlyRate))

	tariffs, err := s.ListTariffs(ctx)
	require.NoError(t, err)
	assert.Len(t, tariffs, 1)

	require.NoError(t, s.DeleteTariff(ctx, motor.ID))
	assert.ErrorIs(t, s.DeleteTariff(ctx, motor.ID), ErrNotFound)
}

func TestGormStore_Vehicles(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	v := &model.Vehicle{Plate: "b 1234 xy", Category: model.CategoryMotor, Color: "Hitam", OwnerName: "Budi", UserID: 1}
	require.NoError(t, s.CreateVehicle(ctx, v))
	assert.Equal(t, "B 1234 XY", v.Plate)

	dup := &model.Vehicle{Plate: "B  1234 XY", Category: model.CategoryMobil, Color: "Merah", OwnerName: "Sari", UserID: 1}
	assert.ErrorIs(t, s.CreateVehicle(ctx, dup), ErrConflict)
	assert.ErrorIs(t, s.CreateVehicle(ctx, &model.Vehicle{Plate: "D 1", Category: model.CategoryMotor, UserID: 1}), ErrInvalid)

	other := &model.Vehicle{Plate: "D 55 QQ", Category: model.CategoryMobil, Color: "Putih", OwnerName: "Sari", UserID: 1}
	require.NoError(t, s.CreateVehicle(ctx, other))

	found, err := s.SearchVehicles(ctx, "1234 x", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, v.ID, found[0].ID)

	all, err := s.SearchVehicles(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := s.UpdateVehicle(ctx, v.ID, VehicleUpdate{Color: ptr("Biru")})
	require.NoError(t, err)
	assert.Equal(t, "Biru", updated.Color)
	_, err = s.UpdateVehicle(ctx, v.ID, VehicleUpdate{Plate: ptr("d 55 qq")})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, gormDB.Create(&model.ParkingSession{
		TicketCode: "t-1", VehicleID: v.ID, AreaID: 1, TariffID: 1,
		HourlyRate: decimal.NewFromInt(2000), Status: model.SessionClosed, EntryOperatorID: 1,
	}).Error)
	assert.ErrorIs(t, s.DeleteVehicle(ctx, v.ID), ErrConflict)
	require.NoError(t, s.DeleteVehicle(ctx, other.ID))
}

func TestGormStore_Users(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u := &model.User{FullName: "Petugas Dua", Username: "petugas2", Role: model.RolePetugas, Active: true}
	require.NoError(t, s.CreateUser(ctx, u, "rahasia"))
	assert.NotZero(t, u.ID)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "rahasia"))

	assert.ErrorIs(t, s.CreateUser(ctx, &model.User{FullName: "X", Username: "petugas2", Role: model.RoleOwner}, "pw"), ErrConflict)
	assert.ErrorIs(t, s.CreateUser(ctx, &model.User{FullName: "X", Username: "ab", Role: model.RoleOwner}, "pw"), ErrInvalid)
	assert.ErrorIs(t, s.CreateUser(ctx, &model.User{FullName: "X", Username: "abc", Role: "ROOT"}, "pw"), ErrInvalid)

	got, err := s.GetUserByUsername(ctx, "petugas2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	_, err = s.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.UpdateUser(ctx, u.ID, UserUpdate{Password: ptr("baru123"), Active: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, auth.CheckPassword(updated.PasswordHash, "baru123"))

	require.NoError(t, s.AppendActivity(ctx, u.ID, "Logged in"))
	require.NoError(t, s.DeleteUser(ctx, u.ID))
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGormStore_DeleteUserWithSessions(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	u := &model.User{FullName: "Petugas", Username: "petugas", Role: model.RolePetugas, Active: true}
	require.NoError(t, s.CreateUser(ctx, u, "pw"))
	require.NoError(t, gormDB.Create(&model.ParkingSession{
		TicketCode: "t-1", VehicleID: 1, AreaID: 1, TariffID: 1,
		HourlyRate: decimal.NewFromInt(2000), Status: model.SessionOpen, EntryOperatorID: u.ID,
	}).Error)

	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), ErrConflict)
}

func TestGormStore_ActivityAndAlerts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	u := &model.User{FullName: "Admin", Username: "admin", Role: model.RoleAdmin, Active: true}
	require.NoError(t, s.CreateUser(ctx, u, "pw"))
	require.NoError(t, s.AppendActivity(ctx, u.ID, "Logged in"))
	require.NoError(t, s.AppendActivity(ctx, u.ID, "Created area: Area A"))

	logs, err := s.ListActivity(ctx, ActivityFilter{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Created area: Area A", logs[0].Activity)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, "admin", logs[0].User.Username)

	logs, err = s.ListActivity(ctx, ActivityFilter{From: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Empty(t, logs)

	area, err := s.CreateArea(ctx, "Area A", 5)
	require.NoError(t, err)

	alert := &model.Alert{AreaID: area.ID, Type: model.AlertAreaFull, Severity: model.SeverityCritical, Message: "Area A is full"}
	require.NoError(t, s.CreateAlert(ctx, alert))
	assert.ErrorIs(t, s.CreateAlert(ctx, &model.Alert{AreaID: area.ID, Type: "BOGUS", Severity: model.SeverityInfo, Message: "x"}), ErrInvalid)
	assert.ErrorIs(t, s.CreateAlert(ctx, &model.Alert{AreaID: 999, Type: model.AlertSystemWarning, Severity: model.SeverityInfo, Message: "x"}), ErrNotFound)

	unread, err := s.ListAlerts(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.NotNil(t, unread[0].Area)

	read, err := s.MarkAlertRead(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err = s.ListAlerts(ctx, true, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)
	_, err = s.MarkAlertRead(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Subscriptions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sub := &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k1", Auth: "a1", UserID: 1}
	require.NoError(t, s.SaveSubscription(ctx, sub))
	require.NoError(t, s.SaveSubscription(ctx, &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "k2", Auth: "a2", UserID: 2}))

	got, err := s.GetSubscription(ctx, "https://push.example/1")
	require.NoError(t, err)
	assert.Equal(t, "k2", got.P256DH)
	assert.Equal(t, int64(2), got.UserID)

	require.NoError(t, s.DeleteSubscription(ctx, "https://push.example/1"))
	_, err = s.GetSubscription(ctx, "https://push.example/1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ReportAndAnalytics(t *testing.T) {
	s, gormDB := newTestStore(t)
	ctx := context.Background()

	areaA, err := s.CreateArea(ctx, "Area A", 4)
	require.NoError(t, err)
	motor := &model.Vehicle{Plate: "B 1 A", Category: model.CategoryMotor, Color: "Hitam", OwnerName: "Budi", UserID: 1}
	car := &model.Vehicle{Plate: "B 2 A", Category: model.CategoryMobil, Color: "Putih", OwnerName: "Sari", UserID: 1}
	require.NoError(t, s.CreateVehicle(ctx, motor))
	require.NoError(t, s.CreateVehicle(ctx, car))

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	closed := func(ticket string, v *model.Vehicle, entryHour, exitHour int, fee int64) model.ParkingSession {
		exit := day.Add(time.Duration(exitHour) * time.Hour)
		hours := exitHour - entryHour
		return model.ParkingSession{
			TicketCode: ticket, VehicleID: v.ID, AreaID: areaA.ID, TariffID: 1,
			HourlyRate: decimal.NewFromInt(fee / int64(hours)), EntryTime: day.Add(time.Duration(entryHour) * time.Hour),
			ExitTime: &exit, DurationHours: &hours, TotalFee: decimal.NewNullDecimal(decimal.NewFromInt(fee)),
			PaymentMethod: model.PaymentCash, Status: model.SessionClosed, EntryOperatorID: 1,
		}
	}
	sessions := []model.ParkingSession{
		closed("t-1", motor, 8, 10, 4000),
		closed("t-2", car, 8, 9, 5000),
		closed("t-3", motor, 13, 14, 2000),
		{TicketCode: "t-4", VehicleID: car.ID, AreaID: areaA.ID, TariffID: 1, HourlyRate: decimal.NewFromInt(5000),
			EntryTime: day.Add(15 * time.Hour), Status: model.SessionOpen, EntryOperatorID: 1},
	}
	require.NoError(t, gormDB.Create(&sessions).Error)
	require.NoError(t, gormDB.Model(&model.Area{}).Where("id = ?", areaA.ID).Update("occupied", 1).Error)

	report, err := s.Report(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Count)
	assert.True(t, decimal.NewFromInt(11000).Equal(report.Revenue))
	require.Contains(t, report.ByCategory, model.CategoryMotor)
	assert.Equal(t, 2, report.ByCategory[model.CategoryMotor].Count)
	assert.True(t, decimal.NewFromInt(6000).Equal(report.ByCategory[model.CategoryMotor].Total))
	assert.Equal(t, 3, report.ByArea["Area A"].Count)
	assert.Equal(t, "t-3", report.Sessions[0].TicketCode)

	_, err = s.Report(ctx, day, day)
	assert.ErrorIs(t, err, ErrInvalid)

	stats, err := s.Analytics(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Entries)
	assert.True(t, decimal.NewFromInt(11000).Equal(stats.Revenue))
	assert.Equal(t, int64(1), stats.ActiveVehicles)
	require.Len(t, stats.EntriesByHour, 3)
	assert.Equal(t, 2, stats.EntriesByHour[0].Count)
	require.Len(t, stats.RevenueByCategory, 2)
	assert.Equal(t, model.CategoryMobil, stats.RevenueByCategory[0].Category)
	assert.True(t, decimal.NewFromInt(3000).Equal(stats.RevenueByCategory[1].Average))
	require.Len(t, stats.Occupancy, 1)
	assert.Equal(t, 25.0, stats.Occupancy[0].Percent)

	history, err := s.ListSessions(ctx, SessionFilter{Status: model.SessionClosed, VehicleID: motor.ID})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "t-3", history[0].TicketCode)
	require.NotNil(t, history[0].Vehicle)
}
