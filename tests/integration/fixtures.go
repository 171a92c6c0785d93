package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	agentapp "github.com/agentdesk/backend/internal/application/agent"
	billingapp "github.com/agentdesk/backend/internal/application/billing"
	bookingapp "github.com/agentdesk/backend/internal/application/booking"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/hotel"
	"github.com/agentdesk/backend/internal/domain/inventory"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	infraconfig "github.com/agentdesk/backend/internal/infrastructure/config"
	"github.com/agentdesk/backend/internal/infrastructure/persistence"
	"github.com/agentdesk/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
)

// testEnv wires the real repositories and application services against a
// containerized database, the same way cmd/server does in production.
type testEnv struct {
	agentSvc      *agentapp.Service
	orderCreation *bookingapp.OrderCreationService
	orderStatus   *bookingapp.OrderStatusService
	billSvc       *billingapp.AgentBillService
	paymentSvc    *billingapp.PaymentService

	billRepo  billing.BillRepository
	orderRepo booking.Repository
	unitRepo  inventory.UnitRepository
}

func newTestEnv(t *testing.T, tdb *TestDB) *testEnv {
	t.Helper()

	log := zap.NewNop()

	agentRepo := persistence.NewGormAgentRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	billRepo := persistence.NewGormBillRepository(tdb.DB)
	paymentRepo := persistence.NewGormPaymentRepository(tdb.DB)
	auditRepo := persistence.NewGormBillAuditLogRepository(tdb.DB)
	unitRepo := persistence.NewGormInventoryUnitRepository(tdb.DB)
	hotelDir := persistence.NewGormHotelDirectory(tdb.DB)
	syncer := persistence.NewGormSummarySynchronizer(tdb.DB)

	bookingScope := persistence.NewGormBookingTransactionScope(tdb.DB)
	billingScope := persistence.NewGormBillingTransactionScope(tdb.DB)

	proofStorage, err := storage.NewProofStorage(&infraconfig.StorageConfig{
		Provider:  "local",
		LocalPath: t.TempDir(),
	})
	require.NoError(t, err, "Failed to create proof storage")

	auditor := billingapp.NewBillAuditService(log)

	return &testEnv{
		agentSvc:      agentapp.NewService(agentRepo),
		orderCreation: bookingapp.NewOrderCreationService(bookingScope, agentRepo, hotelDir, syncer, log),
		orderStatus:   bookingapp.NewOrderStatusService(bookingScope, syncer, log),
		billSvc:       billingapp.NewAgentBillService(billingScope, agentRepo, billRepo, auditRepo, auditor, log),
		paymentSvc:    billingapp.NewPaymentService(billingScope, paymentRepo, auditor, proofStorage, log),
		billRepo:      billRepo,
		orderRepo:     orderRepo,
		unitRepo:      unitRepo,
	}
}

func seedHotel(t *testing.T, tdb *TestDB, name, city string) *hotel.Hotel {
	t.Helper()

	h := &hotel.Hotel{BaseEntity: shared.NewBaseEntity(), Name: name, City: city}
	require.NoError(t, tdb.DB.Create(h).Error, "Failed to seed hotel")
	return h
}

func seedRoomType(t *testing.T, tdb *TestDB, hotelID uuid.UUID, name string) *hotel.RoomType {
	t.Helper()

	rt := &hotel.RoomType{BaseEntity: shared.NewBaseEntity(), HotelID: hotelID, Name: name}
	require.NoError(t, tdb.DB.Create(rt).Error, "Failed to seed room type")
	return rt
}

// seedUnit inserts one AVAILABLE room-night for the given slot.
func seedUnit(t *testing.T, tdb *TestDB, hotelID, roomTypeID uuid.UUID, date time.Time, selling, cost string) *inventory.InventoryUnit {
	t.Helper()

	sellingPrice, err := valueobject.NewMoneyCNYFromString(selling)
	require.NoError(t, err)
	costPrice, err := valueobject.NewMoneyCNYFromString(cost)
	require.NoError(t, err)

	unit := &inventory.InventoryUnit{
		BaseEntity:   shared.NewBaseEntity(),
		HotelID:      hotelID,
		RoomTypeID:   roomTypeID,
		Date:         date,
		Status:       inventory.UnitStatusAvailable,
		SellingPrice: sellingPrice,
		CostPrice:    costPrice,
		ContractID:   uuid.New(),
	}
	require.NoError(t, tdb.DB.Create(unit).Error, "Failed to seed inventory unit")
	return unit
}
