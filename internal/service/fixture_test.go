package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ecr/config"
	"ecr/internal/auth"
	"ecr/internal/domain"
	"ecr/internal/models"
	"ecr/internal/repository"
	"ecr/internal/testutil"
	"ecr/pkg/payment"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	sink     *testutil.EventRecorder
	provider *payment.StubProvider
	issuer   *auth.Issuer

	auth          *AuthService
	users         *UserService
	properties    *PropertyService
	bookings      *BookingService
	gateways      *GatewayService
	payments      *PaymentService
	commissions   *CommissionService
	notifications *NotificationService

	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	sink := &testutil.EventRecorder{}
	provider := &payment.StubProvider{}
	issuer := auth.NewIssuer(config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test",
	})

	userRepo := repository.NewUserRepository(db)
	propRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	gatewayRepo := repository.NewGatewayRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)

	notifier := NewNotificationService(repository.NewNotificationRepository(db))
	audit := NewAuditService(repository.NewAuditLogRepository(db))
	gateways := NewGatewayService(gatewayRepo)

	return &fixture{
		db:            db,
		sink:          sink,
		provider:      provider,
		issuer:        issuer,
		auth:          NewAuthService(issuer, userRepo),
		users:         NewUserService(userRepo),
		properties:    NewPropertyService(propRepo, userRepo, sink),
		bookings:      NewBookingService(bookingRepo, propRepo, notifier, sink),
		gateways:      gateways,
		notifications: notifier,
		commissions:   NewCommissionService(commissionRepo, notifier, audit, sink),
		payments: NewPaymentService(PaymentDeps{
			DB:          db,
			Payment:     config.PaymentConfig{Currency: "INR", GatewayTimeout: time.Second},
			Commission:  config.CommissionConfig{DueAfter: 30 * 24 * time.Hour},
			Bookings:    bookingRepo,
			Properties:  propRepo,
			Payments:    paymentRepo,
			Commissions: commissionRepo,
			Gateways:    gatewayRepo,
			GatewaySvc:  gateways,
			Providers:   provider.Factory(),
			Notifier:    notifier,
			Audit:       audit,
			Sink:        sink,
		}),
	}
}

func (f *fixture) user(t *testing.T, role domain.Role) *models.User {
	t.Helper()
	f.seq++
	u := &models.User{
		Name:         fmt.Sprintf("%s %d", role, f.seq),
		Email:        fmt.Sprintf("%s%d@example.com", role, f.seq),
		PasswordHash: "not-a-hash",
		Role:         role,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func actor(u *models.User) Actor { return Actor{ID: u.ID, Role: u.Role} }

func strp(s string) *string   { return &s }
func f64p(v float64) *float64 { return &v }
func uintp(v uint) *uint      { return &v }
func boolp(v bool) *bool      { return &v }

func (f *fixture) property(t *testing.T, owner *models.User, broker *models.User, commission float64) *models.Property {
	t.Helper()
	in := PropertyInput{
		Title:      strp("Sea View Villa"),
		Location:   strp("Mahabalipuram"),
		Price:      f64p(5000),
		Commission: f64p(commission),
	}
	if broker != nil {
		in.BrokerID = uintp(broker.ID)
	}
	p, err := f.properties.Create(context.Background(), owner.ID, in)
	require.NoError(t, err)
	return p
}

func (f *fixture) booking(t *testing.T, customer *models.User, p *models.Property, amount float64) *models.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), customer.ID, BookingInput{
		PropertyID: p.ID,
		Amount:     amount,
		Date:       "2025-01-01",
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) gateway(t *testing.T, u *models.User) *models.PaymentGateway {
	t.Helper()
	g, _, err := f.gateways.Upsert(context.Background(), actor(u), "rzp_test_"+u.Email, "secret")
	require.NoError(t, err)
	return g
}
